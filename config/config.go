package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Bankflow  BankflowConfig  `yaml:"bankflow"`
	Source    SourceConfig    `yaml:"source"`
	Transform TransformConfig `yaml:"transform"`
	Output    OutputConfig    `yaml:"output"`
	Report    ReportConfig    `yaml:"report"`
	RunLog    RunLogConfig    `yaml:"runlog"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type BankflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type SourceConfig struct {
	Banks BanksSourceConfig `yaml:"banks"`
	Rates RatesSourceConfig `yaml:"rates"`
}

type BanksSourceConfig struct {
	URL           string        `yaml:"url"`
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	TableSelector string        `yaml:"table_selector"`
}

type RatesSourceConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type TransformConfig struct {
	Currencies []string `yaml:"currencies"`
}

type OutputConfig struct {
	CSV      CSVOutputConfig      `yaml:"csv"`
	Database DatabaseOutputConfig `yaml:"database"`
}

type CSVOutputConfig struct {
	Path      string `yaml:"path"`
	Delimiter string `yaml:"delimiter"`
}

type DatabaseOutputConfig struct {
	Path  string `yaml:"path"`
	Table string `yaml:"table"`
}

type ReportConfig struct {
	Queries []string `yaml:"queries"`
}

type RunLogConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		Source: SourceConfig{
			Banks: BanksSourceConfig{
				Timeout:       30 * time.Second,
				TableSelector: "table.wikitable",
			},
			Rates: RatesSourceConfig{
				Timeout: 30 * time.Second,
			},
		},
		Output: OutputConfig{
			CSV: CSVOutputConfig{Delimiter: ","},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override source URLs from environment variables if available
	if v := os.Getenv("BANKS_URL"); v != "" {
		config.Source.Banks.URL = strings.TrimSpace(v)
	}
	if v := os.Getenv("RATES_URL"); v != "" {
		config.Source.Rates.URL = strings.TrimSpace(v)
	}

	if len(config.Report.Queries) == 0 {
		config.Report.Queries = DefaultQueries(config.Output.Database.Table)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// DefaultQueries returns the report statements run when none are configured.
func DefaultQueries(table string) []string {
	return []string{
		fmt.Sprintf("SELECT * FROM %s", table),
		fmt.Sprintf("SELECT AVG(MC_GBP_Billion) FROM %s", table),
		fmt.Sprintf("SELECT Name FROM %s LIMIT 5", table),
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Bankflow.Name == "" {
		return fmt.Errorf("bankflow.name is required")
	}

	if cfg.Bankflow.Version == "" {
		return fmt.Errorf("bankflow.version is required")
	}

	if cfg.Source.Banks.URL == "" {
		return fmt.Errorf("source.banks.url is required")
	}

	if cfg.Source.Rates.URL == "" {
		return fmt.Errorf("source.rates.url is required")
	}

	if len(cfg.Transform.Currencies) == 0 {
		return fmt.Errorf("transform.currencies must list at least one currency")
	}
	for _, cur := range cfg.Transform.Currencies {
		if !isValidCurrency(cur) {
			return fmt.Errorf("transform.currencies entry '%s' is invalid", cur)
		}
	}

	if cfg.Output.CSV.Path == "" {
		return fmt.Errorf("output.csv.path is required")
	}
	if len(cfg.Output.CSV.Delimiter) != 1 {
		return fmt.Errorf("output.csv.delimiter must be a single character")
	}

	if cfg.Output.Database.Path == "" {
		return fmt.Errorf("output.database.path is required")
	}
	if !isValidTableName(cfg.Output.Database.Table) {
		return fmt.Errorf("output.database.table '%s' is invalid", cfg.Output.Database.Table)
	}

	if cfg.RunLog.Path == "" {
		return fmt.Errorf("runlog.path is required")
	}

	return nil
}

var tableNameRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func isValidTableName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	return tableNameRegexp.MatchString(name)
}

var currencyRegexp = regexp.MustCompile(`^[A-Z]{3}$`)

func isValidCurrency(code string) bool {
	return currencyRegexp.MatchString(code)
}
