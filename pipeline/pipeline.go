package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"bankflow/config"
	"bankflow/logger"
	"bankflow/models"
	"bankflow/processor"
	"bankflow/reader/banks"
	"bankflow/reader/rates"
	"bankflow/runlog"
	"bankflow/writer"
)

// Pipeline runs the five stages once, in order: extract, transform, write
// file, load database, report. Each stage consumes the previous stage's
// complete output; any failure aborts the run.
type Pipeline struct {
	config *config.Config
	log    *logger.Log
	runlog *runlog.Logger
	out    io.Writer
}

func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		config: cfg,
		log:    logger.GetLogger(),
		runlog: runlog.New(cfg.RunLog.Path),
		out:    os.Stdout,
	}
}

func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log := p.log.WithComponent("pipeline").WithFields(logger.Fields{"run_id": runID})

	p.runlog.Stage("Preliminary checks complete. Initiating ETL process")

	bankRows, err := banks.NewReader(p.config).Read(ctx)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}
	p.runlog.Stage("Data extraction complete. Initiating Transformation process")

	rateTable, err := rates.NewReader(p.config).Fetch(ctx)
	if err != nil {
		return fmt.Errorf("rate fetch failed: %w", err)
	}

	ds, err := processor.Transform(bankRows, rateTable, p.config.Transform.Currencies)
	if err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}
	ds.RunID = runID
	p.runlog.Stage("Data transformation complete. Initiating Loading process")

	comma := rune(p.config.Output.CSV.Delimiter[0])
	if err := writer.WriteCSV(ds, p.config.Output.CSV.Path, comma); err != nil {
		return fmt.Errorf("file load failed: %w", err)
	}
	p.runlog.Stage("Data saved to CSV file")

	if err := p.loadAndReport(ctx, ds); err != nil {
		return err
	}

	log.WithFields(logger.Fields{"rows": len(ds.Banks)}).Info("pipeline complete")
	p.runlog.Stage("Process Complete")
	return nil
}

// loadAndReport owns the database handle for the load and report stages and
// closes it on every exit path.
func (p *Pipeline) loadAndReport(ctx context.Context, ds *models.Dataset) error {
	store, err := writer.OpenStore(p.config.Output.Database.Path)
	if err != nil {
		return fmt.Errorf("database open failed: %w", err)
	}
	defer store.Close()
	p.runlog.Stage("SQL Connection initiated")

	if err := store.Replace(ctx, p.config.Output.Database.Table, ds); err != nil {
		return fmt.Errorf("database load failed: %w", err)
	}
	p.runlog.Stage("Data loaded to Database as a table, Executing queries")

	for _, q := range p.config.Report.Queries {
		res, err := store.Query(ctx, q)
		if err != nil {
			return fmt.Errorf("report query failed: %w", err)
		}
		res.Render(p.out)
	}

	p.runlog.Stage("Server Connection closed")
	return nil
}
