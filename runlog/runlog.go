package runlog

import (
	"fmt"
	"os"
	"time"

	"bankflow/logger"
)

// timestampLayout matches the run log line format: YYYY-MM-DD-HH:MM:SS.
const timestampLayout = "2006-01-02-15:04:05"

// Logger appends one timestamped line to a fixed file at each pipeline stage
// transition. It is deliberately forgiving: a failure to write is reported
// through the structured logger but never surfaced to the caller, so a broken
// run log cannot abort the pipeline.
type Logger struct {
	path string
	now  func() time.Time
	log  *logger.Log
}

func New(path string) *Logger {
	return &Logger{
		path: path,
		now:  time.Now,
		log:  logger.GetLogger(),
	}
}

// Stage appends "<timestamp> : <message>" to the log file, creating it if
// absent.
func (l *Logger) Stage(message string) {
	line := fmt.Sprintf("%s : %s\n", l.now().Format(timestampLayout), message)

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		l.log.WithComponent("runlog").WithError(err).Warn("failed to open run log")
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		l.log.WithComponent("runlog").WithError(err).Warn("failed to append to run log")
	}
}
