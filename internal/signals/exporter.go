package signals

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/internal/processor"
	"github.com/wonny/ssq/pkg/logger"
)

// DrawExporter dumps the normalized draw history, one line per record (S0).
// Set either Path (the file is truncated) or Writer.
type DrawExporter struct {
	Path   string
	Writer io.Writer

	logger *logger.Logger
}

// NewDrawExporter creates an exporter writing to path
func NewDrawExporter(path string, log *logger.Logger) *DrawExporter {
	if log == nil {
		log = logger.NewNop()
	}
	return &DrawExporter{Path: path, logger: log}
}

// Name returns the stage name
func (e *DrawExporter) Name() string {
	return contracts.StageExport.String()
}

// Execute writes every record in chronological order
func (e *DrawExporter) Execute(ctx context.Context, store *processor.Store) error {
	w := e.Writer
	if w == nil {
		f, err := os.Create(e.Path)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	n, err := WriteDraws(w, store.Records())
	if err != nil {
		return fmt.Errorf("export draws: %w", err)
	}

	e.logger.WithFields(map[string]interface{}{
		"path":    e.Path,
		"records": n,
	}).Info("Draw records exported")

	return nil
}

// WriteDraws writes records in chronological order and returns the line count
func WriteDraws(w io.Writer, records []contracts.DrawRecord) (int, error) {
	bw := bufio.NewWriter(w)
	sorted := chronological(records)
	for _, r := range sorted {
		_, err := fmt.Fprintf(bw, "%s, code: %s, weekday: %s, special: %s, primary: %v\n",
			r.Date.Format("2006-01-02"), r.Code, r.Weekday, r.Special, r.SortedPrimary())
		if err != nil {
			return 0, err
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, err
	}
	return len(sorted), nil
}
