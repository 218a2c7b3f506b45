// Package consolidate merges the daily tables into a single weekly table.
package consolidate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"highwatch/internal/archive"
	"highwatch/internal/components/chrono"
	"highwatch/internal/components/telemetry"
	"highwatch/internal/config"
	"highwatch/internal/table"
)

const (
	FetchDateColumn  = "fetch_date"
	SourceFileColumn = "source_file"
)

const (
	report_consolidator_list  = "consolidator.list"
	report_consolidator_read  = "consolidator.read"
	report_consolidator_write = "consolidator.write"
	report_consolidator_rows  = "consolidator.rows"
)

// ErrNothingToDo is returned when there is no readable daily table to merge,
// it is not a failure.
var ErrNothingToDo = errors.New("nothing to do")

type Consolidator struct {
	cfg  config.Consolidate
	time chrono.API
	tel  telemetry.API
}

func New(cfg config.Consolidate, time chrono.API, tel telemetry.API) Consolidator {
	return Consolidator{
		cfg:  cfg,
		time: time,
		tel:  telemetry.NewScopedAPI("consolidate", tel),
	}
}

// Result describes the weekly table a successful Consolidate wrote.
type Result struct {
	Path    string
	Rows    int
	Files   []string
	Skipped []string
}

// Consolidate concatenates every daily table in the daily directory, tagging each
// row with the date and name of the file it came from, and writes the result to
// `weekly_consolidated_<today>.csv` in the weekly directory.
//
// Files are processed in name order, which is date order. A file that cannot be
// read is reported and skipped. If there are no files, or none of them can be read,
// ErrNothingToDo is returned and nothing is written.
func (c Consolidator) Consolidate(ctx context.Context) (Result, error) {
	err := c.cfg.Validate()
	if err != nil {
		return Result{}, err
	}

	files, err := archive.ListDaily(c.cfg.DailyDir, c.cfg.FilePrefix)
	if err != nil {
		c.tel.ReportBroken(report_consolidator_list, err, c.cfg.DailyDir)
		return Result{}, fmt.Errorf("list %s: %w", c.cfg.DailyDir, err)
	}
	files = c.window(files)
	if len(files) == 0 {
		c.tel.ReportDebug("no daily files found", c.cfg.DailyDir)
		return Result{}, ErrNothingToDo
	}

	var result Result
	combined := table.New()
	for _, file := range files {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}

		tbl, err := table.ReadFile(file.Path)
		if err != nil {
			c.tel.ReportWarning(report_consolidator_read, fmt.Sprintf("skipping %s", file.Name), err)
			result.Skipped = append(result.Skipped, file.Name)
			continue
		}

		tbl.SetColumn(FetchDateColumn, file.Date)
		tbl.SetColumn(SourceFileColumn, file.Name)
		combined.Concat(tbl)
		result.Files = append(result.Files, file.Name)
	}

	if len(result.Files) == 0 {
		c.tel.ReportWarning(report_consolidator_read, "no readable daily files", c.cfg.DailyDir)
		return result, ErrNothingToDo
	}

	// the tagging columns go last, after the union of the data columns
	ordered := table.New()
	for _, column := range combined.Columns {
		if column != FetchDateColumn && column != SourceFileColumn {
			ordered.Columns = append(ordered.Columns, column)
		}
	}
	ordered.Columns = append(ordered.Columns, FetchDateColumn, SourceFileColumn)
	ordered.Rows = combined.Rows

	path := filepath.Join(c.cfg.WeeklyDir, archive.WeeklyName(c.time.Now()))
	err = ordered.WriteFile(path)
	if err != nil {
		c.tel.ReportBroken(report_consolidator_write, err, path)
		return result, fmt.Errorf("write %s: %w", path, err)
	}
	c.tel.ReportCount(report_consolidator_rows, int64(len(ordered.Rows)))

	result.Path = path
	result.Rows = len(ordered.Rows)
	return result, nil
}

// window drops files dated more than `days` days before today, 0 keeps everything.
func (c Consolidator) window(files []archive.DailyFile) []archive.DailyFile {
	if c.cfg.Days <= 0 {
		return files
	}
	now := c.time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	cutoff := today.AddDate(0, 0, -(c.cfg.Days - 1))

	var out []archive.DailyFile
	for _, f := range files {
		if !f.Time.Before(cutoff) {
			out = append(out, f)
		}
	}
	return out
}
