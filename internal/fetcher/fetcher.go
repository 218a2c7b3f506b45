// Package fetcher downloads the daily listing: it warms up a cookie session the way a
// browser would, requests the data endpoint with retries, locates the record list in
// whatever shape the JSON comes in and writes it out as a dated csv table.
package fetcher

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

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const (
	report_session_acquire         = "session.acquire"
	report_session_warm_up         = "session.warm-up"
	report_session_browser_warm_up = "session.browser-warm-up"
	report_session_user_agent      = "session.user-agent"
	report_fetcher_fetch           = "fetch-with-retry"
	report_fetcher_extract         = "extract-records"
	report_fetcher_save            = "normalize-and-save"
	report_fetcher_rows            = "rows"
)

type Fetcher struct {
	cfg     config.Fetch
	time    chrono.API
	tel     telemetry.API
	output  telemetry.MessageOutput
	wait    func(ctx context.Context, d time.Duration) error
	harvest CookieHarvester
}

type Option func(f *Fetcher)

// WithMessageOutput writes every http exchange of the fetch to `out`.
func WithMessageOutput(out telemetry.MessageOutput) Option {
	return func(f *Fetcher) {
		f.output = out
	}
}

// WithWait replaces the function used for every pause (warm-up delay, backoff).
func WithWait(wait func(ctx context.Context, d time.Duration) error) Option {
	return func(f *Fetcher) {
		f.wait = wait
	}
}

// WithCookieHarvester replaces the browser used by the browser warm-up.
func WithCookieHarvester(harvest CookieHarvester) Option {
	return func(f *Fetcher) {
		f.harvest = harvest
	}
}

func New(cfg config.Fetch, time chrono.API, tel telemetry.API, opts ...Option) *Fetcher {
	f := &Fetcher{
		cfg:     cfg,
		time:    time,
		tel:     telemetry.NewScopedAPI("fetcher", tel),
		wait:    sleep,
		harvest: HarvestWithChrome,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) instrument(client *resty.Client) {
	telemetry.InstrumentResty(client, "highwatch/fetcher/http", f.tel, f.output)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Result describes the table a successful Run wrote.
type Result struct {
	Path    string
	Rows    int
	Columns []string
	// SourceKey is the key the records were found under, empty for a bare list.
	SourceKey string
}

// Run performs a whole fetch: session, data request, extraction and save.
func (f *Fetcher) Run(ctx context.Context) (Result, error) {
	err := f.cfg.Validate()
	if err != nil {
		return Result{}, err
	}

	session, err := f.AcquireSession(ctx)
	if err != nil {
		return Result{}, err
	}

	res, err := f.FetchWithRetry(ctx, session, f.cfg.Endpoint)
	if err != nil {
		return Result{}, err
	}

	extraction, err := ExtractRecords(res.Body(), f.cfg.RecordKeys)
	if err != nil {
		f.tel.ReportBroken(report_fetcher_extract, err)
		return Result{}, newPayloadError(err, res.Body())
	}
	if extraction.Fallback {
		f.tel.ReportWarning(
			report_fetcher_extract,
			fmt.Sprintf("records taken from the first list-valued key %q, add it to fetch.record_keys if this is right", extraction.Key),
		)
	}
	if len(extraction.Records) == 0 {
		f.tel.ReportWarning(report_fetcher_extract, "record list is empty")
	}

	path := filepath.Join(f.cfg.OutputDir, archive.DailyName(f.cfg.FilePrefix, f.time.Now()))
	tbl, err := NormalizeAndSave(extraction.Records, path)
	if err != nil {
		f.tel.ReportBroken(report_fetcher_save, err)
		return Result{}, &SaveError{Path: path, Err: err}
	}
	f.tel.ReportCount(report_fetcher_rows, int64(len(tbl.Rows)))

	return Result{
		Path:      path,
		Rows:      len(tbl.Rows),
		Columns:   tbl.Columns,
		SourceKey: extraction.Key,
	}, nil
}

// NormalizeAndSave flattens the records into a table and writes it to `outPath`,
// creating directories as needed.
func NormalizeAndSave(records []gjson.Result, outPath string) (*table.Table, error) {
	tbl := table.Flatten(records)
	err := tbl.WriteFile(outPath)
	if err != nil {
		return nil, err
	}
	return tbl, nil
}

// IsPayloadError reports whether err came from a response that could not be read as records.
func IsPayloadError(err error) bool {
	var payloadErr *PayloadError
	return errors.As(err, &payloadErr)
}
