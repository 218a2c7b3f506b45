package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// FetchWithRetry issues the data request until it returns 200 or max_attempts is
// reached.
//
//   - 401/403 is taken as a cookie rejection: the next attempt uses the deeper retry
//     referer, the warm-up is re-run and a fixed delay is waited.
//   - any other status or a transport error waits backoff_base * 2^(attempt-1) and
//     re-runs the warm-up.
//
// A wait that would push the total time past max_elapsed ends the retries early.
// On failure the returned error is an *ExhaustedError, or the context error if ctx
// was cancelled.
func (f *Fetcher) FetchWithRetry(ctx context.Context, s *Session, link string) (*resty.Response, error) {
	maxAttempts := f.cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	start := time.Now()
	rc := s.base
	exhausted := &ExhaustedError{URL: link}

	for attempt := 1; ; attempt++ {
		exhausted.Attempts = attempt

		res, err := s.get(ctx, link, rc)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err == nil && res.StatusCode() == http.StatusOK {
			f.tel.ReportDebug("data request ok", attempt, len(res.Body()))
			return res, nil
		}
		f.recordFailure(exhausted, res, err)
		f.tel.ReportWarning(report_fetcher_fetch, fmt.Sprintf("attempt %d/%d failed", attempt, maxAttempts), exhausted.failure())

		if attempt >= maxAttempts {
			break
		}

		rejected := err == nil &&
			(res.StatusCode() == http.StatusUnauthorized || res.StatusCode() == http.StatusForbidden)

		var delay time.Duration
		if rejected {
			delay = f.cfg.RejectionDelay.Std()
		} else {
			delay = f.cfg.BackoffBase.Std() << (attempt - 1)
		}

		ceiling := f.cfg.MaxElapsed.Std()
		if ceiling > 0 && time.Since(start)+delay > ceiling {
			exhausted.DeadlineReached = true
			break
		}

		if rejected {
			rc = rc.WithReferer(f.cfg.RetryReferer)
			err = f.warmUp(ctx, s, rc)
			if err != nil {
				return nil, err
			}
			err = f.wait(ctx, delay)
			if err != nil {
				return nil, err
			}
			continue
		}

		err = f.wait(ctx, delay)
		if err != nil {
			return nil, err
		}
		err = f.warmUp(ctx, s, rc)
		if err != nil {
			return nil, err
		}
	}

	exhausted.Cookies = s.Cookies(link)
	f.tel.ReportBroken(report_fetcher_fetch, exhausted)
	return nil, exhausted
}

func (f *Fetcher) recordFailure(e *ExhaustedError, res *resty.Response, err error) {
	if err != nil {
		e.StatusCode = 0
		e.Err = err
		e.BodySnippet = ""
		e.PageTitle = ""
		return
	}
	e.StatusCode = res.StatusCode()
	e.Err = nil
	e.BodySnippet = truncate(res.Body(), bodySnippetLen)
	e.PageTitle = pageTitle(res.Header().Get("Content-Type"), res.Body())
}

func (e *ExhaustedError) failure() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.PageTitle != "" {
		return fmt.Sprintf("status %d (%s)", e.StatusCode, e.PageTitle)
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}
