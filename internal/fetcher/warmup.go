package fetcher

import (
	"context"
	"fmt"
)

// AcquireSession creates the session of a fetch and runs the first warm-up cycle.
// Warm-up is best effort, the only errors returned are a session that cannot be built
// or a cancelled context.
func (f *Fetcher) AcquireSession(ctx context.Context) (*Session, error) {
	session, err := f.newSession()
	if err != nil {
		f.tel.ReportBroken(report_session_acquire, err)
		return nil, fmt.Errorf("create session: %w", err)
	}

	if f.cfg.BrowserWarmup.Enabled && len(f.cfg.WarmupUrls) > 0 {
		f.browserWarmUp(ctx, session)
	}

	err = f.warmUp(ctx, session, session.base)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// warmUp requests every warm-up url in order as a browser navigation would, pausing
// after each one. Failures are reported and otherwise ignored.
func (f *Fetcher) warmUp(ctx context.Context, s *Session, rc RequestContext) error {
	nav := rc.ForNavigation()
	for _, link := range f.cfg.WarmupUrls {
		res, err := s.get(ctx, link, nav)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.tel.ReportWarning(report_session_warm_up, link, err)
		} else if res.IsError() {
			f.tel.ReportWarning(report_session_warm_up, link, fmt.Errorf("status %s", res.Status()))
		} else {
			f.tel.ReportDebug("warm-up ok", link, len(s.Cookies(link)))
		}

		err = f.wait(ctx, f.cfg.WarmupDelay.Std())
		if err != nil {
			return err
		}
	}
	return nil
}

func (f *Fetcher) browserWarmUp(ctx context.Context, s *Session) {
	cookies, err := f.harvest(ctx, f.cfg.BrowserWarmup, f.cfg.WarmupUrls, s.base.Get("User-Agent"))
	if err != nil {
		f.tel.ReportWarning(report_session_browser_warm_up, err)
		return
	}
	err = s.AddCookies(f.cfg.WarmupUrls[0], cookies)
	if err != nil {
		f.tel.ReportWarning(report_session_browser_warm_up, fmt.Errorf("add cookies: %w", err))
		return
	}
	f.tel.ReportDebug("browser warm-up ok", len(cookies))
}
