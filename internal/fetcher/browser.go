package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"highwatch/internal/config"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// CookieHarvester visits pages in a real browser and returns the cookies it ends up with.
type CookieHarvester func(ctx context.Context, cfg config.BrowserWarmup, urls []string, userAgent string) ([]*http.Cookie, error)

// HarvestWithChrome launches a headless chrome through rod, walks `urls` in order and
// returns the cookies chrome holds for them afterwards. Sites that set their bot
// cookies from javascript can only be warmed up this way.
func HarvestWithChrome(ctx context.Context, cfg config.BrowserWarmup, urls []string, userAgent string) ([]*http.Cookie, error) {
	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless)
	if cfg.NoSandbox {
		l = l.NoSandbox(true)
	}
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}
	defer l.Kill()

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	err = b.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	defer b.Close()

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	if userAgent != "" {
		err = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent})
		if err != nil {
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}

	for _, link := range urls {
		err = page.Navigate(link)
		if err != nil {
			return nil, fmt.Errorf("navigate %s: %w", link, err)
		}
		err = page.WaitLoad()
		if err != nil {
			return nil, fmt.Errorf("wait for %s: %w", link, err)
		}
	}

	cookies, err := page.Cookies(urls)
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}

	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		cookie := &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		}
		// session cookies report an expiry of -1
		if c.Expires > 0 {
			cookie.Expires = time.Unix(int64(c.Expires), 0)
		}
		out = append(out, cookie)
	}
	return out, nil
}
