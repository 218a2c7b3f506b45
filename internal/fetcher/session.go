package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"highwatch/internal/config"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"
)

// Session is the cookie jar and http client shared by the warm-up requests and
// the data request of one fetch.
type Session struct {
	http *resty.Client
	jar  *cookiejar.Jar
	// base is the request context of the first attempt.
	base RequestContext
}

func (f *Fetcher) newSession() (*Session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetCookieJar(jar)
	client.SetTimeout(f.cfg.RequestTimeout.Std())
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	if f.cfg.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	f.instrument(client)

	return &Session{
		http: client,
		jar:  jar,
		base: NewRequestContext(f.cfg, f.userAgent()),
	}, nil
}

// userAgent is picked once per session and used by every request of it.
func (f *Fetcher) userAgent() string {
	if f.cfg.RandomUserAgent {
		ua := browser.Chrome()
		if ua != "" {
			return ua
		}
		f.tel.ReportWarning(report_session_user_agent, "no random user agent available, using the configured one")
	}
	if f.cfg.UserAgent != "" {
		return f.cfg.UserAgent
	}
	return config.DefaultUserAgent
}

// Base returns the request context of the first attempt.
func (s *Session) Base() RequestContext {
	return s.base
}

// Cookies returns the cookies the session would send to `link`.
func (s *Session) Cookies(link string) []*http.Cookie {
	u, err := url.Parse(link)
	if err != nil {
		return nil
	}
	return s.jar.Cookies(u)
}

// AddCookies stores cookies obtained elsewhere as if `link` had set them.
func (s *Session) AddCookies(link string, cookies []*http.Cookie) error {
	u, err := url.Parse(link)
	if err != nil {
		return err
	}
	s.jar.SetCookies(u, cookies)
	return nil
}

func (s *Session) get(ctx context.Context, link string, rc RequestContext) (*resty.Response, error) {
	res, err := rc.apply(s.http.R().SetContext(ctx)).Get(link)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", link, err)
	}
	return res, nil
}
