package fetcher

import (
	"net/http"

	"highwatch/internal/config"

	"github.com/go-resty/resty/v2"
)

const (
	acceptJSON = "application/json, text/plain, */*"
	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
)

// RequestContext is the set of headers sent with one attempt. It is never mutated,
// every With* method returns a modified copy, so a retry loop can derive the headers
// of the next attempt without touching the ones other callers hold.
type RequestContext struct {
	headers http.Header
}

func NewRequestContext(cfg config.Fetch, userAgent string) RequestContext {
	h := http.Header{}
	h.Set("User-Agent", userAgent)
	h.Set("Accept", acceptJSON)
	if cfg.AcceptLanguage != "" {
		h.Set("Accept-Language", cfg.AcceptLanguage)
	}
	if cfg.Referer != "" {
		h.Set("Referer", cfg.Referer)
	}
	if cfg.FetchMetadata {
		h.Set("Sec-Fetch-Dest", "empty")
		h.Set("Sec-Fetch-Mode", "cors")
		h.Set("Sec-Fetch-Site", "same-origin")
	}
	return RequestContext{headers: h}
}

func (r RequestContext) With(key, value string) RequestContext {
	h := r.headers.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set(key, value)
	return RequestContext{headers: h}
}

func (r RequestContext) WithReferer(referer string) RequestContext {
	if referer == "" {
		return r
	}
	return r.With("Referer", referer)
}

// ForNavigation returns the headers a browser sends when a user opens a page
// directly, as opposed to the XHR headers of the data request.
func (r RequestContext) ForNavigation() RequestContext {
	nav := r.With("Accept", acceptHTML)
	if nav.headers.Get("Sec-Fetch-Mode") != "" {
		nav.headers.Set("Sec-Fetch-Dest", "document")
		nav.headers.Set("Sec-Fetch-Mode", "navigate")
		nav.headers.Set("Sec-Fetch-Site", "none")
		nav.headers.Set("Sec-Fetch-User", "?1")
		nav.headers.Set("Upgrade-Insecure-Requests", "1")
	}
	return nav
}

func (r RequestContext) Get(key string) string {
	return r.headers.Get(key)
}

// Header returns a copy of the headers.
func (r RequestContext) Header() http.Header {
	return r.headers.Clone()
}

func (r RequestContext) apply(req *resty.Request) *resty.Request {
	return req.SetHeaderMultiValues(r.headers.Clone())
}
