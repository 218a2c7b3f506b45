package fetcher

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/pretty"
)

var ErrInvalidJSON = errors.New("response is not valid JSON")

const (
	bodySnippetLen    = 200
	payloadSnippetLen = 2000
)

// ShapeError is returned when no list of records can be located in a JSON payload.
type ShapeError struct {
	// Keys are the keys of the top-level object in document order, empty if the
	// payload was not an object.
	Keys []string
	// Type is the JSON type of the payload.
	Type string
}

func (e *ShapeError) Error() string {
	if e.Type != "object" {
		return fmt.Sprintf("no list of records found: payload is a JSON %s", e.Type)
	}
	return fmt.Sprintf(
		"no list of records found in JSON object, keys present: [%s]",
		strings.Join(e.Keys, ", "),
	)
}

// PayloadError wraps ErrInvalidJSON or a *ShapeError with a snippet of the body.
type PayloadError struct {
	Err     error
	Snippet string
}

func (e *PayloadError) Error() string {
	return e.Err.Error()
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

func newPayloadError(err error, body []byte) *PayloadError {
	var snippet []byte
	if errors.Is(err, ErrInvalidJSON) {
		snippet = body
	} else {
		snippet = pretty.Pretty(body)
	}
	return &PayloadError{Err: err, Snippet: truncate(snippet, payloadSnippetLen)}
}

// SaveError wraps a failure to write the daily table.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save %s: %s", e.Path, e.Err.Error())
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// ExhaustedError is returned once every attempt of the data request has failed.
// It carries what the operator needs to figure out why.
type ExhaustedError struct {
	URL      string
	Attempts int
	// StatusCode is 0 if the last attempt failed before a response came back.
	StatusCode int
	// Err is the transport error of the last attempt, if any.
	Err     error
	Cookies []*http.Cookie
	// BodySnippet is the start of the last response body.
	BodySnippet string
	// PageTitle is the <title> of the last response if it was an html page,
	// anti-bot walls usually say who they are there.
	PageTitle string
	// DeadlineReached is set when the wall-clock ceiling cut the retries short.
	DeadlineReached bool
}

func (e *ExhaustedError) Error() string {
	reason := fmt.Sprintf("last status %d", e.StatusCode)
	if e.Err != nil {
		reason = fmt.Sprintf("last error: %s", e.Err.Error())
	}
	if e.DeadlineReached {
		reason += ", retry deadline reached"
	}
	return fmt.Sprintf("fetch %s: gave up after %d attempt(s): %s", e.URL, e.Attempts, reason)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Diagnostics renders the error for printing on a terminal.
func (e *ExhaustedError) Diagnostics() string {
	var out strings.Builder
	fmt.Fprintf(&out, "url: %s\n", e.URL)
	fmt.Fprintf(&out, "attempts: %d\n", e.Attempts)
	fmt.Fprintf(&out, "last status: %d\n", e.StatusCode)
	if e.Err != nil {
		fmt.Fprintf(&out, "last error: %s\n", e.Err.Error())
	}
	if e.PageTitle != "" {
		fmt.Fprintf(&out, "page title: %s\n", e.PageTitle)
	}
	if len(e.Cookies) == 0 {
		out.WriteString("cookies: <none>\n")
	} else {
		out.WriteString("cookies:\n")
		for _, c := range e.Cookies {
			fmt.Fprintf(&out, "  %s=%s\n", c.Name, c.Value)
		}
	}
	fmt.Fprintf(&out, "body: %s", e.BodySnippet)
	return out.String()
}

func truncate(body []byte, n int) string {
	if len(body) > n {
		body = body[:n]
	}
	return strings.ToValidUTF8(string(body), "")
}

func pageTitle(contentType string, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if !strings.Contains(contentType, "html") && !bytes.HasPrefix(trimmed, []byte("<")) {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(trimmed))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
