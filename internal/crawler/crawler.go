// Package crawler fetches marketplace pages over plain HTTP or through a
// headless browser.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"mime"
	"net/url"
	"strings"
	"time"
)

var (
	ErrInvalidURL = errors.New("crawler: invalid url")
	ErrNonHTML    = errors.New("crawler: non-html content")
)

// Response is one fetched document.
type Response struct {
	Body        []byte
	FinalURL    string
	ContentType string
	Elapsed     time.Duration
}

// Fetcher retrieves a single URL. Any error means "skip this URL".
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Response, error)
}

// desktop browser strings rotated per request
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

func pickUserAgent(agents []string) string {
	if len(agents) == 0 {
		agents = defaultUserAgents
	}
	return agents[rand.IntN(len(agents))]
}

func parseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return u, nil
}

// isHTML accepts html and xhtml media types. Servers that omit the header
// are given the benefit of the doubt.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
