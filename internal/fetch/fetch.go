package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/tldr/internal/cache"
)

// ErrServer marks 5xx responses, which are retried.
var ErrServer = errors.New("server error")

// ErrUnsupportedContent is returned for responses that are neither HTML nor
// plain text.
var ErrUnsupportedContent = errors.New("unsupported content type")

const defaultMaxBody = 4 << 20

// Page is a fetched document.
type Page struct {
	URL         string
	ContentType string
	Body        []byte
}

// IsHTML reports whether the page should go through HTML extraction.
func (p Page) IsHTML() bool {
	ct := strings.ToLower(p.ContentType)
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}

// Client fetches a single page to summarize, with timeouts, bounded retry on
// transient errors and an optional conditional-request cache.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each attempt. Zero leaves it to the context.
	PerRequestTimeout time.Duration
	// Cache stores bodies with their validators for If-None-Match and
	// If-Modified-Since revalidation. Optional.
	Cache *cache.HTTPCache
	// RedirectMaxHops caps redirects. Zero means 5.
	RedirectMaxHops int
	// MaxBodyBytes truncates larger bodies. Zero means 4 MiB.
	MaxBodyBytes int64
}

// Get fetches rawURL.
func (c *Client) Get(ctx context.Context, rawURL string) (Page, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Page{}, fmt.Errorf("parse url: %w", err)
	}
	if !isHTTPScheme(u) {
		return Page{}, fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}
	canonicalize(u)
	target := u.String()

	var etag, lastMod string
	if c.Cache != nil {
		if meta, err := c.Cache.LoadMeta(ctx, target); err == nil && meta != nil {
			etag, lastMod = meta.ETag, meta.LastModified
		}
	}

	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		page, status, validators, err := c.tryOnce(ctx, target, etag, lastMod)
		if err == nil {
			if status == http.StatusNotModified && c.Cache != nil {
				body, cerr := c.Cache.LoadBody(ctx, target)
				if cerr == nil {
					log.Debug().Str("url", target).Msg("served from cache after revalidation")
					return Page{URL: target, ContentType: page.ContentType, Body: body}, nil
				}
				// cache body vanished; refetch unconditionally
				etag, lastMod = "", ""
				lastErr = fmt.Errorf("not modified but cached body unavailable: %w", cerr)
				continue
			}
			if c.Cache != nil && status == http.StatusOK {
				if serr := c.Cache.Save(ctx, target, page.ContentType, validators[0], validators[1], page.Body); serr != nil {
					log.Warn().Err(serr).Str("url", target).Msg("http cache save failed")
				}
			}
			return page, nil
		}
		lastErr = err
		if !isTransient(err) || i == attempts-1 {
			break
		}
		log.Debug().Err(err).Int("attempt", i+1).Str("url", target).Msg("retrying fetch")
		select {
		case <-ctx.Done():
			return Page{}, ctx.Err()
		case <-time.After(time.Duration(i+1) * 200 * time.Millisecond):
		}
	}
	return Page{}, lastErr
}

func (c *Client) tryOnce(ctx context.Context, target, etag, lastMod string) (Page, int, [2]string, error) {
	var validators [2]string
	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Page{}, 0, validators, fmt.Errorf("new request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastMod != "" {
		req.Header.Set("If-Modified-Since", lastMod)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Page{}, 0, validators, err
	}
	defer resp.Body.Close()

	ct := resp.Header.Get("Content-Type")
	validators = [2]string{resp.Header.Get("ETag"), resp.Header.Get("Last-Modified")}
	switch {
	case resp.StatusCode >= 500:
		return Page{}, resp.StatusCode, validators, fmt.Errorf("%w: %d", ErrServer, resp.StatusCode)
	case resp.StatusCode == http.StatusNotModified:
		return Page{URL: target, ContentType: ct}, resp.StatusCode, validators, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Page{}, resp.StatusCode, validators, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if !isAllowedContentType(ct) {
		return Page{}, resp.StatusCode, validators, fmt.Errorf("%w: %s", ErrUnsupportedContent, ct)
	}
	limit := c.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBody
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return Page{}, resp.StatusCode, validators, fmt.Errorf("read body: %w", err)
	}
	return Page{URL: target, ContentType: ct, Body: body}, resp.StatusCode, validators, nil
}

func (c *Client) httpClient() *http.Client {
	base := http.Client{}
	if c.HTTPClient != nil {
		base = *c.HTTPClient
	}
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	base.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
	return &base
}

func isTransient(err error) bool {
	return errors.Is(err, ErrServer) || errors.Is(err, context.DeadlineExceeded)
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	s := strings.ToLower(u.Scheme)
	return s == "http" || s == "https"
}

func isAllowedContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.HasPrefix(ct, "text/html") ||
		strings.HasPrefix(ct, "application/xhtml+xml") ||
		strings.HasPrefix(ct, "text/plain")
}

var trackingParams = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "utm_id", "gclid", "fbclid"}

// canonicalize drops the fragment and tracking parameters and lowercases the
// host, so equivalent links share one cache entry.
func canonicalize(u *url.URL) {
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	if u.RawQuery == "" {
		return
	}
	q := u.Query()
	for _, p := range trackingParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
}
