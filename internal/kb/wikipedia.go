// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/triple-engine/internal/httputil"
	"github.com/pdiddy/triple-engine/pkg/types"
)

// wikipediaEndpoint is the MediaWiki Action API URL. Declared as a var so
// tests can substitute an httptest server.
var wikipediaEndpoint = "https://en.wikipedia.org/w/api.php"

const (
	defaultUserAgent         = "triple-engine/dev (https://github.com/pdiddy/triple-engine)"
	defaultRequestsPerSecond = 5
	defaultBurst             = 5
	defaultHTTPTimeout       = 10 * time.Second
)

// Wikipedia looks pages up through the MediaWiki search generator. The
// top search hit is followed through redirects; disambiguation pages are
// rejected with types.ErrAmbiguousTitle.
type Wikipedia struct {
	client    *http.Client
	endpoint  string
	userAgent string
	token     string
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewWikipedia returns a client for cfg. token, when set, is sent as a
// Wikimedia API bearer token.
func NewWikipedia(cfg types.KBConfig, token string, logger *slog.Logger) *Wikipedia {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = wikipediaEndpoint
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Wikipedia{
		client:    &http.Client{Timeout: timeout},
		endpoint:  endpoint,
		userAgent: userAgent,
		token:     token,
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
		logger:    logger,
	}
}

// wikiResponse is the formatversion=2 shape of a generator query.
type wikiResponse struct {
	Query *struct {
		Pages []wikiPage `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

type wikiPage struct {
	Title     string            `json:"title"`
	FullURL   string            `json:"fullurl"`
	Index     int               `json:"index"`
	Missing   bool              `json:"missing"`
	PageProps map[string]string `json:"pageprops"`
}

// Lookup returns the best-matching article for text.
func (w *Wikipedia) Lookup(ctx context.Context, text string) (types.Page, error) {
	if err := w.limiter.Wait(ctx); err != nil {
		return types.Page{}, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	params := url.Values{
		"action":        {"query"},
		"generator":     {"search"},
		"gsrsearch":     {text},
		"gsrlimit":      {"1"},
		"prop":          {"info|pageprops"},
		"inprop":        {"url"},
		"ppprop":        {"disambiguation"},
		"redirects":     {"1"},
		"format":        {"json"},
		"formatversion": {"2"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return types.Page{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := httputil.DoWithRetry(ctx, w.client, req, 0)
	if err != nil {
		return types.Page{}, fmt.Errorf("wikipedia request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Page{}, fmt.Errorf("wikipedia returned HTTP %d", resp.StatusCode)
	}

	var wr wikiResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return types.Page{}, fmt.Errorf("parsing wikipedia response: %w", err)
	}
	if wr.Error != nil {
		return types.Page{}, fmt.Errorf("wikipedia API error %s: %s", wr.Error.Code, wr.Error.Info)
	}

	page, ok := topPage(wr)
	if !ok {
		return types.Page{}, fmt.Errorf("%q: %w", text, types.ErrPageNotFound)
	}
	if _, ok := page.PageProps["disambiguation"]; ok {
		return types.Page{}, fmt.Errorf("%q resolves to %q: %w", text, page.Title, types.ErrAmbiguousTitle)
	}

	w.logger.Debug("wikipedia match", "text", text, "title", page.Title)
	return types.Page{Title: page.Title, Identifier: page.FullURL}, nil
}

// topPage returns the page with the lowest search index.
func topPage(wr wikiResponse) (wikiPage, bool) {
	if wr.Query == nil {
		return wikiPage{}, false
	}
	var (
		best  wikiPage
		found bool
	)
	for _, p := range wr.Query.Pages {
		if p.Missing || p.FullURL == "" {
			continue
		}
		if !found || p.Index < best.Index {
			best, found = p, true
		}
	}
	return best, found
}
