// Package archive talks to the remote content archive: the search engine
// that backs every catalog page, and the per-item file listings. It also
// adapts raw search records into OPDS publications.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// searchFields are the metadata fields requested from the search engine;
// everything the record adapter and the lending engine consume.
var searchFields = []string{
	"format",
	"identifier-access",
	"title",
	"language",
	"publicdate",
	"imagecount",
	"creator",
	"identifier",
	"description",
	"runtime",
	"mediatype",
	"access-restricted-item",
	"external-identifier",
	"lending___available_to_borrow",
	"lending___available_to_browse",
	"lending___max_lendable_copies",
	"lending___users_on_waitlist",
	"lending___active_borrows",
	"lending___active_browses",
	"lending___borrow_expiration",
	"lending___browse_expiration",
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
	log        *zap.Logger
}

func NewClient(baseURL, userAgent string, rps, maxRetries int, log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:    baseURL,
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
		log:        log,
	}
}

type searchResponse struct {
	Response struct {
		NumFound int               `json:"numFound"`
		Docs     []json.RawMessage `json:"docs"`
	} `json:"response"`
}

// Search runs one advanced-search call and returns the raw result docs with
// the total hit count.
func (c *Client) Search(ctx context.Context, query string, page, rows int, sort, clientHint string) ([]json.RawMessage, int, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("rows", strconv.Itoa(rows))
	params.Set("output", "json")
	params.Set("application_id", "opds")
	if clientHint != "" {
		params.Set("preferred_client_id", clientHint)
	}
	if sort != "" {
		params.Add("sort[]", sort)
	}
	for _, field := range searchFields {
		params.Add("fl[]", field)
	}

	u := fmt.Sprintf("%s/advancedsearch.php?%s", c.baseURL, params.Encode())

	var res searchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, 0, fmt.Errorf("archive search: %w", err)
	}
	return res.Response.Docs, res.Response.NumFound, nil
}

// File is one file hosted under an archive item. Length is the duration
// string the archive reports for audio files, e.g. "648.13".
type File struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Format string `json:"format"`
	Length string `json:"length"`
}

type filesResponse struct {
	Result []File `json:"result"`
}

// Files lists all files of an item.
func (c *Client) Files(ctx context.Context, identifier string) ([]File, error) {
	u := fmt.Sprintf("%s/metadata/%s/files", c.baseURL, url.PathEscape(identifier))

	var res filesResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, fmt.Errorf("archive files %q: %w", identifier, err)
	}
	return res.Result, nil
}

// MatchesGlob reports whether the file's name matches the glob pattern.
// An empty pattern matches everything.
func (f File) MatchesGlob(glob string) bool {
	if glob == "" {
		return true
	}
	ok, err := path.Match(glob, f.Name)
	return err == nil && ok
}

// Seconds parses the file's length into seconds, zero when absent or
// malformed.
func (f File) Seconds() float64 {
	if f.Length == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(f.Length, 64)
	if err != nil {
		return 0
	}
	return secs
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			c.log.Debug("retrying archive request",
				zap.String("url", url),
				zap.Int("attempt", i),
				zap.Duration("backoff", backoff))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
				continue
			}
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		return err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}
