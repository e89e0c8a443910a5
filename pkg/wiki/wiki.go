package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/econograph/backend/internal/util"
	"github.com/econograph/backend/pkg/logger"

	"codeberg.org/readeck/go-readability/v2"
	"golang.org/x/sync/errgroup"
)

const (
	defaultAPIURL    = "https://en.wikipedia.org/w/api.php"
	defaultUserAgent = "EconographBot/1.0"

	// apiBatchLimit is the number of titles per extracts query. The API
	// allows more, but extracts are only returned for a limited number
	// of pages per request.
	apiBatchLimit = 20

	concurrentBatches = 4
	maxFetchRetries   = 3
)

// Fetcher retrieves plain-text article extracts from the MediaWiki
// Action API, batching titles per request. Results are cached for the
// lifetime of the fetcher, and articles without an intro extract fall
// back to readability extraction over the rendered page.
type Fetcher struct {
	apiURL    string
	userAgent string
	client    *http.Client

	cache   map[string]string
	cacheMu sync.RWMutex
}

// NewFetcherParams configures a Fetcher. Zero values select the public
// English Wikipedia endpoint and http.DefaultClient.
type NewFetcherParams struct {
	APIURL    string
	UserAgent string
	Client    *http.Client
}

// NewFetcher creates a Fetcher with the given configuration.
func NewFetcher(params NewFetcherParams) *Fetcher {
	apiURL := params.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	userAgent := params.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := params.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		apiURL:    apiURL,
		userAgent: userAgent,
		client:    client,
		cache:     make(map[string]string),
	}
}

// TitleFromURL extracts the article title from a wiki page URL. The
// returned title keeps underscores, as they appear in the URL path.
func TitleFromURL(pageURL string) string {
	idx := strings.LastIndex(pageURL, "/wiki/")
	if idx < 0 {
		return ""
	}
	title := pageURL[idx+len("/wiki/"):]
	if decoded, err := url.PathUnescape(title); err == nil {
		title = decoded
	}
	return title
}

// FetchTexts retrieves extracts for the given page URLs. The result maps
// each URL to its extract; URLs whose article has no usable text are
// absent from the map. Only transport-level failures return an error.
func (f *Fetcher) FetchTexts(ctx context.Context, keys []string) (map[string]string, error) {
	texts := make(map[string]string, len(keys))
	var misses []string

	f.cacheMu.RLock()
	for _, key := range keys {
		if text, ok := f.cache[key]; ok {
			if text != "" {
				texts[key] = text
			}
			continue
		}
		misses = append(misses, key)
	}
	f.cacheMu.RUnlock()

	if len(misses) == 0 {
		return texts, nil
	}

	var (
		fetchedMu sync.Mutex
		fetched   = make(map[string]string, len(misses))
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrentBatches)
	for start := 0; start < len(misses); start += apiBatchLimit {
		batch := misses[start:min(start+apiBatchLimit, len(misses))]
		group.Go(func() error {
			extracts, err := f.fetchBatch(groupCtx, batch)
			if err != nil {
				return err
			}
			fetchedMu.Lock()
			for k, v := range extracts {
				fetched[k] = v
			}
			fetchedMu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	f.cacheMu.Lock()
	for _, key := range misses {
		text := fetched[key]
		f.cache[key] = text
		if text != "" {
			texts[key] = text
		}
	}
	f.cacheMu.Unlock()

	return texts, nil
}

type extractsResponse struct {
	Query struct {
		Pages map[string]struct {
			PageID  int64  `json:"pageid"`
			Title   string `json:"title"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// fetchBatch queries intro extracts for one batch of page URLs. Response
// titles come back with spaces, so matching tries the space form first
// and the underscore form second.
func (f *Fetcher) fetchBatch(ctx context.Context, keys []string) (map[string]string, error) {
	urlByTitle := make(map[string]string, len(keys)*2)
	titles := make([]string, 0, len(keys))
	for _, key := range keys {
		title := TitleFromURL(key)
		if title == "" {
			logger.Warn("[Wiki] Skipping URL without an article title", "url", key)
			continue
		}
		titles = append(titles, title)
		urlByTitle[strings.ReplaceAll(title, "_", " ")] = key
		urlByTitle[title] = key
	}
	if len(titles) == 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Set("action", "query")
	query.Set("prop", "extracts")
	query.Set("exintro", "true")
	query.Set("explaintext", "true")
	query.Set("titles", strings.Join(titles, "|"))
	query.Set("format", "json")
	query.Set("origin", "*")
	requestURL := f.apiURL + "?" + query.Encode()

	decoded, err := util.RetryWithContext(ctx, maxFetchRetries, func(ctx context.Context) (*extractsResponse, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", f.userAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to query extracts: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("extracts query returned status %d", resp.StatusCode)
		}

		var parsed extractsResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return nil, fmt.Errorf("failed to decode extracts response: %w", err)
		}
		return &parsed, nil
	})
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(keys))
	for _, page := range decoded.Query.Pages {
		key, ok := urlByTitle[page.Title]
		if !ok {
			key, ok = urlByTitle[strings.ReplaceAll(page.Title, " ", "_")]
		}
		if !ok {
			logger.Debug("[Wiki] Response title matches no requested page", "title", page.Title)
			continue
		}
		if page.Extract != "" {
			result[key] = page.Extract
		}
	}

	for _, key := range keys {
		if _, ok := result[key]; ok {
			continue
		}
		text, err := f.fetchReadable(ctx, key)
		if err != nil {
			logger.Debug("[Wiki] Readability fallback failed", "url", key, "error", err)
			continue
		}
		if text != "" {
			result[key] = text
		}
	}

	return result, nil
}

// fetchReadable pulls the rendered page and extracts its main content.
func (f *Fetcher) fetchReadable(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page fetch returned status %d", resp.StatusCode)
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse url: %w", err)
	}
	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	var builder strings.Builder
	if err := article.RenderText(&builder); err != nil {
		return "", fmt.Errorf("failed to render article text: %w", err)
	}
	return builder.String(), nil
}
