package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"so101builder/internal/logger"
)

type SearchResult struct {
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	URL       string    `json:"url"`
	Seller    *string   `json:"seller"`
	Shipping  *string   `json:"shipping"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Provider is one web price-search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

var vendorDomains = map[string]string{
	"aliexpress": "aliexpress.com",
	"amazon":     "amazon.com",
	"waveshare":  "waveshare.com",
	"robotshop":  "robotshop.com",
}

var searchDomains = []string{"aliexpress.com", "amazon.com", "waveshare.com", "robotshop.com"}

// BuildQuery forms the search query for a component, restricted to the
// preferred vendor's site when that vendor is known.
func BuildQuery(componentName, vendorPreference string) string {
	query := componentName + " buy price"
	if domain, ok := vendorDomains[strings.ToLower(vendorPreference)]; ok {
		query += " site:" + domain
	}
	return query
}

// --------------------------------------------------
// Price extraction
// --------------------------------------------------

var contentPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$(\d+(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)USD\s*(\d+(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d{2})?)\s*(?:USD|dollars?)`),
}

var priceStringPattern = regexp.MustCompile(`\$?([\d,]+(?:\.\d{2})?)`)

// extractPrice returns the first price mentioned in free text.
func extractPrice(text string) (float64, bool) {
	for _, re := range contentPricePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// parsePriceString reads a listing price such as "$1,299.99".
func parsePriceString(s string) (float64, bool) {
	m := priceStringPattern.FindStringSubmatch(strings.ReplaceAll(s, ",", ""))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func sellerFromURL(u string) *string {
	lower := strings.ToLower(u)
	for _, s := range []struct{ key, name string }{
		{"aliexpress", "AliExpress"},
		{"amazon", "Amazon"},
		{"waveshare", "Waveshare"},
		{"robotshop", "RobotShop"},
	} {
		if strings.Contains(lower, s.key) {
			name := s.name
			return &name
		}
	}
	return nil
}

// --------------------------------------------------
// Tavily
// --------------------------------------------------

type TavilyClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewTavilyClient(apiKey string, timeout time.Duration) *TavilyClient {
	return &TavilyClient{
		apiKey:  apiKey,
		baseURL: "https://api.tavily.com",
		http:    &http.Client{Timeout: timeout},
	}
}

func (t *TavilyClient) Name() string { return "tavily" }

func (t *TavilyClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	payload := map[string]any{
		"api_key":         t.apiKey,
		"query":           query,
		"search_depth":    "basic",
		"include_domains": searchDomains,
		"max_results":     5,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var data struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := doJSON(t.http, req, &data); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var out []SearchResult
	for _, item := range data.Results {
		price, ok := extractPrice(item.Content)
		if !ok {
			continue
		}
		title := item.Title
		if title == "" {
			title = "Unknown"
		}
		out = append(out, SearchResult{
			Source:    "tavily",
			Title:     title,
			Price:     price,
			Currency:  defaultCurrency,
			URL:       item.URL,
			Seller:    sellerFromURL(item.URL),
			FetchedAt: now,
		})
	}
	return out, nil
}

// --------------------------------------------------
// SerpAPI
// --------------------------------------------------

type SerpAPIClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewSerpAPIClient(apiKey string, timeout time.Duration) *SerpAPIClient {
	return &SerpAPIClient{
		apiKey:  apiKey,
		baseURL: "https://serpapi.com",
		http:    &http.Client{Timeout: timeout},
	}
}

func (s *SerpAPIClient) Name() string { return "serpapi" }

func (s *SerpAPIClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("api_key", s.apiKey)
	params.Set("engine", "google_shopping")
	params.Set("q", query)
	params.Set("num", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var data struct {
		ShoppingResults []struct {
			Title    string  `json:"title"`
			Price    string  `json:"price"`
			Link     string  `json:"link"`
			Source   *string `json:"source"`
			Delivery *string `json:"delivery"`
		} `json:"shopping_results"`
	}
	if err := doJSON(s.http, req, &data); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var out []SearchResult
	for _, item := range data.ShoppingResults {
		price, ok := parsePriceString(item.Price)
		if !ok {
			continue
		}
		title := item.Title
		if title == "" {
			title = "Unknown"
		}
		out = append(out, SearchResult{
			Source:    "serpapi",
			Title:     title,
			Price:     price,
			Currency:  defaultCurrency,
			URL:       item.Link,
			Seller:    item.Source,
			Shipping:  item.Delivery,
			FetchedAt: now,
		})
	}
	return out, nil
}

// statusError is returned for non-2xx replies. 5xx and 429 are worth retrying.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("search api error: status %d: %s", e.code, e.body)
}

func doJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := string(raw)
		if len(body) > 200 {
			body = body[:200]
		}
		return &statusError{code: resp.StatusCode, body: body}
	}
	return json.Unmarshal(raw, out)
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return false
	}
	// transport failures and timeouts
	return true
}

// --------------------------------------------------
// Searcher
// --------------------------------------------------

// SearchOutcome is always returned, never an error. Message explains an
// empty or degraded result.
type SearchOutcome struct {
	Results []SearchResult `json:"results"`
	Message *string        `json:"message,omitempty"`
}

// Searcher tries each provider in order until one yields results. Every call
// is bounded by timeout and retried on transient failures.
type Searcher struct {
	providers []Provider
	cache     Cache
	cacheTTL  time.Duration
	timeout   time.Duration
	retries   int
	backoff   time.Duration
	log       *logger.Logger
}

type SearcherOptions struct {
	Timeout  time.Duration
	Retries  int
	CacheTTL time.Duration
	Cache    Cache
}

func NewSearcher(providers []Provider, opts SearcherOptions, log *logger.Logger) *Searcher {
	cache := opts.Cache
	if cache == nil {
		cache = NopCache{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	return &Searcher{
		providers: providers,
		cache:     cache,
		cacheTTL:  opts.CacheTTL,
		timeout:   opts.Timeout,
		retries:   opts.Retries,
		backoff:   500 * time.Millisecond,
		log:       log,
	}
}

func (s *Searcher) Search(ctx context.Context, query string) SearchOutcome {
	if len(s.providers) == 0 {
		return outcome(nil, "Price search is not configured")
	}

	if cached, ok := s.cache.Get(ctx, query); ok {
		return SearchOutcome{Results: cached}
	}

	var failed []string
	for _, p := range s.providers {
		results, err := s.searchWithRetry(ctx, p, query)
		if err != nil {
			s.log.Warn("price search provider failed", "provider", p.Name(), "error", err)
			failed = append(failed, p.Name())
			continue
		}
		if len(results) > 0 {
			s.cache.Set(ctx, query, results, s.cacheTTL)
			return SearchOutcome{Results: results}
		}
	}

	if len(failed) > 0 {
		return outcome(nil, "Price search unavailable: "+strings.Join(failed, ", ")+" failed")
	}
	return outcome(nil, "No prices found")
}

func (s *Searcher) searchWithRetry(ctx context.Context, p Provider, query string) ([]SearchResult, error) {
	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.backoff * time.Duration(attempt)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		results, err := p.Search(callCtx, query)
		cancel()
		if err == nil {
			return results, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func outcome(results []SearchResult, msg string) SearchOutcome {
	if results == nil {
		results = []SearchResult{}
	}
	return SearchOutcome{Results: results, Message: &msg}
}
