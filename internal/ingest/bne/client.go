package bne

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"jobmatch-engine/internal/config"
)

const (
	// tokens are refreshed this long before the server says they expire
	tokenSlack       = 30 * time.Second
	defaultTokenLife = time.Hour
	maxErrorBody     = 512
)

var ErrUnauthorized = errors.New("bne: unauthorized")

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bne: %s: HTTP %d: %s", e.URL, e.Status, e.Body)
}

// Client talks to the BNE job-offerings API. It fetches an OAuth2
// client-credentials token on first use and paces every request through one
// limiter. A Client is safe for concurrent use.
type Client struct {
	TokenURL     string
	JobsURL      string
	ClientID     string
	ClientSecret string

	HTTP    *http.Client
	Limiter *rate.Limiter

	now func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewClient(cfg config.BNE, secret string) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Client{
		TokenURL:     cfg.TokenURL,
		JobsURL:      cfg.JobsURL,
		ClientID:     cfg.ClientID,
		ClientSecret: secret,
		HTTP:         &http.Client{Timeout: timeout},
		Limiter:      rate.NewLimiter(limit, 1),
		now:          time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a cached access token, fetching a new one when it is missing
// or about to expire.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.clock().Before(c.expires) {
		return c.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.ClientID, c.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("token: %w", err)
	}
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("token: decode: %w", err)
	}
	if strings.TrimSpace(tr.AccessToken) == "" {
		return "", errors.New("token: response carries no access_token")
	}

	life := defaultTokenLife
	if tr.ExpiresIn > 0 {
		life = time.Duration(tr.ExpiresIn) * time.Second
	}
	c.token = tr.AccessToken
	c.expires = c.clock().Add(life - tokenSlack)
	return c.token, nil
}

func (c *Client) dropToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// Page fetches one page of active offerings. A 401 drops the cached token
// and retries once with a fresh one.
func (c *Client) Page(ctx context.Context, limit, offset int) ([]Offering, error) {
	for attempt := 0; ; attempt++ {
		token, err := c.Token(ctx)
		if err != nil {
			return nil, err
		}
		body, err := c.get(ctx, token, limit, offset)
		if errors.Is(err, ErrUnauthorized) && attempt == 0 {
			c.dropToken()
			continue
		}
		if err != nil {
			return nil, err
		}
		return extractOfferings(body)
	}
}

func (c *Client) get(ctx context.Context, token string, limit, offset int) ([]byte, error) {
	u, err := url.Parse(c.JobsURL)
	if err != nil {
		return nil, fmt.Errorf("jobs url: %w", err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, req.URL.Redacted())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &StatusError{URL: req.URL.Redacted(), Status: resp.StatusCode, Body: snippet}
	}
	return body, nil
}

func (c *Client) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

var (
	listKeys  = []string{"data", "jobOfferings", "results", "items", "jobs", "offers", "job_offerings", "content"}
	jobFields = []string{"identifier", "title", "name", "@type", "jobPosting"}
)

// extractOfferings finds the offerings in a response body. The API has
// answered with a bare list, with the list under one of listKeys (possibly
// one level down), with a single offering, and with the list buried deeper.
func extractOfferings(body []byte) ([]Offering, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode offerings: %w", err)
	}

	var list []any
	switch v := doc.(type) {
	case []any:
		list = v
	case map[string]any:
		list = underKnownKey(v)
		if len(list) == 0 && looksLikeJob(v) {
			list = []any{v}
		}
		if len(list) == 0 {
			list = findJobList(v, 0)
		}
	}
	if len(list) == 0 {
		return nil, nil
	}

	raw, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	var out []Offering
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode offerings: %w", err)
	}
	return out, nil
}

func underKnownKey(m map[string]any) []any {
	for _, k := range listKeys {
		switch v := m[k].(type) {
		case []any:
			return v
		case map[string]any:
			for _, sub := range listKeys {
				if l, ok := v[sub].([]any); ok {
					return l
				}
			}
		}
	}
	return nil
}

func looksLikeJob(m map[string]any) bool {
	for _, f := range jobFields {
		if _, ok := m[f]; ok {
			return true
		}
	}
	return false
}

const maxSearchDepth = 8

func findJobList(v any, depth int) []any {
	if depth > maxSearchDepth {
		return nil
	}
	switch t := v.(type) {
	case []any:
		if len(t) > 0 {
			if m, ok := t[0].(map[string]any); ok && looksLikeJob(m) {
				return t
			}
		}
	case map[string]any:
		for _, child := range t {
			if l := findJobList(child, depth+1); l != nil {
				return l
			}
		}
	}
	return nil
}
