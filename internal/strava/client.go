package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const BaseURL = "https://www.strava.com/api/v3"

const (
	// DefaultMaxPages bounds how far back a single fetch will page
	DefaultMaxPages = 8
	// DefaultPerPage is the maximum page size Strava allows
	DefaultPerPage = 100

	maxRetries     = 3
	maxBackoff     = 8 * time.Second
	baseBackoff    = 250 * time.Millisecond
	requestTimeout = 30 * time.Second
)

// TokenProvider supplies access tokens for API requests.
// ForceRefresh is called once when the API rejects a token with 401.
type TokenProvider interface {
	Token() (*oauth2.Token, error)
	ForceRefresh() (*oauth2.Token, error)
}

// Client is a Strava API client for activity summaries
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokens      TokenProvider
	rateLimiter *RateLimiter
}

// NewClient creates a new Strava API client
func NewClient(tokens TokenProvider) *Client {
	return &Client{
		baseURL:     BaseURL,
		httpClient:  &http.Client{Timeout: requestTimeout},
		tokens:      tokens,
		rateLimiter: NewRateLimiter(),
	}
}

// FetchActivities pages through /athlete/activities after the given time,
// deduplicates by activity ID, and keeps only activities for which keep
// returns true (Strava does not filter by sport server-side). Paging stops
// on a short page or when maxPages is exhausted. A page failure after the
// first successful page returns what was collected so far.
func (c *Client) FetchActivities(ctx context.Context, after time.Time, maxPages, perPage int, keep func(Activity) bool) ([]Activity, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	seen := make(map[int64]bool)
	var filtered []Activity

	for page := 1; page <= maxPages; page++ {
		body, status, err := c.requestData(ctx, c.activitiesURL(after, page, perPage))
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("fetching page %d: %w", page, err)
			}
			break
		}
		if status < 200 || status >= 300 {
			if page == 1 && len(filtered) == 0 {
				return nil, &StatusError{Code: status}
			}
			break
		}

		pageActivities := decodeActivities(body)
		for _, a := range pageActivities {
			if seen[a.ID] {
				continue
			}
			if keep != nil && !keep(a) {
				continue
			}
			seen[a.ID] = true
			filtered = append(filtered, a)
		}

		if len(pageActivities) < perPage {
			break
		}
	}

	return filtered, nil
}

// RateLimitStatus returns the remaining request budget
func (c *Client) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return c.rateLimiter.Status()
}

func (c *Client) activitiesURL(after time.Time, page, perPage int) string {
	params := url.Values{}
	params.Set("after", strconv.FormatInt(after.Unix(), 10))
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	return c.baseURL + "/athlete/activities?" + params.Encode()
}

// requestData performs one API request with bounded retries. Transient
// statuses (408, 429, 5xx) and transport errors back off exponentially,
// capped at 8s and honoring a Retry-After header when present. A 401
// forces a single token refresh before retrying.
func (c *Client) requestData(ctx context.Context, reqURL string) ([]byte, int, error) {
	tok, err := c.tokens.Token()
	if err != nil {
		return nil, 0, err
	}
	accessToken := tok.AccessToken
	refreshed := false

	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, 0, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, 0, err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt < maxRetries {
				if serr := sleep(ctx, backoff(attempt)); serr != nil {
					return nil, 0, serr
				}
				continue
			}
			return nil, 0, err
		}

		c.rateLimiter.UpdateFromHeaders(resp.Header)
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, readErr
		}

		if resp.StatusCode == http.StatusUnauthorized && !refreshed {
			fresh, err := c.tokens.ForceRefresh()
			if err != nil {
				return nil, resp.StatusCode, fmt.Errorf("refreshing token after 401: %w", err)
			}
			accessToken = fresh.AccessToken
			refreshed = true
			continue
		}

		if isRetriable(resp.StatusCode) && attempt < maxRetries {
			if serr := sleep(ctx, retryDelay(attempt, resp.Header.Get("Retry-After"))); serr != nil {
				return nil, resp.StatusCode, serr
			}
			continue
		}

		return body, resp.StatusCode, nil
	}
}

func isRetriable(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		(status >= 500 && status <= 599)
}

func backoff(attempt int) time.Duration {
	d := baseBackoff << uint(attempt)
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func retryDelay(attempt int, retryAfter string) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.ParseFloat(retryAfter, 64); err == nil && secs >= 0 {
			d := time.Duration(secs * float64(time.Second))
			if d > maxBackoff {
				return maxBackoff
			}
			return d
		}
	}
	return backoff(attempt)
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// decodeActivities decodes a page of activities. If the page as a whole
// fails to decode, individual records are decoded one by one and the
// malformed ones skipped, so a single bad record cannot sink a page.
func decodeActivities(body []byte) []Activity {
	var activities []Activity
	if err := json.Unmarshal(body, &activities); err == nil {
		return activities
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	result := make([]Activity, 0, len(raw))
	for _, item := range raw {
		var a Activity
		if err := json.Unmarshal(item, &a); err == nil {
			result = append(result, a)
		}
	}
	return result
}
