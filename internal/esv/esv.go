// Package esv fetches passage text from the ESV API. Responses carry
// inline verse markers and poetry indentation in the exact form the
// layout engine consumes.
package esv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/FocuswithJustin/VerseDeck/core/errors"
)

// DefaultEndpoint is the ESV passage text endpoint.
const DefaultEndpoint = "https://api.esv.org/v3/passage/text/"

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "versedeck/1.0"
)

// Client fetches passage text from the ESV API.
type Client struct {
	apiKey          string
	endpoint        string
	includeHeadings bool
	httpClient      *http.Client
	userAgent       string
}

// Config parameterizes a Client. APIKey is required; everything else
// defaults.
type Config struct {
	APIKey string
	// Endpoint overrides DefaultEndpoint, mainly for tests.
	Endpoint string
	// IncludeHeadings asks the API for section headings in the text.
	IncludeHeadings bool
	// HTTPClient overrides the default client with its 10 second timeout.
	HTTPClient *http.Client
	UserAgent  string
}

// NewClient creates an ESV API client.
func NewClient(cfg Config) *Client {
	c := &Client{
		apiKey:          cfg.APIKey,
		endpoint:        cfg.Endpoint,
		includeHeadings: cfg.IncludeHeadings,
		httpClient:      cfg.HTTPClient,
		userAgent:       cfg.UserAgent,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	return c
}

// Passage is the fetched text for one query.
type Passage struct {
	// Canonical is the reference as the API canonicalizes it, falling
	// back to the query when the response carries no metadata.
	Canonical string
	// Text is all returned passages joined with blank lines.
	Text string
	// Passages holds the individual passage texts as returned.
	Passages []string
}

// APIError is a non-OK response from the ESV API.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ESV API error: %s", e.Status)
}

// Unwrap classifies the response status for errors.Is checks. Server
// failures (5xx) unwrap to ErrInternal; other unlisted statuses unwrap
// to nothing.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.ErrUnauthorized
	case http.StatusTooManyRequests:
		return errors.ErrRateLimited
	}
	if e.StatusCode >= http.StatusInternalServerError {
		return errors.ErrInternal
	}
	return nil
}

// FetchPassage fetches the text for one scripture reference. Failures
// classify through the errors package sentinels: ErrUnauthorized for a
// rejected key, ErrRateLimited when the API throttles, ErrNotFound for
// an unrecognized reference, ErrTimeout and ErrNetwork for transport
// trouble, ErrInternal when the API itself fails.
func (c *Client) FetchPassage(ctx context.Context, reference string) (*Passage, error) {
	if c.apiKey == "" {
		return nil, &errors.ValidationError{Field: "api_key", Message: "an ESV API key is required"}
	}

	params := url.Values{}
	params.Set("q", reference)
	params.Set("include-passage-references", "false")
	params.Set("include-verse-numbers", "true")
	params.Set("include-first-verse-numbers", "true")
	params.Set("include-footnotes", "false")
	params.Set("include-headings", strconv.FormatBool(c.includeHeadings))
	params.Set("include-short-copyright", "false")
	params.Set("indent-poetry", "true")
	params.Set("indent-poetry-lines", "2")
	params.Set("line-length", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("fetching %s: %w: %v", reference, errors.ErrTimeout, err)
		}
		return nil, fmt.Errorf("fetching %s: %w: %v", reference, errors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var payload struct {
		Canonical   string   `json:"canonical"`
		Passages    []string `json:"passages"`
		PassageMeta []struct {
			Canonical string `json:"canonical"`
		} `json:"passage_meta"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &errors.ParseError{
			Format:  "JSON",
			Message: fmt.Sprintf("ESV API response: %v", err),
		}
	}

	// The API answers 200 with an empty passage list for references it
	// does not recognize.
	if len(payload.Passages) == 0 || strings.TrimSpace(payload.Passages[0]) == "" {
		return nil, &errors.NotFoundError{Resource: "passage", ID: reference}
	}

	canonical := reference
	if len(payload.PassageMeta) > 0 && payload.PassageMeta[0].Canonical != "" {
		canonical = payload.PassageMeta[0].Canonical
	} else if payload.Canonical != "" {
		canonical = payload.Canonical
	}

	return &Passage{
		Canonical: canonical,
		Text:      strings.Join(payload.Passages, "\n\n"),
		Passages:  payload.Passages,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
