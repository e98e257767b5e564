package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"explainer/internal/config"

	"github.com/PuerkitoBio/goquery"
)

// NotFoundMessage is shown in place of a summary when the topic has no page.
const NotFoundMessage = "Topic not found on Wikipedia"

// DefaultUserAgent identifies the client to the MediaWiki API.
const DefaultUserAgent = "EducationalExplainer/1.0 (https://github.com/explainer; explainer@example.com)"

// wikiTimeout is used when the configured timeout is unset.
const wikiTimeout = 15 * time.Second

// ErrTopicNotFound is returned when the knowledge source has no page for a topic.
var ErrTopicNotFound = errors.New("topic not found")

// WikipediaClient fetches intro summaries from the MediaWiki action API.
type WikipediaClient struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
}

// WikipediaOption configures a WikipediaClient.
type WikipediaOption func(*WikipediaClient)

// WithEndpoint overrides the api.php URL.
func WithEndpoint(endpoint string) WikipediaOption {
	return func(c *WikipediaClient) {
		c.endpoint = endpoint
	}
}

// WithWikiHTTPClient overrides the HTTP client.
func WithWikiHTTPClient(httpClient *http.Client) WikipediaOption {
	return func(c *WikipediaClient) {
		c.httpClient = httpClient
	}
}

// NewWikipediaClient creates a client for the configured language edition.
func NewWikipediaClient(cfg config.Wiki, opts ...WikipediaOption) *WikipediaClient {
	language := cfg.Language
	if language == "" {
		language = "en"
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	timeout := cfg.ParsedTimeout()
	if timeout <= 0 {
		timeout = wikiTimeout
	}

	c := &WikipediaClient{
		endpoint:   fmt.Sprintf("https://%s.wikipedia.org/w/api.php", language),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type extractsResponse struct {
	Query struct {
		Pages []struct {
			PageID  int    `json:"pageid"`
			Title   string `json:"title"`
			Missing bool   `json:"missing"`
			Invalid bool   `json:"invalid"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// Summary returns the plain-text intro section of the topic's page.
// A missing or invalid page yields ErrTopicNotFound.
func (c *WikipediaClient) Summary(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrTopicNotFound
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("redirects", "1")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("titles", topic)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for topic %q: %w", topic, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch topic %q: %w", topic, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch topic %q: status code %d", topic, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response for topic %q: %w", topic, err)
	}

	var payload extractsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode response for topic %q: %w", topic, err)
	}

	if len(payload.Query.Pages) == 0 {
		return "", ErrTopicNotFound
	}
	page := payload.Query.Pages[0]
	if page.Missing || page.Invalid || page.PageID <= 0 {
		return "", ErrTopicNotFound
	}

	summary, err := htmlToText(page.Extract)
	if err != nil {
		return "", fmt.Errorf("failed to parse extract for topic %q: %w", topic, err)
	}
	if summary == "" {
		return "", ErrTopicNotFound
	}
	return summary, nil
}

// htmlToText flattens an extract into paragraphs separated by blank lines.
func htmlToText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	var paragraphs []string
	doc.Find("p, li").Each(func(_ int, s *goquery.Selection) {
		if text := collapseSpaces(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		if text := collapseSpaces(doc.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
