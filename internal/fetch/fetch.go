// Package fetch retrieves source text for explanations: topic summaries from
// Wikipedia and readable text from arbitrary web pages.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Page is a fetched web page reduced to its readable text.
type Page struct {
	URL       string
	Title     string
	HTML      string
	Text      string
	FetchedAt time.Time
}

// PageFetcher downloads web pages for the url explanation mode.
type PageFetcher struct {
	httpClient *http.Client
	userAgent  string
}

// NewPageFetcher creates a fetcher with the given request timeout.
func NewPageFetcher(timeout time.Duration, userAgent string) *PageFetcher {
	if timeout <= 0 {
		timeout = wikiTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &PageFetcher{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// ValidateURL accepts only absolute http(s) URLs.
func ValidateURL(rawURL string) (*url.URL, error) {
	parsedURL, err := url.ParseRequestURI(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL %q: scheme must be http or https", rawURL)
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid URL %q: missing host", rawURL)
	}
	return parsedURL, nil
}

// Fetch downloads the page and extracts its main text.
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	parsedURL, err := ValidateURL(rawURL)
	if err != nil {
		return Page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("failed to create request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("failed to fetch URL %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("failed to fetch URL %s: status code %d", rawURL, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return Page{}, fmt.Errorf("failed to read response body from %s: %w", rawURL, err)
	}

	page := Page{
		URL:       parsedURL.String(),
		HTML:      string(bodyBytes),
		FetchedAt: time.Now().UTC(),
	}
	if err := ParseContent(&page); err != nil {
		return Page{}, err
	}
	if page.Text == "" {
		return Page{}, fmt.Errorf("no readable text found at %s", rawURL)
	}
	return page, nil
}

// extractTitle tries to extract the title from HTML content.
func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("head title").First().Text()); title != "" {
		return title
	}

	// Fallback to OpenGraph title
	if ogTitle, _ := doc.Find("meta[property='og:title']").Attr("content"); strings.TrimSpace(ogTitle) != "" {
		return strings.TrimSpace(ogTitle)
	}

	return strings.TrimSpace(doc.Find("h1").First().Text())
}

var blankLinesRegex = regexp.MustCompile(`\n{3,}`)

// ParseContent extracts the main textual content from page.HTML and removes
// boilerplate. It fills page.Text and, when empty, page.Title.
func ParseContent(page *Page) error {
	if page.HTML == "" {
		return fmt.Errorf("page %s has no HTML to parse", page.URL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return fmt.Errorf("failed to parse HTML from %s: %w", page.URL, err)
	}

	if page.Title == "" {
		page.Title = extractTitle(doc)
	}

	// Remove common non-content elements
	doc.Find("script, style, nav, footer, header, aside, form, iframe, noscript, .sidebar, #sidebar, .ad, .advertisement, .popup, .modal, .cookie-banner").Remove()

	mainContentSelectors := []string{
		"article", "main", ".main-content", ".entry-content", ".post-content", ".post-body", ".article-body",
		"[role='main']",
		".content", "#content",
	}

	var blocks []string
	collect := func(s *goquery.Selection) {
		s.Find("p, h1, h2, h3, h4, h5, h6, li, blockquote, pre").Each(func(_ int, item *goquery.Selection) {
			if text := collapseSpaces(item.Text()); text != "" {
				blocks = append(blocks, text)
			}
		})
	}

	for _, selector := range mainContentSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			collect(s)
		})
		if len(blocks) > 0 {
			break
		}
	}

	// If no specific main content found, take the block elements of the body
	if len(blocks) == 0 {
		collect(doc.Find("body"))
	}

	text := blankLinesRegex.ReplaceAllString(strings.Join(blocks, "\n\n"), "\n\n")
	page.Text = strings.TrimSpace(text)

	if page.Title == "" && page.Text != "" {
		words := strings.Fields(page.Text)
		if len(words) > 10 {
			page.Title = strings.Join(words[:10], " ") + "..."
		} else {
			page.Title = strings.Join(words, " ")
		}
	}

	return nil
}
