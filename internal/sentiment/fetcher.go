package sentiment

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/oracle/internal/contracts"
	"github.com/wonny/oracle/pkg/httputil"
	"github.com/wonny/oracle/pkg/logger"
)

// Topic pairs a report category with its news search query.
type Topic struct {
	Category string
	Query    string
}

// DefaultTopics covers the Indian-market corpus: domestic equities, global
// macro, tech, and the MCX silver complex.
func DefaultTopics() []Topic {
	return []Topic{
		{Category: "finance", Query: "Indian stock market NSE BSE news today"},
		{Category: "international", Query: "global geopolitical events market impact"},
		{Category: "tech", Query: "AI tech industry trends"},
		{Category: "commodities", Query: "silver prices MCX news India"},
	}
}

// Fetcher retrieves news from the Google News RSS search endpoint.
type Fetcher struct {
	client         *httputil.Client
	baseURL        string
	topics         []Topic
	maxPerCategory int
	logger         *logger.Logger
}

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	Client         *httputil.Client
	BaseURL        string
	Topics         []Topic
	MaxPerCategory int
	Logger         *logger.Logger
}

// NewFetcher creates a Fetcher. Missing options fall back to the defaults.
func NewFetcher(opts FetcherOptions) *Fetcher {
	topics := opts.Topics
	if len(topics) == 0 {
		topics = DefaultTopics()
	}
	maxPer := opts.MaxPerCategory
	if maxPer <= 0 {
		maxPer = 10
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "https://news.google.com/rss/search"
	}
	return &Fetcher{
		client:         opts.Client,
		baseURL:        baseURL,
		topics:         topics,
		maxPerCategory: maxPer,
		logger:         opts.Logger,
	}
}

// Fetch retrieves all topics and returns the aggregated report. A failing
// category is recorded in report.Errors and the rest proceed; Fetch itself
// never fails.
func (f *Fetcher) Fetch(ctx context.Context) *contracts.NewsReport {
	report := &contracts.NewsReport{
		Timestamp:  time.Now(),
		Categories: make(map[string][]contracts.NewsItem, len(f.topics)),
	}

	for _, topic := range f.topics {
		items, err := f.fetchCategory(ctx, topic.Query)
		if err != nil {
			f.logger.WithField("category", topic.Category).WithError(err).
				Warn("News category fetch failed")
			if report.Errors == nil {
				report.Errors = make(map[string]string)
			}
			report.Errors[topic.Category] = err.Error()
			report.Categories[topic.Category] = nil
			continue
		}
		report.Categories[topic.Category] = items
	}

	return report
}

func (f *Fetcher) fetchCategory(ctx context.Context, query string) ([]contracts.NewsItem, error) {
	reqURL := fmt.Sprintf("%s?q=%s&hl=en-IN&gl=IN&ceid=IN:en", f.baseURL, url.QueryEscape(query))

	resp, err := f.client.Get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read news feed: %w", err)
	}

	return parseFeed(body, f.maxPerCategory)
}

type rssFeed struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
	Source      string `xml:"source"`
}

// parseFeed decodes an RSS payload into news items, capped at maxItems.
func parseFeed(data []byte, maxItems int) ([]contracts.NewsItem, error) {
	var feed rssFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse news feed: %w", err)
	}

	items := make([]contracts.NewsItem, 0, maxItems)
	for _, raw := range feed.Channel.Items {
		if len(items) >= maxItems {
			break
		}
		items = append(items, contracts.NewsItem{
			Title:   strings.TrimSpace(raw.Title),
			Snippet: extractSnippet(raw.Description),
			Source:  strings.TrimSpace(raw.Source),
			Date:    normalizeDate(raw.PubDate),
			URL:     strings.TrimSpace(raw.Link),
		})
	}
	return items, nil
}

// extractSnippet strips the HTML markup RSS descriptions carry.
func extractSnippet(description string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return strings.TrimSpace(description)
	}
	return strings.TrimSpace(doc.Text())
}

func normalizeDate(pubDate string) string {
	t, err := time.Parse(time.RFC1123Z, pubDate)
	if err != nil {
		if t, err = time.Parse(time.RFC1123, pubDate); err != nil {
			return strings.TrimSpace(pubDate)
		}
	}
	return t.Format(time.RFC3339)
}
