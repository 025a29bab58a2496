// Package datasource fetches market headlines from RSS feeds for the
// optional headlines section of the analysis document.
package datasource

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/curvewatch/internal/config"
	"github.com/seenimoa/curvewatch/internal/logger"
	"github.com/seenimoa/curvewatch/pkg/models"
)

// FeedSource represents one configured RSS feed.
type FeedSource struct {
	Name string
	URL  string
}

// DefaultFeedSources lists the bond-market feeds used when the config
// does not name any.
var DefaultFeedSources = []FeedSource{
	{
		Name: "Federal Reserve",
		URL:  "https://www.federalreserve.gov/feeds/press_monetary.xml",
	},
	{
		Name: "CNBC Bonds",
		URL:  "https://www.cnbc.com/id/10000664/device/rss/rss.html",
	},
	{
		Name: "MarketWatch",
		URL:  "https://feeds.content.dowjones.io/public/rss/mw_topstories",
	},
}

// DefaultUserAgent is sent with feed requests. Some feed hosts reject
// the Go default.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Headlines fetches market headlines from configured RSS feeds.
type Headlines struct {
	feeds  []FeedSource
	parser *gofeed.Parser
	log    *logger.Entry
}

// NewHeadlines creates a headline source from the news configuration.
// Feeds fall back to DefaultFeedSources when none are configured.
func NewHeadlines(cfg config.NewsConfig, log *logger.Log) *Headlines {
	feeds := make([]FeedSource, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		feeds = append(feeds, FeedSource{Name: f.Name, URL: f.URL})
	}
	if len(feeds) == 0 {
		feeds = DefaultFeedSources
	}

	parser := gofeed.NewParser()
	parser.UserAgent = DefaultUserAgent

	if log == nil {
		log = logger.Default()
	}
	return &Headlines{
		feeds:  feeds,
		parser: parser,
		log:    log.WithComponent("datasource.headlines"),
	}
}

// Fetch returns recent headlines from all configured feeds, newest
// first, capped at limit. Feeds are fetched one at a time; a failed
// feed is skipped rather than failing the whole fetch.
func (h *Headlines) Fetch(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	var all []models.NewsArticle
	for _, src := range h.feeds {
		articles, err := h.fetchFeed(ctx, src)
		if err != nil {
			h.log.WithError(err).WithFields(logger.Fields{"feed": src.Name}).Warn("feed fetch failed")
			continue
		}
		all = append(all, articles...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no headlines retrieved from %d feeds", len(h.feeds))
	}

	sortArticlesByDate(all)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// fetchFeed parses one RSS feed and returns its articles.
func (h *Headlines) fetchFeed(ctx context.Context, src FeedSource) ([]models.NewsArticle, error) {
	feed, err := h.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", src.Name, err)
	}

	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := models.NewsArticle{
			Title:   strings.TrimSpace(item.Title),
			URL:     item.Link,
			Source:  src.Name,
			Summary: cleanHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, a)
	}

	h.log.WithFields(logger.Fields{"feed": src.Name, "items": len(articles)}).Debug("feed fetched")
	return articles, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// sortArticlesByDate sorts articles by published date (newest first).
// Simple insertion sort — fine for small slices.
func sortArticlesByDate(articles []models.NewsArticle) {
	for i := 1; i < len(articles); i++ {
		key := articles[i]
		j := i - 1
		for j >= 0 && articles[j].PublishedAt.Before(key.PublishedAt) {
			articles[j+1] = articles[j]
			j--
		}
		articles[j+1] = key
	}
}
