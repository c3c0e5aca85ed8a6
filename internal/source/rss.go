// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/HelloWaord1/longivity/internal/httputil"
	"github.com/HelloWaord1/longivity/internal/textutil"
	"github.com/HelloWaord1/longivity/pkg/types"
)

const maxDescriptionLen = 1000

// Feed reads one RSS 2.0 or Atom feed.
type Feed struct {
	Client   *httputil.Client
	Pacer    *Pacer
	Config   types.FeedConfig
	MaxItems int
}

func (f *Feed) Name() string   { return "rss:" + textutil.Slugify(f.Config.Name) }
func (f *Feed) Family() string { return "rss" }

func (f *Feed) Fetch(ctx context.Context) ([]types.Document, error) {
	if err := f.Pacer.Wait(ctx); err != nil {
		return nil, err
	}
	body, err := f.Client.Get(ctx, f.Config.URL, map[string]string{
		"Accept": "application/rss+xml, application/atom+xml, application/xml, text/xml",
	})
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", f.Config.Name, err)
	}
	items, err := parseFeed(body)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", f.Config.Name, err)
	}

	max := f.MaxItems
	if max <= 0 {
		max = 50
	}
	source := f.Name()
	var docs []types.Document
	for _, it := range items {
		if len(docs) == max {
			break
		}
		if it.title == "" || it.link == "" {
			continue
		}
		doc := types.Document{
			ID:        textutil.Slugify(f.Config.Name + " " + it.title),
			Kind:      types.KindWeb,
			Title:     textutil.CleanText(it.title),
			Abstract:  textutil.Truncate(textutil.CleanText(it.description), maxDescriptionLen),
			URL:       it.link,
			Source:    source,
			Category:  f.Config.Category,
			Published: it.published,
		}
		for _, c := range it.categories {
			if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
				doc.Tags = append(doc.Tags, c)
			}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

type feedItem struct {
	title       string
	link        string
	description string
	categories  []string
	published   time.Time
}

// feedDoc decodes either an <rss> or an Atom <feed> root.
type feedDoc struct {
	Channel struct {
		Items []struct {
			Title       string   `xml:"title"`
			Link        string   `xml:"link"`
			GUID        string   `xml:"guid"`
			Description string   `xml:"description"`
			Content     string   `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
			PubDate     string   `xml:"pubDate"`
			Categories  []string `xml:"category"`
		} `xml:"item"`
	} `xml:"channel"`
	Entries []struct {
		Title string `xml:"title"`
		Links []struct {
			Href string `xml:"href,attr"`
			Rel  string `xml:"rel,attr"`
		} `xml:"link"`
		Summary    string `xml:"summary"`
		Content    string `xml:"content"`
		Published  string `xml:"published"`
		Updated    string `xml:"updated"`
		Categories []struct {
			Term string `xml:"term,attr"`
		} `xml:"category"`
	} `xml:"entry"`
}

func parseFeed(body []byte) ([]feedItem, error) {
	var doc feedDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	var items []feedItem
	for _, it := range doc.Channel.Items {
		link := strings.TrimSpace(it.Link)
		if link == "" && strings.HasPrefix(it.GUID, "http") {
			link = strings.TrimSpace(it.GUID)
		}
		desc := it.Description
		if desc == "" {
			desc = it.Content
		}
		items = append(items, feedItem{
			title:       strings.TrimSpace(it.Title),
			link:        link,
			description: desc,
			categories:  it.Categories,
			published:   parseFeedTime(it.PubDate),
		})
	}
	for _, e := range doc.Entries {
		var link string
		for _, l := range e.Links {
			if l.Rel == "" || l.Rel == "alternate" {
				link = l.Href
				break
			}
		}
		desc := e.Summary
		if desc == "" {
			desc = e.Content
		}
		published := e.Published
		if published == "" {
			published = e.Updated
		}
		item := feedItem{
			title:       strings.TrimSpace(e.Title),
			link:        strings.TrimSpace(link),
			description: desc,
			published:   parseFeedTime(published),
		}
		for _, c := range e.Categories {
			item.categories = append(item.categories, c.Term)
		}
		items = append(items, item)
	}
	return items, nil
}

var feedTimeLayouts = []string{time.RFC1123Z, time.RFC1123, time.RFC3339, "Mon, 2 Jan 2006 15:04:05 -0700"}

func parseFeedTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range feedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
