// Package collector gathers raw per-URL measurements for the pipeline.
package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

const defaultUserAgent = "SitePulse/1.0"

// LiveCollector fetches a page over HTTP and parses its markup into
// measurement facts. Lab, field and backlink providers are external services;
// when none is configured their sections stay nil and scoring substitutes its
// documented defaults.
type LiveCollector struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewLiveCollector builds a collector with connection pooling and a polite
// request rate toward the measured origin.
func NewLiveCollector(timeout time.Duration) *LiveCollector {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &LiveCollector{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}
}

// FetchMeasurement fetches and parses the URL within the ctx deadline.
// Deadline hits wrap ErrProviderTimeout so callers can tell a slow provider
// from a broken one.
func (c *LiveCollector) FetchMeasurement(ctx context.Context, pageURL string) (*schema.RawMeasurement, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, wrapFetchErr(pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contract.ErrValidation, pageURL, err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, wrapFetchErr(pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %s returned status %d", contract.ErrDataUnavailable, pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	return &schema.RawMeasurement{
		URL:       pageURL,
		FetchedAt: time.Now().UTC(),
		Page:      parsePageFacts(doc, pageURL),
	}, nil
}

// wrapFetchErr converts deadline failures into the provider-timeout class.
func wrapFetchErr(pageURL string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: fetching %s: %v", contract.ErrProviderTimeout, pageURL, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: fetching %s: %v", contract.ErrProviderTimeout, pageURL, err)
	}
	return fmt.Errorf("fetching %s: %w", pageURL, err)
}

// parsePageFacts extracts the on-page facts from a parsed document.
func parsePageFacts(doc *goquery.Document, pageURL string) schema.PageFacts {
	facts := schema.PageFacts{
		Title:    strings.TrimSpace(doc.Find("title").First().Text()),
		H1Count:  doc.Find("h1").Length(),
		H2Count:  doc.Find("h2").Length(),
		H3Count:  doc.Find("h3").Length(),
		HasHTTPS: strings.HasPrefix(pageURL, "https://"),
	}

	facts.Description, _ = doc.Find("meta[name='description']").Attr("content")
	facts.Description = strings.TrimSpace(facts.Description)

	doc.Find("meta[name='viewport']").Each(func(_ int, s *goquery.Selection) {
		content, exists := s.Attr("content")
		if exists && strings.Contains(strings.ToLower(content), "width=device-width") {
			facts.HasViewport = true
		}
	})
	facts.HasCanonical = doc.Find("link[rel='canonical']").Length() > 0

	images := doc.Find("img")
	facts.ImageCount = images.Length()
	images.Each(func(_ int, s *goquery.Selection) {
		if alt, exists := s.Attr("alt"); exists && strings.TrimSpace(alt) != "" {
			facts.ImagesWithAlt++
		}
	})

	facts.InternalLinks, facts.ExternalLinks = countLinks(doc, pageURL)

	text := doc.Find("body").Text()
	words := strings.Fields(text)
	facts.WordCount = len(words)
	facts.ReadabilityGrade = readabilityGrade(text, words)
	facts.KeywordDensity = keywordDensity(words)
	facts.MediaScore = mediaScore(facts.ImageCount, facts.ImagesWithAlt, doc)

	return facts
}

// countLinks categorizes unique hrefs as internal or external to the page
// host. Fragments and empty anchors are skipped.
func countLinks(doc *goquery.Document, pageURL string) (internal, external int) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return 0, 0
	}

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		href = strings.TrimSpace(href)
		if !exists || href == "" || href == "#" || strings.HasPrefix(href, "#") {
			return
		}
		if seen[href] {
			return
		}
		seen[href] = true

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		switch {
		case resolved.Host == base.Host:
			internal++
		case resolved.Scheme == "http" || resolved.Scheme == "https":
			external++
		}
	})
	return internal, external
}

// readabilityGrade approximates the grade level needed to read the text using
// the automated readability index over characters, words and sentences.
func readabilityGrade(text string, words []string) float64 {
	if len(words) == 0 {
		return 0
	}

	sentences := strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
	if sentences == 0 {
		sentences = 1
	}

	var chars int
	for _, word := range words {
		chars += len(word)
	}

	grade := 4.71*(float64(chars)/float64(len(words))) + 0.5*(float64(len(words))/float64(sentences)) - 21.43
	if grade < 1 {
		grade = 1
	}
	return grade
}

// keywordDensity estimates the density of the page's dominant keyword as a
// percent of all words. Short words and a few function words are excluded so
// the dominant term reflects topic focus.
func keywordDensity(words []string) float64 {
	if len(words) == 0 {
		return 0
	}

	skip := map[string]bool{
		"that": true, "with": true, "this": true, "from": true,
		"your": true, "have": true, "more": true, "will": true,
		"they": true, "their": true, "about": true, "when": true,
	}

	counts := make(map[string]int)
	for _, word := range words {
		normalized := strings.ToLower(strings.Trim(word, ".,!?;:\"'()[]"))
		if len(normalized) < 4 || skip[normalized] {
			continue
		}
		counts[normalized]++
	}

	var top int
	for _, count := range counts {
		if count > top {
			top = count
		}
	}
	return float64(top) / float64(len(words)) * 100
}

// mediaScore grades how well the page uses visual media.
func mediaScore(imageCount, imagesWithAlt int, doc *goquery.Document) float64 {
	if imageCount == 0 {
		return 30
	}

	score := 50.0
	richness := float64(imageCount) * 10
	if richness > 30 {
		richness = 30
	}
	score += richness
	score += 20 * float64(imagesWithAlt) / float64(imageCount)
	if doc.Find("video, iframe").Length() > 0 {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}
