// Package schema has configs, models and global variables for all parts of sitepulse.
package schema

import "time"

// RawMeasurement holds every fact collected for a URL in one pass.
// It is immutable once fetched; scoring reads it and never writes it.
// Provider sections are nil when that provider returned nothing, in
// which case scoring falls back to documented defaults.
type RawMeasurement struct {
	URL             string           `json:"url"`
	FetchedAt       time.Time        `json:"fetchedAt"`
	Page            PageFacts        `json:"page"`
	Lighthouse      *LighthouseFacts `json:"lighthouse,omitempty"`
	Vitals          *VitalsFacts     `json:"vitals,omitempty"`
	Backlinks       *BacklinkFacts   `json:"backlinks,omitempty"`
	TrafficEstimate int              `json:"trafficEstimate,omitempty"` // Monthly visit estimate when the provider knows it
}

// PageFacts captures HTML structure facts extracted from the page itself.
type PageFacts struct {
	Title            string  `json:"title"`            // Document title text
	Description      string  `json:"description"`      // Meta description text
	H1Count          int     `json:"h1Count"`          // Number of H1 elements
	H2Count          int     `json:"h2Count"`          // Number of H2 elements
	H3Count          int     `json:"h3Count"`          // Number of H3 elements
	ImageCount       int     `json:"imageCount"`       // Total img elements
	ImagesWithAlt    int     `json:"imagesWithAlt"`    // Img elements carrying a non-empty alt
	InternalLinks    int     `json:"internalLinks"`    // Anchors resolving to the same host
	ExternalLinks    int     `json:"externalLinks"`    // Anchors resolving elsewhere
	HasHTTPS         bool    `json:"hasHttps"`         // Page served over TLS
	HasViewport      bool    `json:"hasViewport"`      // Responsive viewport meta present
	HasCanonical     bool    `json:"hasCanonical"`     // Canonical link present
	WordCount        int     `json:"wordCount"`        // Visible body words
	ReadabilityGrade float64 `json:"readabilityGrade"` // Estimated reading grade level
	KeywordDensity   float64 `json:"keywordDensity"`   // Primary keyword density in percent
	MediaScore       float64 `json:"mediaScore"`       // Media optimization score (0-100)
}

// LighthouseFacts carries audit scores from the external audit provider.
// All values are on a 0-100 scale.
type LighthouseFacts struct {
	Performance   float64 `json:"performance"`
	Accessibility float64 `json:"accessibility"`
	BestPractices float64 `json:"bestPractices"`
	SEO           float64 `json:"seo"`
}

// VitalsFacts carries field measurements of Core Web Vitals plus
// usability sub-scores from the vitals provider.
type VitalsFacts struct {
	LCPMs           float64 `json:"lcpMs"`           // Largest Contentful Paint in milliseconds
	FIDMs           float64 `json:"fidMs"`           // First Input Delay in milliseconds
	CLS             float64 `json:"cls"`             // Cumulative Layout Shift (unitless)
	MobileUsability float64 `json:"mobileUsability"` // Mobile usability score (0-100)
	Accessibility   float64 `json:"accessibility"`   // Measured accessibility score (0-100)
}

// BacklinkFacts carries link-graph metrics from the backlink provider.
type BacklinkFacts struct {
	DomainAuthority  float64 `json:"domainAuthority"`  // 0-100
	PageAuthority    float64 `json:"pageAuthority"`    // 0-100
	ReferringDomains int     `json:"referringDomains"` // Distinct linking domains
	SpamScore        float64 `json:"spamScore"`        // 0-100, higher is worse
}
