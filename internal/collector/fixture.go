package collector

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/sitepulse/sitepulse/schema"
)

// fixtureFetchTime keeps fixture measurements byte-identical across runs.
var fixtureFetchTime = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// FixtureCollector produces deterministic measurements derived from the URL
// alone. It stands in for the live provider in tests, benchmarks and demos:
// the same URL always yields the same facts, and every provider section is
// populated.
type FixtureCollector struct{}

// NewFixtureCollector builds a fixture provider.
func NewFixtureCollector() *FixtureCollector {
	return &FixtureCollector{}
}

// FetchMeasurement synthesizes a full measurement for the URL. It never
// blocks but still honors an already-cancelled ctx.
func (c *FixtureCollector) FetchMeasurement(ctx context.Context, pageURL string) (*schema.RawMeasurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := fnv.New32a()
	seed.Write([]byte(pageURL))
	h := seed.Sum32()

	// Spread the hash across plausible ranges so different URLs exercise
	// different scoring branches.
	pick := func(span uint32) float64 { h = h*1664525 + 1013904223; return float64(h % span) }

	page := schema.PageFacts{
		Title:            fixtureText(55),
		Description:      fixtureText(140),
		H1Count:          1,
		H2Count:          int(pick(5)),
		H3Count:          int(pick(6)),
		ImageCount:       int(pick(12)) + 1,
		InternalLinks:    int(pick(20)),
		ExternalLinks:    int(pick(10)),
		HasHTTPS:         pick(10) > 1,
		HasViewport:      pick(10) > 2,
		HasCanonical:     pick(10) > 3,
		WordCount:        200 + int(pick(1800)),
		ReadabilityGrade: 6 + pick(12),
		KeywordDensity:   0.2 + pick(40)/10,
		MediaScore:       40 + pick(60),
	}
	page.ImagesWithAlt = int(pick(uint32(page.ImageCount + 1)))

	return &schema.RawMeasurement{
		URL:       pageURL,
		FetchedAt: fixtureFetchTime,
		Page:      page,
		Lighthouse: &schema.LighthouseFacts{
			Performance:   30 + pick(70),
			Accessibility: 40 + pick(60),
			BestPractices: 40 + pick(60),
			SEO:           40 + pick(60),
		},
		Vitals: &schema.VitalsFacts{
			LCPMs:           1500 + pick(4000),
			FIDMs:           40 + pick(400),
			CLS:             pick(40) / 100,
			MobileUsability: 40 + pick(60),
			Accessibility:   40 + pick(60),
		},
		Backlinks: &schema.BacklinkFacts{
			DomainAuthority:  10 + pick(80),
			PageAuthority:    10 + pick(80),
			ReferringDomains: int(pick(800)),
			SpamScore:        pick(50),
		},
		TrafficEstimate: 500 + int(pick(50000)),
	}, nil
}

// fixtureText returns a synthetic string of exactly n characters.
func fixtureText(n int) string {
	const filler = "sitepulse sample page content for deterministic measurement fixtures "
	out := make([]byte, n)
	for i := range out {
		out[i] = filler[i%len(filler)]
	}
	return string(out)
}
