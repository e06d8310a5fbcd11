// Package crawl provides archive crawl orchestration.
// It generates the date frontier, fetches index and article pages with
// retry and throttling, and aggregates the extracted records.
package crawl

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/fwojciec/newscrawl"
)

// DateFrontier generates the ordered list of date index pages to crawl.
// It is stateless; Generate is a pure function of its inputs.
type DateFrontier struct {
	BaseURL string
}

// Generate returns one target per calendar day from now minus windowYears
// up to and including now, in ascending order. Days are taken in now's
// location. A start date that falls on a missing Feb 29 is clamped to Feb 28.
func (f *DateFrontier) Generate(windowYears int, now time.Time) ([]newscrawl.DateTarget, error) {
	if windowYears < 0 {
		return nil, newscrawl.Errorf(newscrawl.EINVALID, "window years must be >= 0, got %d", windowYears)
	}

	end := civil.DateOf(now)
	start := yearsBefore(end, windowYears)

	targets := make([]newscrawl.DateTarget, 0, end.DaysSince(start)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		targets = append(targets, newscrawl.DateTarget{
			URL:  DateURL(f.BaseURL, d),
			Date: d,
		})
	}
	return targets, nil
}

// DateURL returns the archive index URL for a day: {base}/YYYY/MM/DD/.
func DateURL(baseURL string, d civil.Date) string {
	return fmt.Sprintf("%s/%04d/%02d/%02d/", strings.TrimRight(baseURL, "/"), d.Year, int(d.Month), d.Day)
}

func yearsBefore(d civil.Date, years int) civil.Date {
	start := civil.Date{Year: d.Year - years, Month: d.Month, Day: d.Day}
	for !start.IsValid() {
		start.Day--
	}
	return start
}
