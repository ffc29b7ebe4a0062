// Package scraper extracts the most recent daily observation from the
// tgju.org price-history page. The page structure (table signature and
// column positions) is an unversioned external contract; when the site
// drifts, this is the only package that should need changes.
package scraper

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"usd2rials/dates"
	"usd2rials/models"
)

// ErrFetch covers transport errors and non-success HTTP statuses.
// ErrParse covers everything wrong with the document itself.
var (
	ErrFetch = errors.New("fetch price page")
	ErrParse = errors.New("parse price page")
)

// DefaultURL is the public price-history page for USD to IRR.
const DefaultURL = "https://www.tgju.org/profile/price_dollar_rl/history"

// The site serves a stripped page to obvious bots, hence the browser UA.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const historyTableSelector = "table.table.widgets-dataTable.table-hover.text-center.history-table"

// History table columns, 0-indexed. Index 0 is the closing price and 3-5
// are change columns; only these four are used.
const (
	colLow         = 1
	colHigh        = 2
	colGregorian   = 6
	colPersian     = 7
	minColumnCount = 8
)

var log = logrus.WithField("component", "scraper")

// Scraper fetches and parses the provider's history page.
type Scraper struct {
	URL    string
	Client *http.Client
}

// New creates a scraper for the given page URL with a bounded timeout.
func New(url string, timeout time.Duration) *Scraper {
	return &Scraper{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

// FetchLatest retrieves the history page and returns the first data row,
// which is the most recent trading day. The Gregorian date is normalized
// to M/D/YYYY; the Jalali date is passed through exactly as rendered.
func (s *Scraper) FetchLatest() (models.Observation, error) {
	req, err := http.NewRequest(http.MethodGet, s.URL, nil)
	if err != nil {
		return models.Observation{}, fmt.Errorf("%w: build request: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return models.Observation{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Observation{}, fmt.Errorf("%w: status %d from %s", ErrFetch, resp.StatusCode, s.URL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return models.Observation{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return s.parseLatest(doc)
}

func (s *Scraper) parseLatest(doc *goquery.Document) (models.Observation, error) {
	table := doc.Find(historyTableSelector).First()
	if table.Length() == 0 {
		return models.Observation{}, fmt.Errorf("%w: history table not found", ErrParse)
	}

	row := table.Find("tbody tr").First()
	if row.Length() == 0 {
		return models.Observation{}, fmt.Errorf("%w: history table has no data rows", ErrParse)
	}

	cells := row.Find("td")
	if cells.Length() < minColumnCount {
		return models.Observation{}, fmt.Errorf("%w: expected at least %d columns, got %d",
			ErrParse, minColumnCount, cells.Length())
	}

	low, err := parsePrice(cells.Eq(colLow).Text())
	if err != nil {
		return models.Observation{}, fmt.Errorf("%w: low price: %v", ErrParse, err)
	}
	high, err := parsePrice(cells.Eq(colHigh).Text())
	if err != nil {
		return models.Observation{}, fmt.Errorf("%w: high price: %v", ErrParse, err)
	}

	obs := models.Observation{
		DatePersian:   strings.TrimSpace(cells.Eq(colPersian).Text()),
		DateGregorian: dates.Normalize(strings.TrimSpace(cells.Eq(colGregorian).Text())),
		Source:        models.Source,
		PriceAvg:      (low + high) / 2,
	}
	log.Debugf("parsed observation: %s / %s avg=%d", obs.DatePersian, obs.DateGregorian, obs.PriceAvg)
	return obs, nil
}

func parsePrice(text string) (int, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("not a price: %q", text)
	}
	return n, nil
}
