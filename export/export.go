// Package export rebuilds the two machine-readable views of the archive:
// a pretty-printed full export and a compact minimal export. Both are
// regenerated from scratch on every run, never patched incrementally.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"usd2rials/dates"
	"usd2rials/models"
)

var log = logrus.WithField("component", "export")

// ISO dates are fixed-width, so this sentinel sorts after every real date.
const maxDateSentinel = "9999-99-99"

// FullEntry is one element of the full export: the archive row with the
// price as a native integer.
type FullEntry struct {
	DatePersian   string `json:"date_pr"`
	DateGregorian string `json:"date_gr"`
	Source        string `json:"source"`
	PriceAvg      int    `json:"price_avg"`
}

// MinimalEntry serializes as a two-element [iso_date, price] array.
type MinimalEntry struct {
	Date  string
	Price int
}

func (e MinimalEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Date, e.Price})
}

// Generator writes both export files from archive rows.
type Generator struct {
	FullPath    string
	MinimalPath string
}

// New returns a generator writing to the two given paths.
func New(fullPath, minimalPath string) *Generator {
	return &Generator{FullPath: fullPath, MinimalPath: minimalPath}
}

// Generate rebuilds both exports from records and returns the number of
// rows read from the archive. Rows whose price does not parse as an
// integer are dropped from both exports; rows whose Gregorian date has no
// ISO form are additionally dropped from the minimal export. The returned
// count is rows read, not rows exported.
func (g *Generator) Generate(records []models.Record) (int, error) {
	full := make([]FullEntry, 0, len(records))
	minimal := make([]MinimalEntry, 0, len(records))

	for _, rec := range records {
		price, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(rec.PriceAvg), ",", ""))
		if err != nil {
			log.Warnf("skipping row %s: unparsable price %q", rec.DatePersian, rec.PriceAvg)
			continue
		}
		full = append(full, FullEntry{
			DatePersian:   rec.DatePersian,
			DateGregorian: rec.DateGregorian,
			Source:        rec.Source,
			PriceAvg:      price,
		})
		if iso := dates.ToISO(rec.DateGregorian); iso != "" {
			minimal = append(minimal, MinimalEntry{Date: iso, Price: price})
		}
	}

	sort.SliceStable(full, func(i, j int) bool {
		return isoOrSentinel(full[i].DateGregorian) < isoOrSentinel(full[j].DateGregorian)
	})
	sort.SliceStable(minimal, func(i, j int) bool {
		return minimal[i].Date < minimal[j].Date
	})

	if err := writeJSON(g.FullPath, full, true); err != nil {
		return len(records), fmt.Errorf("write full export: %w", err)
	}
	if err := writeJSON(g.MinimalPath, minimal, false); err != nil {
		return len(records), fmt.Errorf("write minimal export: %w", err)
	}
	return len(records), nil
}

func isoOrSentinel(dateGregorian string) string {
	if iso := dates.ToISO(dateGregorian); iso != "" {
		return iso
	}
	return maxDateSentinel
}

// writeJSON serializes v without HTML escaping so Persian text survives
// verbatim. Indented output for the full export, compact for the minimal.
func writeJSON(path string, v any, indent bool) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	data := bytes.TrimRight(buf.Bytes(), "\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
