// Package services wires the pipeline together: fetch, novelty check,
// append, export regeneration, README rewrite and the two best-effort
// publications.
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"usd2rials/dates"
	"usd2rials/export"
	"usd2rials/models"
	"usd2rials/publish"
	"usd2rials/store"
)

var log = logrus.WithField("component", "updater")

// Fetcher produces the latest observation from the provider.
type Fetcher interface {
	FetchLatest() (models.Observation, error)
}

// Publisher is a best-effort external side effect. Attempt errors are
// logged and never abort the run; the log-and-continue policy lives in one
// place, the updater.
type Publisher interface {
	Name() string
	Attempt(latest models.Observation, rowCount int) error
}

// Updater runs one complete update pass. Release and Notifier may be nil
// when the corresponding collaborator is not configured at all.
type Updater struct {
	Fetcher    Fetcher
	Store      *store.Store
	Exporter   *export.Generator
	ReadmePath string
	Release    Publisher
	Notifier   Publisher
}

// Run executes the linear pipeline. It returns an error only for the two
// fatal conditions, fetch failure and archive append failure; everything
// downstream degrades to log messages.
func (u *Updater) Run() error {
	latest, err := u.Fetcher.FetchLatest()
	if err != nil {
		return fmt.Errorf("fetch latest observation: %w", err)
	}
	log.Infof("fetched observation %s (%s), price %d", latest.DatePersian, latest.DateGregorian, latest.PriceAvg)

	previous := u.Store.ReadLast()

	fresh := IsNew(latest, previous)
	if fresh {
		if err := u.Store.Append(latest); err != nil {
			return fmt.Errorf("append observation: %w", err)
		}
		log.Infof("appended new row for %s", latest.DatePersian)
	} else {
		log.Info("no new data, archive unchanged")
	}

	rowCount := u.regenerateExports()

	if content, err := publish.RenderReadme(latest, previous, rowCount); err != nil {
		log.Warnf("rendering readme: %v", err)
	} else if err := publish.WriteReadme(u.ReadmePath, content); err != nil {
		log.Warnf("writing readme: %v", err)
	}

	if fresh && u.Release != nil {
		u.attempt(u.Release, latest, rowCount)
	}
	if dates.MonthDay(latest.DatePersian) == 1 && u.Notifier != nil {
		u.attempt(u.Notifier, latest, rowCount)
	}
	return nil
}

// regenerateExports rebuilds both exports from the full archive and
// returns the reported row count, zero when regeneration failed.
func (u *Updater) regenerateExports() int {
	records, err := u.Store.ReadAll()
	if err != nil {
		log.Warnf("reading archive for exports: %v", err)
		return 0
	}
	rowCount, err := u.Exporter.Generate(records)
	if err != nil {
		log.Warnf("regenerating exports: %v", err)
		return 0
	}
	log.Infof("regenerated exports from %d rows", rowCount)
	return rowCount
}

func (u *Updater) attempt(p Publisher, latest models.Observation, rowCount int) {
	if err := p.Attempt(latest, rowCount); err != nil {
		log.Warnf("%s: %v", p.Name(), err)
		return
	}
	log.Infof("%s: done", p.Name())
}

// IsNew reports whether candidate represents a day not yet archived. The
// comparison is the exact date_pr string: a provider formatting change
// would make an already-archived day look new. Deliberately left as is.
func IsNew(candidate models.Observation, last *models.Record) bool {
	if last == nil {
		return true
	}
	return candidate.DatePersian != last.DatePersian
}
