// Package store maintains the append-only CSV archive of daily
// observations. The file is the source of truth: header row
// date_pr,date_gr,source,price_avg followed by one row per day, ordered by
// append time. Rows are never rewritten.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/sirupsen/logrus"

	"usd2rials/models"
)

var log = logrus.WithField("component", "store")

// Store reads and appends archive rows at a fixed path.
type Store struct {
	Path string
}

// New returns a store over the CSV file at path. The file may not exist
// yet; the first Append creates it together with the header.
func New(path string) *Store {
	return &Store{Path: path}
}

// Append writes one observation to the end of the archive, creating the
// file with a header row when it does not exist yet.
func (s *Store) Append(obs models.Observation) error {
	_, statErr := os.Stat(s.Path)
	existed := statErr == nil

	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", s.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	enc := csvutil.NewEncoder(w)
	enc.AutoHeader = !existed

	if err := enc.Encode(obs); err != nil {
		return fmt.Errorf("append to archive %s: %w", s.Path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush archive %s: %w", s.Path, err)
	}
	return nil
}

// ReadLast returns the most recently appended row (last in file order,
// which is not necessarily the latest calendar date), or nil when the
// archive is absent, empty or unreadable. Read problems are logged and
// treated as "no prior record".
func (s *Store) ReadLast() *models.Record {
	records, err := s.ReadAll()
	if err != nil {
		log.Warnf("reading archive for last entry: %v", err)
		return nil
	}
	if len(records) == 0 {
		return nil
	}
	return &records[len(records)-1]
}

// ReadAll returns every data row in file order. A missing file yields an
// empty slice and no error.
func (s *Store) ReadAll() ([]models.Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open archive %s: %w", s.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	dec, err := csvutil.NewDecoder(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read archive header %s: %w", s.Path, err)
	}

	var records []models.Record
	for {
		var rec models.Record
		if err := dec.Decode(&rec); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			// A short or overlong row; keep what decoded and move on.
			log.Warnf("skipping malformed archive row: %v", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Count returns the number of data rows, excluding the header. Absent or
// unreadable archives count as zero.
func (s *Store) Count() int {
	records, err := s.ReadAll()
	if err != nil {
		log.Warnf("counting archive rows: %v", err)
		return 0
	}
	return len(records)
}
