package models

// Source is the fixed identifier of the price provider.
const Source = "tgju"

// Observation is one parsed daily price, as produced by the scraper.
// DatePersian is kept verbatim as rendered by the site; DateGregorian is
// normalized to M/D/YYYY before the observation is built.
type Observation struct {
	DatePersian   string `csv:"date_pr" json:"date_pr"`
	DateGregorian string `csv:"date_gr" json:"date_gr"`
	Source        string `csv:"source" json:"source"`
	PriceAvg      int    `csv:"price_avg" json:"price_avg"`
}

// Record is a raw archive row as read back from the CSV file. The price
// stays a string here: legacy rows may carry thousands separators or
// unparsable values, and readers decide per use whether to skip them.
type Record struct {
	DatePersian   string `csv:"date_pr"`
	DateGregorian string `csv:"date_gr"`
	Source        string `csv:"source"`
	PriceAvg      string `csv:"price_avg"`
}
