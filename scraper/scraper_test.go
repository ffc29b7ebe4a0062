package scraper

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const historyPage = `<html><body>
<table class="table widgets-dataTable table-hover text-center history-table">
<thead><tr><th>بازگشایی</th><th>کمترین</th><th>بیشترین</th><th>پایانی</th><th>تغییر</th><th>درصد</th><th>تاریخ میلادی</th><th>تاریخ شمسی</th></tr></thead>
<tbody>
<tr><td>584,200</td><td>584,000</td><td>585,000</td><td>584,600</td><td>500</td><td>0.09%</td><td>2024-09-22</td><td>۱۴۰۳/۰۷/۰۱</td></tr>
<tr><td>583,100</td><td>582,000</td><td>584,000</td><td>583,500</td><td>400</td><td>0.07%</td><td>2024-09-21</td><td>۱۴۰۳/۰۶/۳۱</td></tr>
</tbody>
</table>
</body></html>`

func servePage(t *testing.T, status int, body string) *Scraper {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second)
}

func TestFetchLatest(t *testing.T) {
	s := servePage(t, http.StatusOK, historyPage)

	obs, err := s.FetchLatest()
	require.NoError(t, err)

	assert.Equal(t, "۱۴۰۳/۰۷/۰۱", obs.DatePersian)
	assert.Equal(t, "9/22/2024", obs.DateGregorian)
	assert.Equal(t, "tgju", obs.Source)
	assert.Equal(t, 584500, obs.PriceAvg)
}

func TestFetchLatestSendsBrowserUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, historyPage)
	}))
	defer srv.Close()

	_, err := New(srv.URL, 5*time.Second).FetchLatest()
	require.NoError(t, err)
	assert.Contains(t, gotUA, "Mozilla/5.0")
}

func TestFetchLatestNonSuccessStatus(t *testing.T) {
	s := servePage(t, http.StatusForbidden, "blocked")

	_, err := s.FetchLatest()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetch))
}

func TestFetchLatestTransportError(t *testing.T) {
	s := New("http://127.0.0.1:1", 500*time.Millisecond)

	_, err := s.FetchLatest()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetch))
}

func TestFetchLatestMissingTable(t *testing.T) {
	s := servePage(t, http.StatusOK, `<html><body><table class="other"></table></body></html>`)

	_, err := s.FetchLatest()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestFetchLatestEmptyTable(t *testing.T) {
	page := `<table class="table widgets-dataTable table-hover text-center history-table"><tbody></tbody></table>`
	s := servePage(t, http.StatusOK, page)

	_, err := s.FetchLatest()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestFetchLatestTooFewColumns(t *testing.T) {
	page := `<table class="table widgets-dataTable table-hover text-center history-table">
<tbody><tr><td>1</td><td>2</td><td>3</td></tr></tbody></table>`
	s := servePage(t, http.StatusOK, page)

	_, err := s.FetchLatest()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestFetchLatestUnparsablePrice(t *testing.T) {
	page := `<table class="table widgets-dataTable table-hover text-center history-table">
<tbody><tr><td>x</td><td>n/a</td><td>585,000</td><td>x</td><td>x</td><td>x</td><td>2024-09-22</td><td>۱۴۰۳/۰۷/۰۱</td></tr></tbody></table>`
	s := servePage(t, http.StatusOK, page)

	_, err := s.FetchLatest()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}
