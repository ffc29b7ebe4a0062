package publish

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"usd2rials/dates"
	"usd2rials/models"
)

var log = logrus.WithField("component", "publish")

// ReleasePublisher creates a GitHub release carrying the archive and both
// exports as assets, via the gh CLI. Best effort: a missing token, a
// missing gh binary or a failed command are all reported as an error for
// the caller to log, never to abort on.
type ReleasePublisher struct {
	Token       string
	StorePath   string
	FullPath    string
	MinimalPath string
}

// NewReleasePublisher returns a publisher uploading the three given files.
func NewReleasePublisher(token, storePath, fullPath, minimalPath string) *ReleasePublisher {
	return &ReleasePublisher{
		Token:       token,
		StorePath:   storePath,
		FullPath:    fullPath,
		MinimalPath: minimalPath,
	}
}

func (p *ReleasePublisher) Name() string { return "github-release" }

// Attempt creates the release for the given observation. Skips with an
// error when no token is configured.
func (p *ReleasePublisher) Attempt(latest models.Observation, rowCount int) error {
	if p.Token == "" {
		return fmt.Errorf("no access token configured")
	}

	tag := ReleaseTag(latest)
	title := fmt.Sprintf("قیمت دلار %s", latest.DatePersian)
	notes := fmt.Sprintf("تاریخ شمسی: %s\nتاریخ میلادی: %s\nتعداد رکوردها: %d",
		latest.DatePersian, latest.DateGregorian, rowCount)

	args := []string{
		"release", "create", tag,
		p.StorePath, p.FullPath, p.MinimalPath,
		"--title", title,
		"--notes", notes,
	}
	cmd := exec.Command("gh", args...)
	cmd.Env = append(os.Environ(), "GH_TOKEN="+p.Token)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("gh release create %s: %w: %s", tag, err, strings.TrimSpace(string(out)))
	}
	log.Infof("created release %s", tag)
	return nil
}

// ReleaseTag builds the unique release identifier: the standardized date
// reduced to YYYYMMDD, a hyphen, then the Jalali date with separators
// stripped and digits mapped to ASCII.
func ReleaseTag(latest models.Observation) string {
	gregorian := dates.ToISO(latest.DateGregorian)
	if gregorian == "" {
		gregorian = latest.DateGregorian
	}
	return digitsOnly(gregorian) + "-" + digitsOnly(dates.ASCIIDigits(latest.DatePersian))
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
