package publish

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"usd2rials/models"
)

// Direction indicators for the headline price.
const (
	arrowUp   = "↗️"
	arrowDown = "↘️"
	arrowFlat = "➡️"
)

// RenderReadme builds the Persian RTL README from the latest observation.
// previous may be nil (empty archive); then no arrow and no delta line are
// rendered. Returns an error when the previous row carries an unparsable
// price, in which case the README is left untouched by the caller.
func RenderReadme(latest models.Observation, previous *models.Record, rowCount int) (string, error) {
	change := 0
	arrow := ""
	if previous != nil {
		prevPrice, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(previous.PriceAvg), ",", ""))
		if err != nil {
			return "", fmt.Errorf("previous price %q: %w", previous.PriceAvg, err)
		}
		change = latest.PriceAvg - prevPrice
		switch {
		case change > 0:
			arrow = arrowUp
		case change < 0:
			arrow = arrowDown
		default:
			arrow = arrowFlat
		}
	}

	var b strings.Builder
	b.WriteString("# آرشیو قیمت دلار به ریال\n\n")
	b.WriteString("## 📊 آخرین اطلاعات\n\n")
	b.WriteString(fmt.Sprintf("**آخرین به‌روزرسانی:** %s | **قیمت ثبت شده:** %s ریال",
		latest.DatePersian, humanize.Comma(int64(latest.PriceAvg))))
	if arrow != "" {
		b.WriteString(" " + arrow)
	}
	b.WriteString("\n\n")

	if change != 0 {
		b.WriteString(fmt.Sprintf("**تغییر نسبت به روز قبل:** %s ریال\n\n", signedComma(change)))
	}

	b.WriteString(fmt.Sprintf("**تعداد رکوردهای ثبت‌شده:** %s\n\n", humanize.Comma(int64(rowCount))))
	b.WriteString(readmeBody)
	return b.String(), nil
}

// WriteReadme overwrites the README at path with content.
func WriteReadme(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write readme %s: %w", path, err)
	}
	return nil
}

func signedComma(n int) string {
	if n > 0 {
		return "+" + humanize.Comma(int64(n))
	}
	return humanize.Comma(int64(n))
}

// Static description and column-reference block; identical on every run.
const readmeBody = `---

## 🔍 درباره مخزن

این مخزن حاوی اطلاعات تاریخچه قیمت دلار آمریکا به ریال ایران است که به صورت خودکار و روزانه از سایت معتبر **tgju.org** جمع‌آوری می‌شود.
داده‌ها از تاریخ ۷ مهرماه ۱۳۶۰ تا به امروز هستند.

داده‌های اولیه این مخزن از سایت [مدرسه دقیقه](https://d-learn.ir/usd-price/) برداشته شده‌است و به صورت دوره‌ای این داده‌ در همین لینک بارگذاری می‌شود.

### 📋 توضیحات و فرایند:
- **به‌روزرسانی خودکار**: هر روز ساعت ۱۱:۰۰ صبح به وقت تهران
- **تاریخ دوگانه**: شامل تاریخ شمسی و میلادی
- **قیمت میانگین**: محاسبه شده از کمترین و بیشترین قیمت روز
- **نمایش تغییرات**: مقایسه با روز قبل همراه با نشانگر در مخزن

### 📊 ساختار داده‌ها:
| ستون | توضیح |
|------|-------|
| ` + "`date_pr`" + ` | تاریخ شمسی (فارسی) |
| ` + "`date_gr`" + ` | تاریخ میلادی (گریگورین) |
| ` + "`source`" + ` | منبع اطلاعات (tgju) |
| ` + "`price_avg`" + ` | میانگین قیمت روز (ریال) |

---
`
