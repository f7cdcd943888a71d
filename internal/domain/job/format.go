package job

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/honeycarbs/jobscout/internal/domain"
)

// SalaryInput carries whatever salary information a provider returned
type SalaryInput struct {
	Formatted string   // provider pre-formatted text, passed through as-is
	Min       *float64 // non-positive values count as absent
	Max       *float64
	Currency  string // ISO code, empty means USD
	Period    string // year, month, hour; anything else adds no suffix
}

// FormatSalary renders the single display string for a salary
func FormatSalary(in SalaryInput) string {
	if s := strings.TrimSpace(in.Formatted); s != "" {
		return s
	}

	minV, hasMin := positive(in.Min)
	maxV, hasMax := positive(in.Max)
	sym := CurrencySymbol(in.Currency)
	suffix := periodSuffix(in.Period)

	switch {
	case hasMin && hasMax:
		return fmt.Sprintf("%s%s - %s%s%s", sym, thousands(minV), sym, thousands(maxV), suffix)
	case hasMin:
		return fmt.Sprintf("%s%s+%s", sym, thousands(minV), suffix)
	case hasMax:
		return fmt.Sprintf("Up to %s%s%s", sym, thousands(maxV), suffix)
	default:
		return domain.SalaryNotSpecified
	}
}

// CurrencySymbol maps an ISO currency code to its display prefix
func CurrencySymbol(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "", "USD":
		return "$"
	case "GBP":
		return "£"
	case "EUR":
		return "€"
	case "CAD":
		return "CA$"
	case "AUD":
		return "A$"
	case "INR":
		return "₹"
	default:
		return strings.ToUpper(code) + " "
	}
}

func periodSuffix(period string) string {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "year", "yearly", "annual":
		return "/year"
	case "month", "monthly":
		return "/month"
	case "hour", "hourly":
		return "/hour"
	default:
		return ""
	}
}

func positive(v *float64) (float64, bool) {
	if v == nil || *v <= 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

func thousands(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%d", int64(math.Round(v)))
}

// SalaryBounds returns the bounds retained on the canonical record, or nil
// for bounds FormatSalary treats as absent
func SalaryBounds(in SalaryInput) (minV, maxV *float64) {
	if v, ok := positive(in.Min); ok {
		minV = &v
	}
	if v, ok := positive(in.Max); ok {
		maxV = &v
	}
	return minV, maxV
}

type postedKind int

const (
	postedNone postedKind = iota
	postedISO
	postedUnix
	postedLayout
	postedText
)

// PostedValue is the raw temporal value a provider supplied
type PostedValue struct {
	kind   postedKind
	value  string
	unix   int64
	layout string
}

// PostedISO wraps an ISO-8601 datetime string
func PostedISO(s string) PostedValue {
	if strings.TrimSpace(s) == "" {
		return PostedValue{}
	}
	return PostedValue{kind: postedISO, value: strings.TrimSpace(s)}
}

// PostedUnix wraps a unix-seconds timestamp; non-positive values are absent
func PostedUnix(sec int64) PostedValue {
	if sec <= 0 {
		return PostedValue{}
	}
	return PostedValue{kind: postedUnix, unix: sec, value: strconv.FormatInt(sec, 10)}
}

// PostedLayout wraps a date string in a provider specific time layout
func PostedLayout(s, layout string) PostedValue {
	if strings.TrimSpace(s) == "" {
		return PostedValue{}
	}
	return PostedValue{kind: postedLayout, value: strings.TrimSpace(s), layout: layout}
}

// PostedText wraps an already formatted display string
func PostedText(s string) PostedValue {
	if strings.TrimSpace(s) == "" {
		return PostedValue{}
	}
	return PostedValue{kind: postedText, value: strings.TrimSpace(s)}
}

// Raw returns the original value as text, empty when absent
func (p PostedValue) Raw() string {
	return p.value
}

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02",
}

// Time parses the value into an instant. Text values and parse failures report false.
func (p PostedValue) Time() (time.Time, bool) {
	switch p.kind {
	case postedUnix:
		return time.Unix(p.unix, 0).UTC(), true
	case postedISO:
		for _, layout := range isoLayouts {
			if ts, err := time.Parse(layout, p.value); err == nil {
				return ts.UTC(), true
			}
		}
	case postedLayout:
		if ts, err := time.Parse(p.layout, p.value); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatPostedDate renders a relative or absolute posting date relative to now
func FormatPostedDate(p PostedValue, now time.Time) string {
	if p.kind == postedText {
		return p.value
	}

	ts, ok := p.Time()
	if !ok {
		return domain.RecentlyPosted
	}

	diff := now.Sub(ts)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(float64(diff) / float64(24*time.Hour)))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	default:
		return ts.Format("1/2/2006")
	}
}
