// Package normalize turns raw registry text tokens into typed values. Every
// function here is fail-soft: a token that cannot be converted is reported and
// replaced by a sentinel (numbers) or returned unchanged (dates).
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"tenderbot/internal/components/assert"
	"tenderbot/internal/components/telemetry"
	"time"
)

const (
	report_amount   = "normalize.amount"
	report_decimal  = "normalize.decimal"
	report_date     = "normalize.date"
	report_datetime = "normalize.datetime"
)

const (
	// DateLayout is the default output layout of Date.
	DateLayout = "2006-01-02"
	// DateTimeLayout is the default output layout of DateTime.
	DateTimeLayout = "2006-01-02 15:04"

	sourceDateLayout     = "02.01.2006"
	sourceDateTimeLayout = "02.01.2006 в 15:04"
	// timeMarker separates the date from the time of day on registry pages.
	timeMarker = "в"
)

type Normalizer struct {
	tel telemetry.API
}

func New(tel telemetry.API) Normalizer {
	assert.NotNil(tel)
	return Normalizer{tel: tel}
}

var thousandsSeparators = strings.NewReplacer(
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	"\t", "",
	",", "",
)

var integerRegex = regexp.MustCompile(`^-?\d+$`)

// Amount parses a registry price token. The registry prints prices with a
// decimal comma ("1 234,56"), once separators are dropped the remaining digits
// are the amount in kopecks, so "123456" is 1234.56. Anything that is not an
// integer after that is NaN().
func (n Normalizer) Amount(text string) Amount {
	digits := thousandsSeparators.Replace(strings.TrimSpace(text))
	if !integerRegex.MatchString(digits) {
		n.tel.ReportWarning(report_amount, fmt.Errorf("cannot convert '%s' to numeric", text), text)
		return NaN()
	}
	minor, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		n.tel.ReportWarning(report_amount, fmt.Errorf("cannot convert '%s' to numeric: %w", text, err), text)
		return NaN()
	}
	return FromMinor(minor)
}

var spaceRemover = strings.NewReplacer(
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	"\t", "",
)

// Decimal parses a plain decimal number where either a comma or a point may be
// the decimal separator ("0.05", "200", "50 000,00"). When both appear, the
// last one is the decimal separator and the other is a thousands separator. A
// trailing percent sign divides the value by 100.
func (n Normalizer) Decimal(text string) (float64, bool) {
	token := spaceRemover.Replace(strings.TrimSpace(text))

	percent := strings.HasSuffix(token, "%")
	token = strings.TrimSuffix(token, "%")

	lastComma := strings.LastIndex(token, ",")
	lastPoint := strings.LastIndex(token, ".")
	switch {
	case lastComma >= 0 && lastPoint >= 0 && lastComma > lastPoint:
		token = strings.ReplaceAll(token, ".", "")
		token = strings.Replace(token, ",", ".", 1)
	case lastComma >= 0 && lastPoint >= 0:
		token = strings.ReplaceAll(token, ",", "")
	case lastComma >= 0:
		token = strings.Replace(token, ",", ".", 1)
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		n.tel.ReportWarning(report_decimal, fmt.Errorf("cannot convert '%s' to numeric", text), text)
		return math.NaN(), false
	}
	if percent {
		value /= 100
	}
	return value, true
}

// Date parses a DD.MM.YYYY token into `layout` (DateLayout when empty). On
// failure the input text is returned unchanged.
func (n Normalizer) Date(text, layout string) string {
	return n.date(text, strings.TrimSpace(text), layout)
}

func (n Normalizer) date(text, token, layout string) string {
	if layout == "" {
		layout = DateLayout
	}
	parsed, err := time.Parse(sourceDateLayout, token)
	if err != nil {
		n.tel.ReportWarning(report_date, fmt.Errorf("cannot format '%s' to %s: %w", text, layout, err), text)
		return text
	}
	return parsed.Format(layout)
}

var trailingLabel = regexp.MustCompile(`\s*\(.*\)\s*$`)

// DateTime parses "DD.MM.YYYY в HH:MM" into `layout` (DateTimeLayout when
// empty). A trailing parenthesised timezone label is ignored. Tokens without
// the time marker are handed to Date with its default layout. On failure the
// input text is returned unchanged.
func (n Normalizer) DateTime(text, layout string) string {
	token := trailingLabel.ReplaceAllString(strings.TrimSpace(text), "")
	token = strings.Join(strings.Fields(token), " ")
	if !strings.Contains(token, timeMarker) {
		return n.date(text, token, DateLayout)
	}
	if layout == "" {
		layout = DateTimeLayout
	}

	parsed, err := time.Parse(sourceDateTimeLayout, token)
	if err != nil {
		n.tel.ReportWarning(report_datetime, fmt.Errorf("cannot format '%s' to %s: %w", text, layout, err), text)
		return text
	}
	return parsed.Format(layout)
}

// TimezoneLabel extracts the text inside a trailing parenthesised label such as
// "(МСК+4)", returning "" when there is none.
func TimezoneLabel(text string) string {
	match := trailingLabel.FindString(strings.TrimSpace(text))
	if match == "" {
		return ""
	}
	match = strings.TrimSpace(match)
	match = strings.TrimPrefix(match, "(")
	match = strings.TrimSuffix(match, ")")
	return strings.TrimSpace(match)
}
