package normalize

import (
	"math"
	"testing"
	"tenderbot/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

func TestAmount(t *testing.T) {
	rec := telemetry.NewRecorder()
	n := New(rec)

	table := []struct {
		input    string
		expected string
	}{
		{input: "123456", expected: "1234.56"},
		{input: "1 234 567,89", expected: "1234567.89"},
		{input: "1 234 567,89", expected: "1234567.89"},
		{input: "5,00", expected: "5.00"},
		{input: "0", expected: "0.00"},
		{input: "", expected: "NaN"},
		{input: "abc", expected: "NaN"},
		{input: "12.34", expected: "NaN"},
	}
	for _, row := range table {
		require.Equal(t, row.expected, n.Amount(row.input).String(), row.input)
	}

	require.Equal(t, 1234.56, n.Amount("123456").Float64())
	require.True(t, math.IsNaN(n.Amount("abc").Float64()))
	require.True(t, n.Amount("").IsNaN())

	warnings := rec.Find(telemetry.REPORT_WARNING, report_amount)
	require.NotEmpty(t, warnings)
	found := false
	for _, w := range warnings {
		for _, p := range w.Params {
			if p == "abc" {
				found = true
			}
		}
	}
	require.True(t, found, "the offending text should be logged")
}

func TestDecimal(t *testing.T) {
	n := New(telemetry.NewRecorder())

	table := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{input: "0.05", expected: 0.05, ok: true},
		{input: "200", expected: 200, ok: true},
		{input: "50 000,00", expected: 50000, ok: true},
		{input: "1.234.567,89", expected: 1234567.89, ok: true},
		{input: "1,234,567.89", expected: 1234567.89, ok: true},
		{input: "5 %", expected: 0.05, ok: true},
		{input: "", ok: false},
		{input: "не требуется", ok: false},
	}
	for _, row := range table {
		value, ok := n.Decimal(row.input)
		require.Equal(t, row.ok, ok, row.input)
		if ok {
			require.InDelta(t, row.expected, value, 1e-9, row.input)
		} else {
			require.True(t, math.IsNaN(value))
		}
	}
}

func TestDate(t *testing.T) {
	rec := telemetry.NewRecorder()
	n := New(rec)

	require.Equal(t, "2012-01-01", n.Date("01.01.2012", ""))
	require.Equal(t, "01/02/2012", n.Date(" 02.01.2012 ", "01/02/2006"))
	require.Equal(t, "not-a-date", n.Date("not-a-date", ""))
	require.Len(t, rec.Find(telemetry.REPORT_WARNING, report_date), 1)
}

func TestDateTime(t *testing.T) {
	rec := telemetry.NewRecorder()
	n := New(rec)

	table := []struct {
		input    string
		expected string
	}{
		{input: "15.03.2020 в 10:30", expected: "2020-03-15 10:30"},
		{input: "15.03.2020 в 10:30 (МСК+4)", expected: "2020-03-15 10:30"},
		{input: "15.03.2020", expected: "2020-03-15"},
		{input: "15.03.2020 (МСК+4)", expected: "2020-03-15"},
		{input: "15.03.2020 в полдень", expected: "15.03.2020 в полдень"},
		{input: "", expected: ""},
	}
	for _, row := range table {
		require.Equal(t, row.expected, n.DateTime(row.input, ""), row.input)
	}
	require.Len(t, rec.Find(telemetry.REPORT_WARNING, report_datetime), 1)
}

func TestTimezoneLabel(t *testing.T) {
	require.Equal(t, "МСК+4", TimezoneLabel("15.03.2020 в 10:30 (МСК+4)"))
	require.Equal(t, "МСК", TimezoneLabel("(МСК)"))
	require.Equal(t, "", TimezoneLabel("15.03.2020"))
}

func TestAmountArithmetic(t *testing.T) {
	price := FromMinor(100000)
	require.Equal(t, "50.00", price.Scale(0.05).String())
	require.True(t, NaN().Scale(0.05).IsNaN())
	require.True(t, price.Scale(math.NaN()).IsNaN())
	require.Equal(t, "-1.05", FromMinor(-105).String())
	require.True(t, FromFloat(50).Equal(FromMinor(5000)))
	require.True(t, NaN().Equal(NaN()))
	require.False(t, NaN().Equal(FromMinor(0)))

	var scanned Amount
	require.NoError(t, scanned.Scan("1234.56"))
	require.Equal(t, "1234.56", scanned.String())
	require.NoError(t, scanned.Scan(nil))
	require.True(t, scanned.IsNaN())
	require.NoError(t, scanned.Scan(int64(7)))
	require.Equal(t, "7.00", scanned.String())

	value, err := NaN().Value()
	require.NoError(t, err)
	require.Nil(t, value)
}
