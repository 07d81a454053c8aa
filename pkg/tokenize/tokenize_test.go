package tokenize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedLexical() *Lexical {
	return &Lexical{Now: func() time.Time {
		return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	}}
}

func TestLexical(t *testing.T) {
	type want struct {
		year, month, day, hour, minute, second, micro Int
	}
	tests := []struct {
		in       string
		dayFirst bool
		want     want
	}{
		{"1762", true, want{year: Some(1762)}},
		{"March 1762", true, want{year: Some(1762), month: Some(3)}},
		{"2001-02", true, want{year: Some(2001), month: Some(2)}},
		{"2015.03.01", true, want{year: Some(2015), month: Some(3), day: Some(1)}},
		{"2016-06-03 10", true, want{year: Some(2016), month: Some(6), day: Some(3), hour: Some(10)}},
		{"22/07/2010", true, want{year: Some(2010), month: Some(7), day: Some(22)}},
		{"22/07/2010", false, want{year: Some(2010), month: Some(7), day: Some(22)}},
		{"05/07/2010", true, want{year: Some(2010), month: Some(7), day: Some(5)}},
		{"05/07/2010", false, want{year: Some(2010), month: Some(5), day: Some(7)}},
		{"20100706", true, want{year: Some(2010), month: Some(7), day: Some(6)}},
		{"4", true, want{day: Some(4)}},
		{"86", true, want{year: Some(1986)}},
		{"24", true, want{day: Some(24)}},
		{"0023", true, want{year: Some(23)}},
		{"3rd of July 1850", true, want{year: Some(1850), month: Some(7), day: Some(3)}},
		{"1768 AD", true, want{year: Some(1768)}},
		{
			"Wed, 06 Jan 2010 09:30:00 GMT", true,
			want{year: Some(2010), month: Some(1), day: Some(6), hour: Some(9), minute: Some(30), second: Some(0), micro: Some(0)},
		},
		{
			"2010-12-07 10:00:00.25", true,
			want{year: Some(2010), month: Some(12), day: Some(7), hour: Some(10), minute: Some(0), second: Some(0), micro: Some(250000)},
		},
		{"July 4 1776 3pm", true, want{year: Some(1776), month: Some(7), day: Some(4), hour: Some(15)}},
		{"12:30 am", true, want{hour: Some(0), minute: Some(30)}},
	}
	lx := fixedLexical()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := lx.Tokenize(tt.in, tt.dayFirst)
			require.True(t, ok)
			require.Equal(t, tt.want.year, got.Year, "year")
			require.Equal(t, tt.want.month, got.Month, "month")
			require.Equal(t, tt.want.day, got.Day, "day")
			require.Equal(t, tt.want.hour, got.Hour, "hour")
			require.Equal(t, tt.want.minute, got.Minute, "minute")
			require.Equal(t, tt.want.second, got.Second, "second")
			require.Equal(t, tt.want.micro, got.Microsecond, "microsecond")
		})
	}
}

func TestLexicalRejects(t *testing.T) {
	lx := fixedLexical()
	for _, in := range []string{
		"",
		"Not a real date!!!",
		"198?",
		"1068/1069",
		"March April 1900",
		"13/13/2000",
		"sometime in spring",
	} {
		_, ok := lx.Tokenize(in, true)
		require.False(t, ok, "input %q", in)
	}
}

func TestExpandYear(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 1986, expandYear(86, now))
	require.Equal(t, 2010, expandYear(10, now))
	require.Equal(t, 2075, expandYear(75, now))
	require.Equal(t, 1976, expandYear(76, now))
}

func TestChain(t *testing.T) {
	never := Func(func(string, bool) (Components, bool) { return Components{}, false })
	always := Func(func(string, bool) (Components, bool) {
		return Components{Year: Some(1900)}, true
	})

	got, ok := Chain{never, nil, always}.Tokenize("x", true)
	require.True(t, ok)
	require.Equal(t, Some(1900), got.Year)

	_, ok = Chain{never}.Tokenize("x", true)
	require.False(t, ok)

	_, ok = Chain{}.Tokenize("x", true)
	require.False(t, ok)
}

func TestDateparse(t *testing.T) {
	dp := NewDateparse()

	got, ok := dp.Tokenize("2014-04-26", true)
	require.True(t, ok)
	require.Equal(t, Some(2014), got.Year)
	require.Equal(t, Some(4), got.Month)
	require.Equal(t, Some(26), got.Day)
	require.False(t, got.Hour.Set)

	got, ok = dp.Tokenize("2009-08-12T22:15:09Z", true)
	require.True(t, ok)
	require.Equal(t, Some(22), got.Hour)
	require.Equal(t, Some(15), got.Minute)
	require.Equal(t, Some(9), got.Second)

	_, ok = dp.Tokenize("not a date at all", true)
	require.False(t, ok)

	_, ok = dp.Tokenize("   ", true)
	require.False(t, ok)
}

func TestComponentsFromLayout(t *testing.T) {
	ts := time.Date(1999, time.March, 4, 5, 6, 7, 8000, time.UTC)

	c := componentsFromLayout(ts, "")
	require.Equal(t, Some(1999), c.Year)
	require.Equal(t, Some(3), c.Month)
	require.Equal(t, Some(4), c.Day)
	require.False(t, c.Hour.Set)

	c = componentsFromLayout(ts, "January 2006")
	require.Equal(t, Some(1999), c.Year)
	require.Equal(t, Some(3), c.Month)
	require.False(t, c.Day.Set)

	c = componentsFromLayout(ts, "2006-01-02 15:04:05.000000")
	require.Equal(t, Some(5), c.Hour)
	require.Equal(t, Some(6), c.Minute)
	require.Equal(t, Some(7), c.Second)
	require.Equal(t, Some(8), c.Microsecond)

	for _, layout := range []string{"2 Jan 2006", "January 2, 2006", "Jan. 2, 2006", "02 January 2006", "060102"} {
		c = componentsFromLayout(ts, layout)
		require.Equal(t, Some(1999), c.Year, layout)
		require.Equal(t, Some(3), c.Month, layout)
		require.Equal(t, Some(4), c.Day, layout)
		require.False(t, c.Hour.Set, layout)
	}

	c = componentsFromLayout(ts, "2006-01-02T15:04:05-07:00")
	require.Equal(t, Some(5), c.Hour)
	require.Equal(t, Some(7), c.Second)

	c = componentsFromLayout(ts, "Jan 2, 2006 3:04 PM")
	require.Equal(t, Some(5), c.Hour)
	require.Equal(t, Some(6), c.Minute)
	require.False(t, c.Second.Set)

	c = componentsFromLayout(ts, "20060102150405")
	require.Equal(t, Some(4), c.Day)
	require.Equal(t, Some(7), c.Second)

	c = componentsFromLayout(ts, "1332151919")
	require.Equal(t, Some(1999), c.Year)
	require.Equal(t, Some(4), c.Day)
	require.Equal(t, Some(6), c.Minute)
	require.Equal(t, Some(8), c.Microsecond)
}

func TestDateparse_DayAndUnixStamp(t *testing.T) {
	dp := NewDateparse()

	for _, in := range []string{"2 Jan 2006", "January 2, 2006"} {
		got, ok := dp.Tokenize(in, true)
		require.True(t, ok, in)
		require.Equal(t, Some(2006), got.Year, in)
		require.Equal(t, Some(1), got.Month, in)
		require.Equal(t, Some(2), got.Day, in)
	}

	got, ok := dp.Tokenize("1332151919", true)
	require.True(t, ok)
	require.Equal(t, Some(2012), got.Year)
	require.Equal(t, Some(3), got.Month)
	require.Equal(t, Some(19), got.Day)
	require.Equal(t, Some(10), got.Hour)
	require.Equal(t, Some(11), got.Minute)
	require.Equal(t, Some(59), got.Second)
}
