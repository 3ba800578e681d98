package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyPerYear(t *testing.T) {
	cases := map[Frequency]int{
		Yearly:   1,
		Monthly:  12,
		BiWeekly: 26,
		Weekly:   52,
		"daily":  0,
	}
	for f, want := range cases {
		assert.Equal(t, want, f.PerYear(), "frequency %s", f)
	}
}

func TestFrequencyToYearly(t *testing.T) {
	v, err := Monthly.ToYearly(100)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, v)

	v, err = Weekly.ToYearly(10)
	require.NoError(t, err)
	assert.Equal(t, 520.0, v)

	_, err = Frequency("hourly").ToYearly(10)
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestParseFrequency(t *testing.T) {
	cases := []struct {
		in   string
		want Frequency
		ok   bool
	}{
		{"", Yearly, true},
		{"y", Yearly, true},
		{"M", Monthly, true},
		{"b", BiWeekly, true},
		{"bi-weekly", BiWeekly, true},
		{" weekly ", Weekly, true},
		{"q", "", false},
	}
	for _, tc := range cases {
		got, err := ParseFrequency(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidFrequency, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}
