package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCutoffVisible(t *testing.T) {
	noon := time.Date(2024, time.March, 15, 12, 30, 0, 0, time.UTC)

	require.True(t, All().Visible(noon))

	require.True(t, Day(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)).Visible(noon))
	require.False(t, Day(time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)).Visible(noon))

	require.True(t, Month(2024, time.March).Visible(noon))
	require.False(t, Month(2024, time.April).Visible(noon))
	require.False(t, Month(2023, time.March).Visible(noon))

	require.True(t, Year(2024).Visible(noon))
	require.False(t, Year(2023).Visible(noon))
}

func TestCutoffRangeInclusiveBounds(t *testing.T) {
	start := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	c := Range(start, end)

	require.True(t, c.Visible(time.Date(2024, time.March, 10, 0, 0, 1, 0, time.UTC)))
	require.True(t, c.Visible(time.Date(2024, time.March, 20, 23, 59, 0, 0, time.UTC)))
	require.False(t, c.Visible(time.Date(2024, time.March, 9, 23, 59, 59, 0, time.UTC)))
	require.False(t, c.Visible(time.Date(2024, time.March, 21, 0, 0, 0, 0, time.UTC)))

	// open bounds impose nothing
	require.True(t, Range(time.Time{}, end).Visible(time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, Range(start, time.Time{}).Visible(time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCutoffAsOf(t *testing.T) {
	monthEnd := Month(2024, time.February).AsOf()
	require.Equal(t, time.February, monthEnd.Month())
	require.Equal(t, 29, monthEnd.Day()) // leap year

	yearEnd := Year(2023).AsOf()
	require.Equal(t, 2023, yearEnd.Year())
	require.Equal(t, time.December, yearEnd.Month())
	require.Equal(t, 31, yearEnd.Day())

	// a range still being picked must not empty the snapshot
	open := Range(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	require.Equal(t, All().AsOf(), open.AsOf())

	// only the end bound matters for snapshots
	bounded := Range(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC))
	require.Equal(t, 5, bounded.AsOf().Day())
}
