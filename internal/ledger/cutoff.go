package ledger

import "time"

// CutoffKind selects the point-in-time policy.
type CutoffKind int

const (
	// CutoffAll is unbounded.
	CutoffAll CutoffKind = iota
	// CutoffDay matches one calendar day.
	CutoffDay
	// CutoffMonth matches one calendar month.
	CutoffMonth
	// CutoffYear matches one calendar year.
	CutoffYear
	// CutoffRange matches an inclusive date range.
	CutoffRange
)

// Cutoff is the instant policy for historical snapshots. All comparisons use
// UTC calendar boundaries; record timestamps are stored UTC.
type Cutoff struct {
	Kind  CutoffKind
	Day   time.Time
	Year  int
	Month time.Month
	Start time.Time
	End   time.Time
}

// All returns an unbounded cutoff.
func All() Cutoff { return Cutoff{Kind: CutoffAll} }

// Day returns a cutoff covering the calendar day of t.
func Day(t time.Time) Cutoff { return Cutoff{Kind: CutoffDay, Day: t} }

// Month returns a cutoff covering calendar month m of year y.
func Month(y int, m time.Month) Cutoff { return Cutoff{Kind: CutoffMonth, Year: y, Month: m} }

// Year returns a cutoff covering calendar year y.
func Year(y int) Cutoff { return Cutoff{Kind: CutoffYear, Year: y} }

// Range returns a cutoff covering start..end inclusive by calendar day.
// Zero bounds are open.
func Range(start, end time.Time) Cutoff {
	return Cutoff{Kind: CutoffRange, Start: start, End: end}
}

// Visible reports whether a record timestamp falls inside the cutoff window.
func (c Cutoff) Visible(t time.Time) bool {
	t = t.UTC()
	switch c.Kind {
	case CutoffDay:
		return sameDay(t, c.Day.UTC())
	case CutoffMonth:
		return t.Year() == c.Year && t.Month() == c.Month
	case CutoffYear:
		return t.Year() == c.Year
	case CutoffRange:
		if !c.Start.IsZero() && t.Before(dayStart(c.Start.UTC())) {
			return false
		}
		if !c.End.IsZero() && t.After(dayEnd(c.End.UTC())) {
			return false
		}
		return true
	default:
		return true
	}
}

// AsOf returns the inventory snapshot instant: receipts and issues dated at
// or before it are part of the snapshot. For Range only the end bound
// matters; a Range without an end behaves like All so an incomplete filter
// never empties the report.
func (c Cutoff) AsOf() time.Time {
	switch c.Kind {
	case CutoffDay:
		return dayEnd(c.Day.UTC())
	case CutoffMonth:
		return time.Date(c.Year, c.Month+1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	case CutoffYear:
		return time.Date(c.Year, time.December, 31, 23, 59, 59, 999999999, time.UTC)
	case CutoffRange:
		if c.End.IsZero() {
			return unboundedFuture
		}
		return dayEnd(c.End.UTC())
	default:
		return unboundedFuture
	}
}

var unboundedFuture = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayEnd(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999999, time.UTC)
}
