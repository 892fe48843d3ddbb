package dataset

import (
	"math/rand/v2"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"gonum.org/v1/gonum/floats"
)

// GenerateT creates n evenly spaced observation times ending at the current time
// truncated to the minute.
func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).Add(-time.Duration(n) * interval).UTC()
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

// Column is a single predictor column of a simulated design matrix
type Column []float64

func (c Column) Add(src Column) Column {
	floats.Add(c, src)
	return c
}

func (c Column) Scale(val float64) Column {
	floats.Scale(val, c)
	return c
}

// GenerateConstColumn creates a column with a constant value
func GenerateConstColumn(n int, val float64) Column {
	col := make(Column, 0, n)
	for i := 0; i < n; i++ {
		col = append(col, val)
	}
	return col
}

// GenerateNoiseColumn creates a column of zero-mean Gaussian draws
func GenerateNoiseColumn(n int, scale float64) Column {
	col := make(Column, 0, n)
	for i := 0; i < n; i++ {
		col = append(col, rand.NormFloat64()*scale)
	}
	return col
}

// GenerateLinearColumn creates a column growing linearly across observations
func GenerateLinearColumn(n int, slope float64) Column {
	col := make(Column, 0, n)
	for i := 0; i < n; i++ {
		col = append(col, slope*float64(i))
	}
	return col
}

// DefaultUSCalendar returns a business calendar observing the standard US holidays
func DefaultUSCalendar() *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(us.Holidays...)
	return c
}

// WorkdayColumn creates a dummy column flagging observations that land on a
// business day of the given calendar
func WorkdayColumn(t []time.Time, c *cal.BusinessCalendar) Column {
	col := make(Column, len(t))
	for i, ts := range t {
		if c.IsWorkday(ts) {
			col[i] = 1.0
		}
	}
	return col
}

// HolidayColumn creates a dummy column flagging observations that land on the
// observed date of the given holiday
func HolidayColumn(t []time.Time, hol *cal.Holiday) Column {
	observedByYear := make(map[int]time.Time)
	for _, ts := range t {
		if _, exists := observedByYear[ts.Year()]; !exists {
			_, observed := hol.Calc(ts.Year())
			observedByYear[ts.Year()] = observed
		}
	}

	col := make(Column, len(t))
	for i, ts := range t {
		observed := observedByYear[ts.Year()]
		if ts.Year() == observed.Year() && ts.YearDay() == observed.YearDay() {
			col[i] = 1.0
		}
	}
	return col
}

// GenerateResponse builds a response vector as a weighted sum of the predictor
// columns plus an intercept and Gaussian noise
func GenerateResponse(columns []Column, weights []float64, intercept, noiseScale float64) Column {
	if len(columns) == 0 {
		return nil
	}
	n := len(columns[0])
	y := GenerateConstColumn(n, intercept)
	for j, col := range columns {
		for i := 0; i < n; i++ {
			y[i] += weights[j] * col[i]
		}
	}
	if noiseScale > 0 {
		y.Add(GenerateNoiseColumn(n, noiseScale))
	}
	return y
}

// Rows transposes predictor columns into the row-major layout consumed by New
func Rows(columns ...Column) [][]float64 {
	if len(columns) == 0 {
		return nil
	}
	n := len(columns[0])
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, len(columns))
		for j, col := range columns {
			rows[i][j] = col[i]
		}
	}
	return rows
}
