package domain

import (
	"fmt"
	"strings"
	"time"
)

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month int // 1-12
}

// Before reports whether ym precedes other in (year, month) order.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// TimeIndex is the ordered month sequence of a field.
type TimeIndex []YearMonth

// Validate checks months are in range and strictly increasing.
func (ti TimeIndex) Validate() error {
	for i, ym := range ti {
		if ym.Month < 1 || ym.Month > 12 {
			return fmt.Errorf("time step %d has month %d out of range", i, ym.Month)
		}
		if i > 0 && !ti[i-1].Before(ym) {
			return fmt.Errorf("time index not increasing at step %d (%s then %s)", i, ti[i-1], ym)
		}
	}
	return nil
}

// Subset returns the indices of steps whose year lies in [startYear, endYear].
func (ti TimeIndex) Subset(startYear, endYear int) []int {
	var idx []int
	for i, ym := range ti {
		if ym.Year >= startYear && ym.Year <= endYear {
			idx = append(idx, i)
		}
	}
	return idx
}

// Years returns the sorted distinct years covered by the index.
func (ti TimeIndex) Years() []int {
	var years []int
	for _, ym := range ti {
		if len(years) == 0 || years[len(years)-1] != ym.Year {
			years = append(years, ym.Year)
		}
	}
	return years
}

// TimeIndexFromYYYYMM decodes integer-encoded time steps such as 197901.
func TimeIndexFromYYYYMM(codes []int32) (TimeIndex, error) {
	ti := make(TimeIndex, len(codes))
	for i, c := range codes {
		ti[i] = YearMonth{Year: int(c) / 100, Month: int(c) % 100}
	}
	if err := ti.Validate(); err != nil {
		return nil, fmt.Errorf("YYYYMM time axis: %w", err)
	}
	return ti, nil
}

// TimeIndexFromCF decodes a CF-convention calendar axis: offsets measured in
// the unit named by units (e.g. "days since 1850-01-01 00:00:00") are turned
// into calendar months. Supported units are seconds, hours, days and months.
func TimeIndexFromCF(units string, offsets []float64) (TimeIndex, error) {
	unit, epoch, err := parseCFUnits(units)
	if err != nil {
		return nil, err
	}
	ti := make(TimeIndex, len(offsets))
	for i, off := range offsets {
		var t time.Time
		switch unit {
		case "seconds":
			t = epoch.Add(time.Duration(off * float64(time.Second)))
		case "hours":
			t = epoch.Add(time.Duration(off * float64(time.Hour)))
		case "days":
			t = epoch.Add(time.Duration(off * 24 * float64(time.Hour)))
		case "months":
			t = epoch.AddDate(0, int(off), 0)
		}
		ti[i] = YearMonth{Year: t.Year(), Month: int(t.Month())}
	}
	if err := ti.Validate(); err != nil {
		return nil, fmt.Errorf("calendar time axis (%q): %w", units, err)
	}
	return ti, nil
}

func parseCFUnits(units string) (unit string, epoch time.Time, err error) {
	parts := strings.SplitN(strings.TrimSpace(units), " since ", 2)
	if len(parts) != 2 {
		return "", time.Time{}, fmt.Errorf("unsupported time units %q", units)
	}
	unit = strings.ToLower(strings.TrimSpace(parts[0]))
	switch unit {
	case "second", "seconds", "sec", "s":
		unit = "seconds"
	case "hour", "hours", "hr", "h":
		unit = "hours"
	case "day", "days", "d":
		unit = "days"
	case "month", "months":
		unit = "months"
	default:
		return "", time.Time{}, fmt.Errorf("unsupported time unit %q", parts[0])
	}
	stamp := strings.TrimSpace(parts[1])
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		"2006-1-2",
	} {
		if t, perr := time.Parse(layout, stamp); perr == nil {
			return unit, t.UTC(), nil
		}
	}
	return "", time.Time{}, fmt.Errorf("unparseable epoch %q in time units", stamp)
}

// MonthlyIndex builds the index covering every month of [startYear, endYear].
func MonthlyIndex(startYear, endYear int) TimeIndex {
	ti := make(TimeIndex, 0, (endYear-startYear+1)*12)
	for y := startYear; y <= endYear; y++ {
		for m := 1; m <= 12; m++ {
			ti = append(ti, YearMonth{Year: y, Month: m})
		}
	}
	return ti
}
