// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package reference rescales index series onto a new reference period and
// splits or joins in-year index segments.
package reference

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/statdex/priceindex/dataframe"
)

var (
	ErrReferencePeriodNotFound = errors.New("reference period matches no dates on the time axis")
	ErrStartNotInIndex         = errors.New("range start matches no dates on the time axis")
)

// SetReferencePeriod rescales each item so its mean over the reference
// period equals 100. The period is a year "2006" or a single month
// "2006-01". NaN results from zero division become 0.
func SetReferencePeriod(t *dataframe.Table, period string, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	match, err := periodMatcher(period)
	if err != nil {
		return nil, err
	}

	any := false
	for _, dt := range t.Dates {
		if match(dt) {
			any = true
			break
		}
	}
	if !any {
		return nil, fmt.Errorf("%w: %q", ErrReferencePeriodNotFound, period)
	}

	t2 := t.Copy()
	for i := 0; i < t.ColCount(); i++ {
		sum, cnt := 0.0, 0
		for p, dt := range t.Dates {
			if v := t.At(axis, p, i); match(dt) && !math.IsNaN(v) {
				sum += v
				cnt++
			}
		}
		mean := sum / float64(cnt)
		for p := 0; p < t.Len(); p++ {
			t2.Set(axis, p, i, t.At(axis, p, i)/mean*100)
		}
	}

	return t2.FillNaN(axis, 0), nil
}

// SetIndexRange cuts the table down to the periods between start and end
// inclusive (a zero time leaves that side open) and pins the first remaining
// period to 100.
func SetIndexRange(t *dataframe.Table, start, end time.Time, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, t.Len())
	for _, dt := range t.Dates {
		if !start.IsZero() && dt.Before(start) {
			continue
		}
		if !end.IsZero() && dt.After(end) {
			continue
		}
		dates = append(dates, dt)
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrStartNotInIndex, start.Format("2006-01"))
	}

	t2 := t.ReindexDates(axis, dates)
	for i := 0; i < t2.ColCount(); i++ {
		t2.Set(axis, 0, i, 100)
	}
	return t2, nil
}

// FullIndexToInYearIndices breaks an index into one segment per calendar
// year, each rebased to 100 at its start and running through to the first
// period of the following year.
func FullIndexToInYearIndices(t *dataframe.Table, axis dataframe.Axis) (map[int]*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	segments := make(map[int]*dataframe.Table)
	for _, seg := range dataframe.YearSegments(t.Dates) {
		year := t.Dates[seg[0]].Year()
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0)

		inYear, err := SetIndexRange(t, start, end, axis)
		if err != nil {
			return nil, err
		}
		segments[year] = inYear
	}

	return segments, nil
}

// InYearIndicesToFullIndex joins in-year segments back into one unchained
// index. The rebased January=100 openings of every segment after the first
// duplicate the closing January of the segment before and are dropped.
func InYearIndicesToFullIndex(segments map[int]*dataframe.Table, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	years := make([]int, 0, len(segments))
	for year := range segments {
		years = append(years, year)
	}
	sort.Ints(years)

	var colNames []string
	dates := make([]time.Time, 0)
	rows := make([][]float64, 0)

	for _, year := range years {
		seg := segments[year].FillNaN(axis, 0)
		if colNames == nil {
			colNames = seg.ColNames
		}

		for p, dt := range seg.Dates {
			if dt.Month() == time.January && year != years[0] && rowHas100(seg, axis, p) {
				continue
			}
			row := make([]float64, seg.ColCount())
			for i := range row {
				row[i] = seg.At(axis, p, i)
			}
			dates = append(dates, dt)
			rows = append(rows, row)
		}
	}

	full := dataframe.New(axis, dates, colNames)
	for p, row := range rows {
		for i, v := range row {
			full.Set(axis, p, i, v)
		}
	}
	return full, nil
}

func rowHas100(t *dataframe.Table, axis dataframe.Axis, p int) bool {
	for i := 0; i < t.ColCount(); i++ {
		if t.At(axis, p, i) == 100 {
			return true
		}
	}
	return false
}

// periodMatcher builds a date predicate from a year "2006" or a month
// "2006-01" reference period.
func periodMatcher(period string) (func(time.Time) bool, error) {
	if dt, err := time.Parse("2006-01", period); err == nil {
		return func(d time.Time) bool {
			return d.Year() == dt.Year() && d.Month() == dt.Month()
		}, nil
	}
	if dt, err := time.Parse("2006", period); err == nil {
		return func(d time.Time) bool { return d.Year() == dt.Year() }, nil
	}
	return nil, fmt.Errorf("%w: %q is not a year or year-month", ErrReferencePeriodNotFound, period)
}
