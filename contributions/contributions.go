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

// Package contributions decomposes the annual growth of a chain-linked
// aggregate index into the portion attributable to each component.
package contributions

import (
	"errors"
	"math"
	"time"

	"github.com/statdex/priceindex/dataframe"
	"github.com/statdex/priceindex/weights"
)

// ErrMonthlyOnly rejects non-monthly series: the decomposition works in
// twelve-period lags anchored on January and December.
var ErrMonthlyOnly = errors.New("contributions require a monthly series")

// Contributions splits the twelve-month growth of the unchained aggregate
// index into per-component contributions. The three terms cover growth from
// last year's level to December, the December-to-January chain link, and
// within-year growth since January. With doubleUpdate the weights follow the
// December/January double-link timing instead of a single annual update.
//
// The first twelve periods have no year-earlier comparison and are dropped.
func Contributions(components, w *dataframe.Table, index *dataframe.Series, doubleUpdate bool, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	freq, err := dataframe.DetectFrequency(components.Dates)
	if err != nil {
		return nil, err
	}
	if freq != dataframe.Monthly {
		return nil, ErrMonthlyOnly
	}

	ws, err := weights.ToWeightShares(w, axis)
	if err != nil {
		return nil, err
	}
	if ws, err = weights.ReshapeTo(ws, components, axis); err != nil {
		return nil, err
	}

	// Both the aggregate and its components reset to 100 at the January
	// chain link.
	unchained := index.Copy()
	for p, dt := range unchained.Dates {
		if dt.Month() == time.January {
			unchained.Vals[p] = 100
		}
	}
	icY := components.Copy()
	for p, dt := range icY.Dates {
		if dt.Month() != time.January {
			continue
		}
		for i := 0; i < icY.ColCount(); i++ {
			icY.Set(axis, p, i, 100)
		}
	}

	var w1, w2, w3 *dataframe.Table
	if doubleUpdate {
		w1 = selectMonth(ws, time.February, axis).Shift(axis, -1).Ffill(axis).Shift(axis, 12)
		w2 = selectMonth(ws, time.January, axis).Ffill(axis)
		w3 = selectMonth(ws, time.February, axis).Shift(axis, -1).Ffill(axis)
	} else {
		w1 = ws.Shift(axis, 12)
		w2, w3 = ws, ws
	}

	// December levels come from the year before; January levels carry the
	// December=100 link before the reset above.
	icDec := selectMonth(components, time.December, axis).Bfill(axis).Shift(axis, 12)
	icJan := selectMonth(components, time.January, axis).Ffill(axis)
	icPy := icY.Shift(axis, 12)

	iaDec := selectMonthSeries(index, time.December).Bfill().Shift(12)
	iaJan := selectMonthSeries(index, time.January).Ffill()
	iaPy := unchained.Shift(12)

	comp1 := w1.Mul(axis, icDec.Sub(axis, icPy).DivSeries(axis, iaPy)).MulScalar(axis, 100)
	comp2 := w2.Mul(axis, icJan.AddScalar(axis, -100).DivSeries(axis, iaPy)).
		MulSeries(axis, iaDec)
	comp3 := w3.Mul(axis, icY.AddScalar(axis, -100).DivSeries(axis, iaPy)).
		MulSeries(axis, iaJan.MulScalar(1.0/100)).
		MulSeries(axis, iaDec)

	return comp1.Add(axis, comp2).Add(axis, comp3).DropNaNRows(axis), nil
}

// ContributionsWithDoubleUpdate covers a series that switches from single to
// double weight updates in startYear: periods through the year before are
// decomposed with single-update timing, periods from that year on with
// double-update timing, and the two halves are concatenated. The overlap year
// is included in both slices because contributions need a twelve-month
// warm-up.
func ContributionsWithDoubleUpdate(components, w *dataframe.Table, index *dataframe.Series, startYear int, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	endYear := startYear - 1
	pre, err := Contributions(
		sliceYears(components, axis, func(y int) bool { return y <= endYear }),
		sliceYears(w, axis, func(y int) bool { return y <= endYear }),
		sliceYearsSeries(index, func(y int) bool { return y <= endYear }),
		false, axis)
	if err != nil {
		return nil, err
	}

	post, err := Contributions(
		sliceYears(components, axis, func(y int) bool { return y >= endYear }),
		sliceYears(w, axis, func(y int) bool { return y >= endYear }),
		sliceYearsSeries(index, func(y int) bool { return y >= endYear }),
		true, axis)
	if err != nil {
		return nil, err
	}

	return concatPeriods(axis, pre, post), nil
}

// selectMonth keeps only the periods falling in the given calendar month,
// blanking everything else to NaN so a later fill can spread the values.
func selectMonth(t *dataframe.Table, month time.Month, axis dataframe.Axis) *dataframe.Table {
	t2 := t.Copy()
	for p, dt := range t2.Dates {
		if dt.Month() == month {
			continue
		}
		for i := 0; i < t2.ColCount(); i++ {
			t2.Set(axis, p, i, math.NaN())
		}
	}
	return t2
}

func selectMonthSeries(s *dataframe.Series, month time.Month) *dataframe.Series {
	s2 := s.Copy()
	for p, dt := range s2.Dates {
		if dt.Month() != month {
			s2.Vals[p] = math.NaN()
		}
	}
	return s2
}

func sliceYears(t *dataframe.Table, axis dataframe.Axis, keep func(year int) bool) *dataframe.Table {
	dates := make([]time.Time, 0, t.Len())
	for _, dt := range t.Dates {
		if keep(dt.Year()) {
			dates = append(dates, dt)
		}
	}
	return t.ReindexDates(axis, dates)
}

func sliceYearsSeries(s *dataframe.Series, keep func(year int) bool) *dataframe.Series {
	s2 := &dataframe.Series{}
	for p, dt := range s.Dates {
		if keep(dt.Year()) {
			s2.Dates = append(s2.Dates, dt)
			s2.Vals = append(s2.Vals, s.Vals[p])
		}
	}
	return s2
}

func concatPeriods(axis dataframe.Axis, parts ...*dataframe.Table) *dataframe.Table {
	dates := make([]time.Time, 0)
	for _, part := range parts {
		dates = append(dates, part.Dates...)
	}

	t2 := dataframe.New(axis, dates, parts[0].ColNames)
	p := 0
	for _, part := range parts {
		for src := 0; src < part.Len(); src++ {
			for i := range part.ColNames {
				t2.Set(axis, p, i, part.At(axis, src, i))
			}
			p++
		}
	}
	return t2
}
