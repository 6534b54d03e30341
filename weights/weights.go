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

// Package weights converts raw index weights to weight shares and reshapes
// sparse weight-update tables onto the time axis of an index table.
package weights

import (
	"math"
	"sort"
	"time"

	"github.com/statdex/priceindex/dataframe"
)

// shareTolerance is the floating tolerance used to decide whether weights
// already sum to 1 for every period.
const shareTolerance = 1e-5

// ToWeightShares converts weights to weight shares that sum to 1 across the
// item axis for every period. Weights that are already shares are returned
// unchanged. A period whose weights sum to zero yields NaN shares.
func ToWeightShares(w *dataframe.Table, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	sums := make([]float64, w.Len())
	isShares := true
	for p := 0; p < w.Len(); p++ {
		sum := 0.0
		for i := 0; i < w.ColCount(); i++ {
			v := w.At(axis, p, i)
			if !math.IsNaN(v) {
				sum += v
			}
		}
		sums[p] = sum
		if math.Abs(sum-1) > shareTolerance {
			isShares = false
		}
	}

	if isShares {
		return w.Copy(), nil
	}

	shares := w.Copy()
	for p := 0; p < w.Len(); p++ {
		for i := 0; i < w.ColCount(); i++ {
			if sums[p] == 0 {
				shares.Set(axis, p, i, math.NaN())
			} else {
				shares.Set(axis, p, i, w.At(axis, p, i)/sums[p])
			}
		}
	}

	return shares, nil
}

// ReshapeTo reindexes a sparse weight-update table onto the time labels of
// the reference table. Each new period takes the most recent earlier weight
// update; any leading gap before the first update is back-filled. Weights
// already sharing the reference time labels are returned unchanged. Every
// item of the reference must be present in the weights.
func ReshapeTo(w, reference *dataframe.Table, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	aligned := w
	if !sameItems(w.ColNames, reference.ColNames) {
		for _, name := range reference.ColNames {
			if w.ColIndex(name) == -1 {
				return nil, dataframe.ErrLabelsNotAligned
			}
		}
		aligned = w.ReindexItems(axis, reference.ColNames)
	}

	if sameDates(aligned.Dates, reference.Dates) {
		return aligned.Copy(), nil
	}

	return aligned.ReindexDates(axis, reference.Dates).Ffill(axis).Bfill(axis), nil
}

// Vector builds the one-period table form of a cross-sectional weight
// vector, ready to be broadcast onto an index's time axis by ReshapeTo.
func Vector(axis dataframe.Axis, date time.Time, colNames []string, vals []float64) *dataframe.Table {
	t := dataframe.New(axis, []time.Time{date}, colNames)
	for i := range colNames {
		t.Set(axis, 0, i, vals[i])
	}
	return t
}

// Prorate scales all items not named in exclusions by the given factor.
func Prorate(w *dataframe.Table, factor float64, exclusions []string, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(exclusions))
	for _, name := range exclusions {
		excluded[name] = true
	}

	t2 := w.Copy()
	for i, name := range w.ColNames {
		if excluded[name] {
			continue
		}
		for p := 0; p < w.Len(); p++ {
			t2.Set(axis, p, i, w.At(axis, p, i)*factor)
		}
	}

	return t2, nil
}

// JanAdjustWeights moves weight-update labels by one calendar month so that
// updates announced in February take effect from January (direction back),
// or the reverse (direction forward).
func JanAdjustWeights(w *dataframe.Table, direction Direction) (*dataframe.Table, error) {
	switch direction {
	case Back:
		return w.ShiftDates(-1), nil
	case Forward:
		return w.ShiftDates(1), nil
	}
	return nil, ErrInvalidDirection
}

// AdjustPreDoubleLink jan-adjusts only the weight updates that predate the
// year the double update began; later updates keep their announced timing.
func AdjustPreDoubleLink(w *dataframe.Table, startYear int, direction Direction, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	pre := subsetYears(w, axis, func(y int) bool { return y < startYear })
	post := subsetYears(w, axis, func(y int) bool { return y >= startYear })

	adjusted, err := JanAdjustWeights(pre, direction)
	if err != nil {
		return nil, err
	}

	return concatDates(axis, adjusted, post), nil
}

func subsetYears(w *dataframe.Table, axis dataframe.Axis, keep func(year int) bool) *dataframe.Table {
	dates := make([]time.Time, 0, w.Len())
	src := make([]int, 0, w.Len())
	for p, dt := range w.Dates {
		if keep(dt.Year()) {
			dates = append(dates, dt)
			src = append(src, p)
		}
	}

	t2 := dataframe.New(axis, dates, w.ColNames)
	for newP, oldP := range src {
		for i := 0; i < w.ColCount(); i++ {
			t2.Set(axis, newP, i, w.At(axis, oldP, i))
		}
	}
	return t2
}

func concatDates(axis dataframe.Axis, parts ...*dataframe.Table) *dataframe.Table {
	type entry struct {
		date time.Time
		part *dataframe.Table
		pos  int
	}

	entries := make([]entry, 0)
	for _, part := range parts {
		for p, dt := range part.Dates {
			entries = append(entries, entry{date: dt, part: part, pos: p})
		}
	}
	sort.SliceStable(entries, func(a, b int) bool { return entries[a].date.Before(entries[b].date) })

	dates := make([]time.Time, len(entries))
	for idx, e := range entries {
		dates[idx] = e.date
	}

	t2 := dataframe.New(axis, dates, parts[0].ColNames)
	for newP, e := range entries {
		for i := 0; i < t2.ColCount(); i++ {
			t2.Set(axis, newP, i, e.part.At(axis, e.pos, i))
		}
	}
	return t2
}

func sameItems(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if a[idx] != b[idx] {
			return false
		}
	}
	return true
}

func sameDates(a, b []time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if !a[idx].Equal(b[idx]) {
			return false
		}
	}
	return true
}
