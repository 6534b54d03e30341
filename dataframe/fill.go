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

package dataframe

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

// Ffill forward-fills missing values along the time axis, per item.
func (t *Table) Ffill(axis Axis) *Table {
	t.checkShape(axis)
	t2 := t.Copy()

	for i := range t.ColNames {
		last := math.NaN()
		for p := 0; p < t.Len(); p++ {
			v := t2.At(axis, p, i)
			if math.IsNaN(v) {
				t2.Set(axis, p, i, last)
			} else {
				last = v
			}
		}
	}

	return t2
}

// Bfill backward-fills missing values along the time axis, per item.
func (t *Table) Bfill(axis Axis) *Table {
	t.checkShape(axis)
	t2 := t.Copy()

	for i := range t.ColNames {
		next := math.NaN()
		for p := t.Len() - 1; p >= 0; p-- {
			v := t2.At(axis, p, i)
			if math.IsNaN(v) {
				t2.Set(axis, p, i, next)
			} else {
				next = v
			}
		}
	}

	return t2
}

// FfillWithinYears forward-fills missing values independently within each
// contiguous calendar-year window of the time axis. A value never crosses a
// year boundary, so an item discontinued in one year does not inherit a stale
// value into the next.
func (t *Table) FfillWithinYears(axis Axis) *Table {
	t.checkShape(axis)
	t2 := t.Copy()

	for _, seg := range YearSegments(t.Dates) {
		for i := range t.ColNames {
			last := math.NaN()
			for p := seg[0]; p < seg[1]; p++ {
				v := t2.At(axis, p, i)
				if math.IsNaN(v) {
					t2.Set(axis, p, i, last)
				} else {
					last = v
				}
			}
		}
	}

	return t2
}

// Shift moves values n periods forward along the time axis (or backward for
// negative n), filling the vacated positions with NaN. Labels are unchanged.
func (t *Table) Shift(axis Axis, n int) *Table {
	t.checkShape(axis)
	t2 := New(axis, t.Dates, t.ColNames)

	for p := 0; p < t.Len(); p++ {
		src := p - n
		if src < 0 || src >= t.Len() {
			continue
		}
		for i := range t.ColNames {
			t2.Set(axis, p, i, t.At(axis, src, i))
		}
	}

	return t2
}

// ShiftDates moves the time labels themselves by the given number of
// calendar months, leaving values untouched. Used for weight-update timing
// adjustments.
func (t *Table) ShiftDates(months int) *Table {
	t2 := t.Copy()
	for idx, dt := range t2.Dates {
		t2.Dates[idx] = dt.AddDate(0, months, 0)
	}
	return t2
}

// FillWith replaces NaN values with the value at the same position in other.
// The two tables must share the same shape.
func (t *Table) FillWith(axis Axis, other *Table) *Table {
	t.checkShape(axis)
	if t.Len() != other.Len() || t.ColCount() != other.ColCount() {
		log.Panic().Int("Rows", t.Len()).Int("OtherRows", other.Len()).
			Msg("cannot fill from a table of a different shape")
	}

	t2 := t.Copy()
	for p := 0; p < t.Len(); p++ {
		for i := range t.ColNames {
			if math.IsNaN(t2.At(axis, p, i)) {
				t2.Set(axis, p, i, other.At(axis, p, i))
			}
		}
	}

	return t2
}

// FillNaN replaces NaN values with the given scalar.
func (t *Table) FillNaN(axis Axis, v float64) *Table {
	t2 := t.Copy()
	for p := 0; p < t.Len(); p++ {
		for i := range t.ColNames {
			if math.IsNaN(t2.At(axis, p, i)) {
				t2.Set(axis, p, i, v)
			}
		}
	}
	return t2
}

// Select builds a new table that takes replacement where mask is true and
// original everywhere else. All three must share the same shape.
func Select(axis Axis, mask *Mask, replacement, original *Table) *Table {
	original.checkShape(axis)
	t2 := original.Copy()

	for p := 0; p < original.Len(); p++ {
		for i := range original.ColNames {
			if mask.At(axis, p, i) {
				t2.Set(axis, p, i, replacement.At(axis, p, i))
			}
		}
	}

	return t2
}

// MaskWith returns a copy of the table with the scalar v wherever mask is
// true.
func (t *Table) MaskWith(axis Axis, mask *Mask, v float64) *Table {
	t.checkShape(axis)
	t2 := t.Copy()

	for p := 0; p < t.Len(); p++ {
		for i := range t.ColNames {
			if mask.At(axis, p, i) {
				t2.Set(axis, p, i, v)
			}
		}
	}

	return t2
}

// Any reports, per period, whether any item is true.
func (m *Mask) Any(axis Axis) []bool {
	res := make([]bool, len(m.Dates))
	for p := range m.Dates {
		for i := range m.ColNames {
			if m.At(axis, p, i) {
				res[p] = true
				break
			}
		}
	}
	return res
}

// Ffill forward-fills missing values in the series.
func (s *Series) Ffill() *Series {
	s2 := s.Copy()
	last := math.NaN()
	for idx, v := range s2.Vals {
		if math.IsNaN(v) {
			s2.Vals[idx] = last
		} else {
			last = v
		}
	}
	return s2
}

// Bfill backward-fills missing values in the series.
func (s *Series) Bfill() *Series {
	s2 := s.Copy()
	next := math.NaN()
	for idx := len(s2.Vals) - 1; idx >= 0; idx-- {
		if math.IsNaN(s2.Vals[idx]) {
			s2.Vals[idx] = next
		} else {
			next = s2.Vals[idx]
		}
	}
	return s2
}

// Shift moves series values n periods forward, filling with NaN.
func (s *Series) Shift(n int) *Series {
	s2 := &Series{
		Dates: append([]time.Time{}, s.Dates...),
		Vals:  make([]float64, len(s.Vals)),
	}
	for idx := range s2.Vals {
		src := idx - n
		if src < 0 || src >= len(s.Vals) {
			s2.Vals[idx] = math.NaN()
		} else {
			s2.Vals[idx] = s.Vals[src]
		}
	}
	return s2
}

// FillNaN replaces NaN values in the series with the given scalar.
func (s *Series) FillNaN(v float64) *Series {
	s2 := s.Copy()
	for idx, val := range s2.Vals {
		if math.IsNaN(val) {
			s2.Vals[idx] = v
		}
	}
	return s2
}
