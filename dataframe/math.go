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
	"gonum.org/v1/gonum/floats"
)

// Div divides every value by the value at the same position in other and
// returns a new table. The tables must share the same shape.
func (t *Table) Div(axis Axis, other *Table) *Table {
	return t.zip(axis, other, func(a, b float64) float64 { return a / b })
}

// Mul multiplies every value by the value at the same position in other and
// returns a new table.
func (t *Table) Mul(axis Axis, other *Table) *Table {
	return t.zip(axis, other, func(a, b float64) float64 { return a * b })
}

// Sub subtracts the value at the same position in other from every value and
// returns a new table.
func (t *Table) Sub(axis Axis, other *Table) *Table {
	return t.zip(axis, other, func(a, b float64) float64 { return a - b })
}

// Add adds the value at the same position in other to every value and returns
// a new table.
func (t *Table) Add(axis Axis, other *Table) *Table {
	return t.zip(axis, other, func(a, b float64) float64 { return a + b })
}

func (t *Table) zip(axis Axis, other *Table, op func(a, b float64) float64) *Table {
	t.checkShape(axis)
	if t.Len() != other.Len() || t.ColCount() != other.ColCount() {
		log.Panic().Int("Rows", t.Len()).Int("OtherRows", other.Len()).
			Int("Cols", t.ColCount()).Int("OtherCols", other.ColCount()).
			Msg("tables must share a shape for elementwise arithmetic")
	}

	t2 := t.Copy()
	for p := 0; p < t.Len(); p++ {
		for i := range t.ColNames {
			t2.Set(axis, p, i, op(t.At(axis, p, i), other.At(axis, p, i)))
		}
	}
	return t2
}

// MulScalar multiplies every value by the scalar and returns a new table.
func (t *Table) MulScalar(axis Axis, scalar float64) *Table {
	t2 := t.Copy()
	for idx := range t2.Vals {
		floats.Scale(scalar, t2.Vals[idx])
	}
	return t2
}

// AddScalar adds the scalar to every value and returns a new table.
func (t *Table) AddScalar(axis Axis, scalar float64) *Table {
	t2 := t.Copy()
	for idx := range t2.Vals {
		floats.AddConst(scalar, t2.Vals[idx])
	}
	return t2
}

// MulSeries multiplies each item's value by the series value for the same
// period and returns a new table.
func (t *Table) MulSeries(axis Axis, s *Series) *Table {
	t.checkShape(axis)
	if t.Len() != s.Len() {
		log.Panic().Int("Rows", t.Len()).Int("SeriesLen", s.Len()).
			Msg("series length must match the table's time axis")
	}

	t2 := t.Copy()
	for p := 0; p < t.Len(); p++ {
		for i := range t.ColNames {
			t2.Set(axis, p, i, t.At(axis, p, i)*s.Vals[p])
		}
	}
	return t2
}

// DivSeries divides each item's value by the series value for the same
// period and returns a new table.
func (t *Table) DivSeries(axis Axis, s *Series) *Table {
	t.checkShape(axis)
	if t.Len() != s.Len() {
		log.Panic().Int("Rows", t.Len()).Int("SeriesLen", s.Len()).
			Msg("series length must match the table's time axis")
	}

	t2 := t.Copy()
	for p := 0; p < t.Len(); p++ {
		for i := range t.ColNames {
			t2.Set(axis, p, i, t.At(axis, p, i)/s.Vals[p])
		}
	}
	return t2
}

// CumprodTime takes the cumulative product along the time axis, per item.
// A NaN stays NaN at its own position but leaves the running product
// untouched, so later periods accumulate across the gap.
func (t *Table) CumprodTime(axis Axis) *Table {
	t.checkShape(axis)
	t2 := t.Copy()

	for i := range t.ColNames {
		acc := 1.0
		for p := 0; p < t.Len(); p++ {
			v := t2.At(axis, p, i)
			if math.IsNaN(v) {
				continue
			}
			acc *= v
			t2.Set(axis, p, i, acc)
		}
	}
	return t2
}

// SumItems sums across the item axis for each period, skipping NaN values.
// A period with fewer non-NaN values than minCount yields NaN.
func (t *Table) SumItems(axis Axis, minCount int) *Series {
	t.checkShape(axis)
	vals := make([]float64, t.Len())

	for p := 0; p < t.Len(); p++ {
		sum, cnt := 0.0, 0
		for i := range t.ColNames {
			v := t.At(axis, p, i)
			if !math.IsNaN(v) {
				sum += v
				cnt++
			}
		}
		if cnt < minCount {
			vals[p] = math.NaN()
		} else {
			vals[p] = sum
		}
	}

	return &Series{Dates: append([]time.Time{}, t.Dates...), Vals: vals}
}

// MeanItems takes the arithmetic mean across the item axis for each period,
// skipping NaN values. A period with no observations yields NaN.
func (t *Table) MeanItems(axis Axis) *Series {
	t.checkShape(axis)
	vals := make([]float64, t.Len())

	for p := 0; p < t.Len(); p++ {
		sum, cnt := 0.0, 0
		for i := range t.ColNames {
			v := t.At(axis, p, i)
			if !math.IsNaN(v) {
				sum += v
				cnt++
			}
		}
		if cnt == 0 {
			vals[p] = math.NaN()
		} else {
			vals[p] = sum / float64(cnt)
		}
	}

	return &Series{Dates: append([]time.Time{}, t.Dates...), Vals: vals}
}

// ProdItems takes the product across the item axis for each period, skipping
// NaN values. A period with no observations yields the empty product 1.
func (t *Table) ProdItems(axis Axis) *Series {
	t.checkShape(axis)
	vals := make([]float64, t.Len())

	for p := 0; p < t.Len(); p++ {
		prod := 1.0
		for i := range t.ColNames {
			v := t.At(axis, p, i)
			if !math.IsNaN(v) {
				prod *= v
			}
		}
		vals[p] = prod
	}

	return &Series{Dates: append([]time.Time{}, t.Dates...), Vals: vals}
}

// CountPresent counts non-NaN values across the item axis for each period.
func (t *Table) CountPresent(axis Axis) []int {
	t.checkShape(axis)
	counts := make([]int, t.Len())

	for p := 0; p < t.Len(); p++ {
		for i := range t.ColNames {
			if !math.IsNaN(t.At(axis, p, i)) {
				counts[p]++
			}
		}
	}
	return counts
}

// PctChange computes the percentage change from n periods earlier, per item.
// The first n periods are NaN.
func (t *Table) PctChange(axis Axis, n int) *Table {
	t.checkShape(axis)
	t2 := New(axis, t.Dates, t.ColNames)

	for p := n; p < t.Len(); p++ {
		for i := range t.ColNames {
			prev := t.At(axis, p-n, i)
			t2.Set(axis, p, i, t.At(axis, p, i)/prev-1)
		}
	}
	return t2
}

// MulScalar multiplies every series value by the scalar.
func (s *Series) MulScalar(scalar float64) *Series {
	s2 := s.Copy()
	floats.Scale(scalar, s2.Vals)
	return s2
}

// Div divides the series elementwise by other.
func (s *Series) Div(other *Series) *Series {
	if s.Len() != other.Len() {
		log.Panic().Int("Len", s.Len()).Int("OtherLen", other.Len()).
			Msg("series must share a length for elementwise arithmetic")
	}
	s2 := s.Copy()
	floats.Div(s2.Vals, other.Vals)
	return s2
}

// PctChange computes the percentage change from n periods earlier. The first
// n values are NaN.
func (s *Series) PctChange(n int) *Series {
	s2 := s.Copy()
	for idx := range s2.Vals {
		if idx < n {
			s2.Vals[idx] = math.NaN()
		} else {
			s2.Vals[idx] = s.Vals[idx]/s.Vals[idx-n] - 1
		}
	}
	return s2
}
