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
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
)

// New creates a table of the given shape in the orientation of axis, with
// every value initialized to NaN.
func New(axis Axis, dates []time.Time, colNames []string) *Table {
	outer, inner := len(dates), len(colNames)
	if axis == AxisColumns {
		outer, inner = inner, outer
	}

	vals := make([][]float64, outer)
	for ii := range vals {
		vals[ii] = make([]float64, inner)
		for jj := range vals[ii] {
			vals[ii][jj] = math.NaN()
		}
	}

	return &Table{
		Dates:    append([]time.Time{}, dates...),
		ColNames: append([]string{}, colNames...),
		Vals:     vals,
	}
}

// NewMask creates an all-false mask of the given shape in the orientation of
// axis.
func NewMask(axis Axis, dates []time.Time, colNames []string) *Mask {
	outer, inner := len(dates), len(colNames)
	if axis == AxisColumns {
		outer, inner = inner, outer
	}

	vals := make([][]bool, outer)
	for ii := range vals {
		vals[ii] = make([]bool, inner)
	}

	return &Mask{
		Dates:    append([]time.Time{}, dates...),
		ColNames: append([]string{}, colNames...),
		Vals:     vals,
	}
}

// Len returns the number of periods on the time axis.
func (t *Table) Len() int {
	return len(t.Dates)
}

// ColCount returns the number of items on the item axis.
func (t *Table) ColCount() int {
	return len(t.ColNames)
}

// ColIndex returns the position of the named item; -1 if it doesn't exist.
func (t *Table) ColIndex(colName string) int {
	for idx, val := range t.ColNames {
		if colName == val {
			return idx
		}
	}
	return -1
}

// At returns the value for the given period and item positions under the
// given orientation.
func (t *Table) At(axis Axis, period, item int) float64 {
	if axis == AxisIndex {
		return t.Vals[period][item]
	}
	return t.Vals[item][period]
}

// Set assigns the value for the given period and item positions under the
// given orientation.
func (t *Table) Set(axis Axis, period, item int, v float64) {
	if axis == AxisIndex {
		t.Vals[period][item] = v
	} else {
		t.Vals[item][period] = v
	}
}

// At returns the mask value for the given period and item positions under
// the given orientation.
func (m *Mask) At(axis Axis, period, item int) bool {
	if axis == AxisIndex {
		return m.Vals[period][item]
	}
	return m.Vals[item][period]
}

// Set assigns the mask value for the given period and item positions under
// the given orientation.
func (m *Mask) Set(axis Axis, period, item int, v bool) {
	if axis == AxisIndex {
		m.Vals[period][item] = v
	} else {
		m.Vals[item][period] = v
	}
}

// Copy creates a deep copy of the table.
func (t *Table) Copy() *Table {
	t2 := &Table{
		Dates:    make([]time.Time, len(t.Dates)),
		ColNames: make([]string, len(t.ColNames)),
		Vals:     make([][]float64, len(t.Vals)),
	}

	copy(t2.Dates, t.Dates)
	copy(t2.ColNames, t.ColNames)

	for idx := range t2.Vals {
		t2.Vals[idx] = make([]float64, len(t.Vals[idx]))
		copy(t2.Vals[idx], t.Vals[idx])
	}

	return t2
}

// Copy creates a deep copy of the mask.
func (m *Mask) Copy() *Mask {
	m2 := &Mask{
		Dates:    make([]time.Time, len(m.Dates)),
		ColNames: make([]string, len(m.ColNames)),
		Vals:     make([][]bool, len(m.Vals)),
	}

	copy(m2.Dates, m.Dates)
	copy(m2.ColNames, m.ColNames)

	for idx := range m2.Vals {
		m2.Vals[idx] = make([]bool, len(m.Vals[idx]))
		copy(m2.Vals[idx], m.Vals[idx])
	}

	return m2
}

// Transpose returns a copy of the table with the physical layout of Vals
// flipped, so a table built for one orientation can be consumed under the
// other.
func (t *Table) Transpose() *Table {
	if len(t.Vals) == 0 {
		return t.Copy()
	}

	vals := make([][]float64, len(t.Vals[0]))
	for ii := range vals {
		vals[ii] = make([]float64, len(t.Vals))
		for jj := range vals[ii] {
			vals[ii][jj] = t.Vals[jj][ii]
		}
	}

	t2 := t.Copy()
	t2.Vals = vals
	return t2
}

// Transpose returns a copy of the mask with the physical layout flipped.
func (m *Mask) Transpose() *Mask {
	if len(m.Vals) == 0 {
		return m.Copy()
	}

	vals := make([][]bool, len(m.Vals[0]))
	for ii := range vals {
		vals[ii] = make([]bool, len(m.Vals))
		for jj := range vals[ii] {
			vals[ii][jj] = m.Vals[jj][ii]
		}
	}

	m2 := m.Copy()
	m2.Vals = vals
	return m2
}

// checkShape panics when Vals does not match the labels under the given
// orientation. Shape mismatches are programming errors, not data errors.
func (t *Table) checkShape(axis Axis) {
	outer, inner := len(t.Dates), len(t.ColNames)
	if axis == AxisColumns {
		outer, inner = inner, outer
	}

	if len(t.Vals) != outer {
		log.Panic().Int("NumSlices", len(t.Vals)).Int("Expected", outer).
			Str("Axis", axis.String()).Msg("table values do not match labels")
	}
	for ii := range t.Vals {
		if len(t.Vals[ii]) != inner {
			log.Panic().Int("SliceLen", len(t.Vals[ii])).Int("Expected", inner).
				Str("Axis", axis.String()).Msg("table values do not match labels")
		}
	}
}

// ColSeries extracts one item's time series under the given orientation.
// Returns nil if the item does not exist.
func (t *Table) ColSeries(axis Axis, colName string) *Series {
	colIdx := t.ColIndex(colName)
	if colIdx == -1 {
		return nil
	}

	vals := make([]float64, t.Len())
	for p := 0; p < t.Len(); p++ {
		vals[p] = t.At(axis, p, colIdx)
	}

	return &Series{Dates: append([]time.Time{}, t.Dates...), Vals: vals}
}

// Table converts a series into a one-item table under the given orientation.
func (s *Series) Table(axis Axis, colName string) *Table {
	t := New(axis, s.Dates, []string{colName})
	for p := range s.Vals {
		t.Set(axis, p, 0, s.Vals[p])
	}
	return t
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	s2 := &Series{
		Dates: make([]time.Time, len(s.Dates)),
		Vals:  make([]float64, len(s.Vals)),
	}
	copy(s2.Dates, s.Dates)
	copy(s2.Vals, s.Vals)
	return s2
}

// Len returns the number of periods in the series.
func (s *Series) Len() int {
	return len(s.Dates)
}

// ReindexDates aligns the table onto a new set of time labels under the given
// orientation. Periods absent from the original table become NaN.
func (t *Table) ReindexDates(axis Axis, dates []time.Time) *Table {
	pos := make(map[time.Time]int, len(t.Dates))
	for idx, dt := range t.Dates {
		pos[dt] = idx
	}

	t2 := New(axis, dates, t.ColNames)
	for p, dt := range dates {
		srcIdx, ok := pos[dt]
		if !ok {
			continue
		}
		for i := range t.ColNames {
			t2.Set(axis, p, i, t.At(axis, srcIdx, i))
		}
	}

	return t2
}

// ReindexItems aligns the item axis onto a new set of item labels under the
// given orientation. Items absent from the original table become NaN.
func (t *Table) ReindexItems(axis Axis, colNames []string) *Table {
	pos := make(map[string]int, len(t.ColNames))
	for idx, name := range t.ColNames {
		pos[name] = idx
	}

	t2 := New(axis, t.Dates, colNames)
	for i, name := range colNames {
		srcIdx, ok := pos[name]
		if !ok {
			continue
		}
		for p := range t.Dates {
			t2.Set(axis, p, i, t.At(axis, p, srcIdx))
		}
	}

	return t2
}

// DropNaNRows removes every period that contains at least one NaN value.
func (t *Table) DropNaNRows(axis Axis) *Table {
	keepDates := make([]time.Time, 0, t.Len())
	keepIdx := make([]int, 0, t.Len())

	for p := range t.Dates {
		keep := true
		for i := range t.ColNames {
			if math.IsNaN(t.At(axis, p, i)) {
				keep = false
				break
			}
		}
		if keep {
			keepDates = append(keepDates, t.Dates[p])
			keepIdx = append(keepIdx, p)
		}
	}

	t2 := New(axis, keepDates, t.ColNames)
	for newP, oldP := range keepIdx {
		for i := range t.ColNames {
			t2.Set(axis, newP, i, t.At(axis, oldP, i))
		}
	}

	return t2
}

// Render prints an ASCII formatted table, always time-major for readability.
func (t *Table) Render(axis Axis) string {
	if len(t.Dates) == 0 {
		return "<NO DATA>"
	}

	tableCols := append([]string{"Date"}, t.ColNames...)

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(tableCols)
	footer := make([]string, len(tableCols))
	footer[0] = "Num Rows"
	footer[1] = fmt.Sprintf("%d", t.Len())
	table.SetFooter(footer)
	table.SetBorder(false)

	for p, dt := range t.Dates {
		row := make([]string, 0, len(t.ColNames)+1)
		row = append(row, dt.Format("2006-01-02"))
		for i := range t.ColNames {
			row = append(row, fmt.Sprintf("%.4f", t.At(axis, p, i)))
		}
		table.Append(row)
	}

	table.Render()
	return s.String()
}
