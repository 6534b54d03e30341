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
	"errors"
	"fmt"
	"time"
)

var ErrInvalidBasePeriod = errors.New("base period outside the valid calendar range")

// ValidateBasePeriods checks explicit base periods against the calendar
// range of the cadence: [1,12] for monthly series, [1,4] for quarterly.
func ValidateBasePeriods(basePeriods []int, freq Frequency) error {
	max := 12
	if freq == Quarterly {
		max = 4
	}

	for _, bp := range basePeriods {
		if bp < 1 || bp > max {
			return fmt.Errorf("%w: %s base periods must be between 1 and %d, got %d",
				ErrInvalidBasePeriod, freq, max, bp)
		}
	}
	return nil
}

// DetectFrequency establishes whether the time labels form a monthly or
// quarterly cadence from their spacing. Anything else is an error: guessing
// the cadence would silently corrupt downstream calendar logic.
func DetectFrequency(dates []time.Time) (Frequency, error) {
	if len(dates) < 2 {
		return "", ErrCannotDetectFrequency
	}

	step := monthsBetween(dates[0], dates[1])
	for idx := 1; idx < len(dates); idx++ {
		if monthsBetween(dates[idx-1], dates[idx]) != step {
			return "", ErrCannotDetectFrequency
		}
	}

	switch step {
	case 1:
		return Monthly, nil
	case 3:
		return Quarterly, nil
	}
	return "", ErrCannotDetectFrequency
}

// PeriodPositions maps each time label to its calendar position within the
// year: the month number [1,12] for monthly series or the quarter number
// [1,4] for quarterly series.
func PeriodPositions(dates []time.Time, freq Frequency) []int {
	positions := make([]int, len(dates))
	for idx, dt := range dates {
		if freq == Quarterly {
			positions[idx] = (int(dt.Month())-1)/3 + 1
		} else {
			positions[idx] = int(dt.Month())
		}
	}
	return positions
}

// YearSegments splits the time axis into contiguous calendar-year windows,
// returned as half-open [start, end) index pairs.
func YearSegments(dates []time.Time) [][2]int {
	segments := make([][2]int, 0)
	if len(dates) == 0 {
		return segments
	}

	start := 0
	for idx := 1; idx < len(dates); idx++ {
		if dates[idx].Year() != dates[start].Year() {
			segments = append(segments, [2]int{start, idx})
			start = idx
		}
	}
	return append(segments, [2]int{start, len(dates)})
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
