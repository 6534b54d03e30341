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

package rounding_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/statdex/priceindex/dataframe"
	"github.com/statdex/priceindex/rounding"
)

var _ = Describe("RoundAndAdjustSeries", func() {
	It("preserves the sum when plain rounding would lose it", func() {
		s := &dataframe.Series{
			Dates: []time.Time{{}, {}, {}},
			Vals:  []float64{33.3333, 33.3333, 33.3334},
		}

		rounded := rounding.RoundAndAdjustSeries(s, 1)

		sum := 0.0
		for _, v := range rounded.Vals {
			sum += v
		}
		Expect(sum).To(BeNumerically("~", 100, 1e-9))
	})

	It("adjusts the entries with the largest rounding error first", func() {
		s := &dataframe.Series{
			Dates: []time.Time{{}, {}, {}},
			Vals:  []float64{0.15, 0.25, 0.6},
		}

		rounded := rounding.RoundAndAdjustSeries(s, 1)

		sum := 0.0
		for _, v := range rounded.Vals {
			sum += v
		}
		Expect(sum).To(BeNumerically("~", 1, 1e-9))
		// 0.6 is exact and must not move.
		Expect(rounded.Vals[2]).To(BeNumerically("~", 0.6, 1e-9))
	})

	It("leaves exact values untouched", func() {
		s := &dataframe.Series{
			Dates: []time.Time{{}, {}},
			Vals:  []float64{40.0, 60.0},
		}

		rounded := rounding.RoundAndAdjustSeries(s, 0)
		Expect(rounded.Vals[0]).To(Equal(40.0))
		Expect(rounded.Vals[1]).To(Equal(60.0))
	})
})

var _ = Describe("RoundAndAdjust", func() {
	axis := dataframe.AxisIndex

	It("preserves every period's sum across items", func() {
		dates := []time.Time{
			time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2012, time.February, 1, 0, 0, 0, 0, time.UTC),
		}
		t := dataframe.New(axis, dates, []string{"a", "b", "c"})
		vals := [][]float64{{33.3333, 33.3333, 33.3334}, {12.345, 43.215, 44.44}}
		for p, row := range vals {
			for i, v := range row {
				t.Set(axis, p, i, v)
			}
		}

		rounded, err := rounding.RoundAndAdjust(t, 2, axis)
		Expect(err).To(BeNil())

		for p := 0; p < t.Len(); p++ {
			raw, adj := 0.0, 0.0
			for i := 0; i < t.ColCount(); i++ {
				raw += t.At(axis, p, i)
				adj += rounded.At(axis, p, i)
			}
			Expect(adj).To(BeNumerically("~", math.Round(raw*100)/100, 1e-9))
		}
	})

	It("skips missing values", func() {
		dates := []time.Time{time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC)}
		t := dataframe.New(axis, dates, []string{"a", "b"})
		t.Set(axis, 0, 0, 1.005)

		rounded, err := rounding.RoundAndAdjust(t, 2, axis)
		Expect(err).To(BeNil())
		Expect(math.IsNaN(rounded.At(axis, 0, 1))).To(BeTrue())
	})
})
