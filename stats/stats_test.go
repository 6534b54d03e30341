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

package stats_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/statdex/priceindex/dataframe"
	"github.com/statdex/priceindex/stats"
	"github.com/statdex/priceindex/weights"
)

func monthly(year int, month time.Month, n int) []time.Time {
	dates := make([]time.Time, n)
	for idx := range dates {
		dates[idx] = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, idx, 0)
	}
	return dates
}

var _ = Describe("JanAdjustment", func() {
	axis := dataframe.AxisIndex

	var t *dataframe.Table

	BeforeEach(func() {
		t = dataframe.New(axis, monthly(2012, time.January, 24), []string{"a"})
		for p := 0; p < 24; p++ {
			t.Set(axis, p, 0, 100+float64(p))
		}
	})

	It("rescales each January against the preceding December", func() {
		adjusted, err := stats.JanAdjustment(t, weights.Forward, axis)
		Expect(err).To(BeNil())

		// January 2013 is 112 on a December of 111.
		Expect(adjusted.At(axis, 12, 0)).To(BeNumerically("~", 112.0/111*100, 1e-9))
		// The opening January and everything else stay put.
		Expect(adjusted.At(axis, 0, 0)).To(Equal(100.0))
		Expect(adjusted.At(axis, 13, 0)).To(Equal(113.0))
	})

	It("round trips through the back adjustment", func() {
		forward, err := stats.JanAdjustment(t, weights.Forward, axis)
		Expect(err).To(BeNil())

		back, err := stats.JanAdjustment(forward, weights.Back, axis)
		Expect(err).To(BeNil())

		for p := 0; p < 24; p++ {
			Expect(back.At(axis, p, 0)).To(BeNumerically("~", t.At(axis, p, 0), 1e-9))
		}
	})

	It("marks a January without a December as missing", func() {
		dates := []time.Time{
			time.Date(2012, time.November, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2013, time.January, 1, 0, 0, 0, 0, time.UTC),
		}
		gappy := dataframe.New(axis, dates, []string{"a"})
		gappy.Set(axis, 0, 0, 100)
		gappy.Set(axis, 1, 0, 105)

		adjusted, err := stats.JanAdjustment(gappy, weights.Forward, axis)
		Expect(err).To(BeNil())
		Expect(math.IsNaN(adjusted.At(axis, 1, 0))).To(BeTrue())
	})

	It("rejects unknown directions", func() {
		_, err := stats.JanAdjustment(t, weights.Direction(99), axis)
		Expect(err).To(MatchError(weights.ErrInvalidDirection))
	})
})

var _ = Describe("IndexAndGrowthStats", func() {
	axis := dataframe.AxisIndex

	It("chains, references and derives growth", func() {
		// Unchained index growing half a percent a month on the previous
		// January's base; each January after the first carries the closing
		// value of the old year.
		index := dataframe.New(axis, monthly(2012, time.January, 24), []string{"a"})
		for p := 0; p < 24; p++ {
			pos := p % 12
			switch {
			case p == 0:
				index.Set(axis, p, 0, 100)
			case pos == 0:
				index.Set(axis, p, 0, 100*math.Pow(1.005, 12))
			default:
				index.Set(axis, p, 0, 100*math.Pow(1.005, float64(pos)))
			}
		}

		bundle, err := stats.IndexAndGrowthStats(index, "2012", false, axis)
		Expect(err).To(BeNil())

		Expect(bundle.Unchained.Len()).To(Equal(24))

		// Referenced index averages 100 over the reference year.
		sum := 0.0
		for p := 0; p < 12; p++ {
			sum += bundle.Referenced.At(axis, p, 0)
		}
		Expect(sum / 12).To(BeNumerically("~", 100, 1e-9))

		// Growth drops the warm-up year and shows the steady annual rate.
		Expect(bundle.Growth.Len()).To(Equal(12))
		annual := (math.Pow(1.005, 12) - 1) * 100
		Expect(bundle.Growth.At(axis, 0, 0)).To(BeNumerically("~", annual, 1e-6))
	})
})

var _ = Describe("ReferenceTables", func() {
	axis := dataframe.AxisIndex

	It("compiles the full publication bundle", func() {
		dates := monthly(2012, time.January, 24)
		sub := dataframe.New(axis, dates, []string{"a", "b"})
		shares := dataframe.New(axis, dates, sub.ColNames)
		headline := &dataframe.Series{Dates: dates, Vals: make([]float64, 24)}

		for p := 0; p < 24; p++ {
			sub.Set(axis, p, 0, 100)
			sub.Set(axis, p, 1, 100)
			shares.Set(axis, p, 0, 0.6)
			shares.Set(axis, p, 1, 0.4)
			headline.Vals[p] = 100
		}

		bundle, err := stats.ReferenceTables(sub, headline, shares, "2012", axis, stats.Options{})
		Expect(err).To(BeNil())

		// Weight shares publish as parts per hundred by default.
		Expect(bundle.Weights.At(axis, 0, 0)).To(BeNumerically("~", 60, 1e-9))
		Expect(bundle.Weights.At(axis, 0, 1)).To(BeNumerically("~", 40, 1e-9))

		Expect(bundle.Sub.Referenced.At(axis, 0, 0)).To(BeNumerically("~", 100, 1e-9))
		Expect(bundle.Headline.Growth.Len()).To(Equal(12))

		// A flat headline decomposes into zero contributions.
		Expect(bundle.Contributions.Len()).To(Equal(12))
		for p := 0; p < bundle.Contributions.Len(); p++ {
			for i := 0; i < bundle.Contributions.ColCount(); i++ {
				Expect(bundle.Contributions.At(axis, p, i)).To(BeNumerically("~", 0, 1e-9))
			}
		}
	})
})
