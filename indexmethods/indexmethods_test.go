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

package indexmethods_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/statdex/priceindex/dataframe"
	"github.com/statdex/priceindex/indexmethods"
)

func monthly(year int, month time.Month, n int) []time.Time {
	dates := make([]time.Time, n)
	for idx := range dates {
		dates[idx] = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, idx, 0)
	}
	return dates
}

func tableOf(axis dataframe.Axis, dates []time.Time, colNames []string, rows [][]float64) *dataframe.Table {
	t := dataframe.New(axis, dates, colNames)
	for p, row := range rows {
		for i, v := range row {
			t.Set(axis, p, i, v)
		}
	}
	return t
}

var _ = Describe("CalculateIndex", func() {
	axis := dataframe.AxisIndex
	nan := math.NaN()

	It("computes the dutot index from the price means", func() {
		prices := tableOf(axis, monthly(2012, time.January, 1), []string{"a", "b"},
			[][]float64{{10, 10}})
		basePrices := tableOf(axis, prices.Dates, prices.ColNames,
			[][]float64{{5, 15}})

		index, err := indexmethods.CalculateIndex(prices, basePrices, indexmethods.Dutot, nil, axis)
		Expect(err).To(BeNil())
		Expect(index.Vals[0]).To(BeNumerically("~", 100, 1e-9))
	})

	It("computes the jevons index as the geometric mean of relatives", func() {
		prices := tableOf(axis, monthly(2012, time.January, 1), []string{"a", "b"},
			[][]float64{{20, 40}})
		basePrices := tableOf(axis, prices.Dates, prices.ColNames,
			[][]float64{{10, 10}})

		index, err := indexmethods.CalculateIndex(prices, basePrices, indexmethods.Jevons, nil, axis)
		Expect(err).To(BeNil())
		// sqrt(2 * 4) * 100
		Expect(index.Vals[0]).To(BeNumerically("~", math.Sqrt(8)*100, 1e-9))
	})

	It("computes the carli index as the arithmetic mean of relatives", func() {
		prices := tableOf(axis, monthly(2012, time.January, 1), []string{"a", "b"},
			[][]float64{{20, 40}})
		basePrices := tableOf(axis, prices.Dates, prices.ColNames,
			[][]float64{{10, 10}})

		index, err := indexmethods.CalculateIndex(prices, basePrices, indexmethods.Carli, nil, axis)
		Expect(err).To(BeNil())
		Expect(index.Vals[0]).To(BeNumerically("~", 300, 1e-9))
	})

	It("computes the laspeyres index as the weighted mean of relatives", func() {
		prices := tableOf(axis, monthly(2012, time.January, 1), []string{"a", "b"},
			[][]float64{{11, 10}})
		basePrices := tableOf(axis, prices.Dates, prices.ColNames,
			[][]float64{{10, 10}})
		w := tableOf(axis, prices.Dates, prices.ColNames, [][]float64{{3, 1}})

		index, err := indexmethods.CalculateIndex(prices, basePrices, indexmethods.Laspeyres, w, axis)
		Expect(err).To(BeNil())
		// 0.75*1.1 + 0.25*1.0 = 1.075
		Expect(index.Vals[0]).To(BeNumerically("~", 107.5, 1e-9))
	})

	It("requires weights for the weighted methods", func() {
		prices := tableOf(axis, monthly(2012, time.January, 1), []string{"a"}, [][]float64{{10}})

		_, err := indexmethods.CalculateIndex(prices, prices, indexmethods.Laspeyres, nil, axis)
		Expect(err).To(MatchError(indexmethods.ErrWeightsRequired))
		_, err = indexmethods.CalculateIndex(prices, prices, indexmethods.GeometricLaspeyres, nil, axis)
		Expect(err).To(MatchError(indexmethods.ErrWeightsRequired))
	})

	It("rejects unknown method names", func() {
		_, err := indexmethods.ParseMethod("fisher")
		Expect(err).To(MatchError(indexmethods.ErrUnknownMethod))
	})

	Describe("GeoMean", func() {
		It("divides the log-product by the count of present values only", func() {
			t := tableOf(axis, monthly(2012, time.January, 1), []string{"a", "b", "c"},
				[][]float64{{2, 8, nan}})
			two := tableOf(axis, t.Dates, []string{"a", "b"}, [][]float64{{2, 8}})

			withMissing := indexmethods.GeoMean(t, axis)
			direct := indexmethods.GeoMean(two, axis)

			Expect(withMissing.Vals[0]).To(BeNumerically("~", 4, 1e-9))
			Expect(withMissing.Vals[0]).To(BeNumerically("~", direct.Vals[0], 1e-12))
		})

		It("yields missing for an all-missing period", func() {
			t := tableOf(axis, monthly(2012, time.January, 1), []string{"a", "b"},
				[][]float64{{nan, nan}})
			Expect(math.IsNaN(indexmethods.GeoMean(t, axis).Vals[0])).To(BeTrue())
		})
	})
})
