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

package reference_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/statdex/priceindex/dataframe"
	"github.com/statdex/priceindex/reference"
)

func monthly(year int, month time.Month, n int) []time.Time {
	dates := make([]time.Time, n)
	for idx := range dates {
		dates[idx] = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, idx, 0)
	}
	return dates
}

var _ = Describe("SetReferencePeriod", func() {
	axis := dataframe.AxisIndex

	var index *dataframe.Table

	BeforeEach(func() {
		index = dataframe.New(axis, monthly(2012, time.January, 12), []string{"a"})
		for p := 0; p < 12; p++ {
			index.Set(axis, p, 0, 100+float64(p))
		}
	})

	It("rescales against a single month", func() {
		referenced, err := reference.SetReferencePeriod(index, "2012-03", axis)
		Expect(err).To(BeNil())

		// March becomes 100, everything else scales with it.
		Expect(referenced.At(axis, 2, 0)).To(BeNumerically("~", 100, 1e-9))
		Expect(referenced.At(axis, 0, 0)).To(BeNumerically("~", 100.0/102*100, 1e-9))
	})

	It("rescales against an annual mean", func() {
		referenced, err := reference.SetReferencePeriod(index, "2012", axis)
		Expect(err).To(BeNil())

		sum := 0.0
		for p := 0; p < 12; p++ {
			sum += referenced.At(axis, p, 0)
		}
		Expect(sum / 12).To(BeNumerically("~", 100, 1e-9))
	})

	It("rejects periods outside the time axis", func() {
		_, err := reference.SetReferencePeriod(index, "2020", axis)
		Expect(err).To(MatchError(reference.ErrReferencePeriodNotFound))
	})

	It("rejects malformed periods", func() {
		_, err := reference.SetReferencePeriod(index, "march", axis)
		Expect(err).To(MatchError(reference.ErrReferencePeriodNotFound))
	})
})

var _ = Describe("SetIndexRange", func() {
	axis := dataframe.AxisIndex

	It("cuts to the range and pins the first period", func() {
		index := dataframe.New(axis, monthly(2012, time.January, 12), []string{"a"})
		for p := 0; p < 12; p++ {
			index.Set(axis, p, 0, 100+float64(p))
		}

		start := time.Date(2012, time.March, 1, 0, 0, 0, 0, time.UTC)
		cut, err := reference.SetIndexRange(index, start, time.Time{}, axis)
		Expect(err).To(BeNil())

		Expect(cut.Len()).To(Equal(10))
		Expect(cut.At(axis, 0, 0)).To(Equal(100.0))
		Expect(cut.At(axis, 1, 0)).To(Equal(103.0))
	})

	It("rejects an empty range", func() {
		index := dataframe.New(axis, monthly(2012, time.January, 12), []string{"a"})
		start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

		_, err := reference.SetIndexRange(index, start, time.Time{}, axis)
		Expect(err).To(MatchError(reference.ErrStartNotInIndex))
	})
})

var _ = Describe("in-year splitting", func() {
	axis := dataframe.AxisIndex

	var index *dataframe.Table

	BeforeEach(func() {
		index = dataframe.New(axis, monthly(2012, time.January, 24), []string{"a"})
		for p := 0; p < 24; p++ {
			index.Set(axis, p, 0, 100+float64(p))
		}
	})

	It("produces one segment per year, each reopened at 100", func() {
		segments, err := reference.FullIndexToInYearIndices(index, axis)
		Expect(err).To(BeNil())

		Expect(segments).To(HaveLen(2))
		// The 2012 segment runs through to the January 2013 link period.
		Expect(segments[2012].Len()).To(Equal(13))
		Expect(segments[2013].Len()).To(Equal(12))
		Expect(segments[2013].At(axis, 0, 0)).To(Equal(100.0))
	})

	It("joins segments back without duplicate link periods", func() {
		segments, err := reference.FullIndexToInYearIndices(index, axis)
		Expect(err).To(BeNil())

		full, err := reference.InYearIndicesToFullIndex(segments, axis)
		Expect(err).To(BeNil())

		Expect(full.Len()).To(Equal(24))
		// January 2013 survives from the 2012 segment, not its rebased twin.
		Expect(full.Dates[12].Month()).To(Equal(time.January))
		Expect(full.At(axis, 12, 0)).To(Equal(112.0))
		Expect(full.At(axis, 13, 0)).To(Equal(113.0))
	})
})
