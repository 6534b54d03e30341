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

package hierarchy_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/statdex/priceindex/dataframe"
	"github.com/statdex/priceindex/hierarchy"
)

// A two-level classification: total, two divisions, two classes under the
// first division.
func testLabels() []hierarchy.Label {
	return []hierarchy.Label{
		{ID: "TOT", Name: "All items", Path: ""},
		{ID: "A", Name: "Goods", Path: "A"},
		{ID: "B", Name: "Services", Path: "B"},
		{ID: "A1", Name: "Food", Path: "A/A1"},
		{ID: "A2", Name: "Fuel", Path: "A/A2"},
	}
}

func nodeTable(axis dataframe.Axis, n int) *dataframe.Table {
	dates := make([]time.Time, n)
	for idx := range dates {
		dates[idx] = time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, idx, 0)
	}
	return dataframe.New(axis, dates, []string{"TOT", "A", "B", "A1", "A2"})
}

var _ = Describe("NewTree", func() {
	It("builds the classification from labels", func() {
		tree, err := hierarchy.NewTree(testLabels(), "/", true)
		Expect(err).To(BeNil())

		Expect(tree.ID).To(Equal("TOT"))
		Expect(tree.Children).To(HaveLen(2))
		Expect(tree.ChildIDs()["A"]).To(Equal([]string{"A1", "A2"}))
		Expect(tree.Leaves()).To(Equal([]string{"A1", "A2", "B"}))
		Expect(tree.NodesAtLevel(1)).To(Equal([]string{"A", "B"}))
	})

	It("rejects an empty label set", func() {
		_, err := hierarchy.NewTree(nil, "/", true)
		Expect(err).To(MatchError(hierarchy.ErrNoLabels))
	})

	It("rejects a label whose parent is missing", func() {
		labels := append(testLabels(), hierarchy.Label{ID: "X1", Name: "Orphan", Path: "X/X1"})
		_, err := hierarchy.NewTree(labels, "/", true)
		Expect(err).To(MatchError(hierarchy.ErrDanglingParent))
	})

	It("renders one indented line per node", func() {
		tree, err := hierarchy.NewTree(testLabels(), "/", true)
		Expect(err).To(BeNil())

		rendered := tree.Render()
		Expect(rendered).To(ContainSubstring("TOT  All items\n"))
		Expect(rendered).To(ContainSubstring("\t\tA1  Food\n"))
	})
})

var _ = Describe("rolling tables up the tree", func() {
	axis := dataframe.AxisIndex

	var tree *hierarchy.Node

	BeforeEach(func() {
		var err error
		tree, err = hierarchy.NewTree(testLabels(), "/", true)
		Expect(err).To(BeNil())
	})

	It("sums leaf values into every ancestor", func() {
		t := nodeTable(axis, 1)
		t.Set(axis, 0, t.ColIndex("A1"), 1)
		t.Set(axis, 0, t.ColIndex("A2"), 2)
		t.Set(axis, 0, t.ColIndex("B"), 3)

		summed, err := tree.SumChildren(t, axis)
		Expect(err).To(BeNil())

		Expect(summed.At(axis, 0, summed.ColIndex("A"))).To(Equal(3.0))
		Expect(summed.At(axis, 0, summed.ColIndex("TOT"))).To(Equal(6.0))
	})

	It("turns weights into shares of each parent", func() {
		w := nodeTable(axis, 1)
		w.Set(axis, 0, w.ColIndex("TOT"), 10)
		w.Set(axis, 0, w.ColIndex("A"), 6)
		w.Set(axis, 0, w.ColIndex("B"), 4)
		w.Set(axis, 0, w.ColIndex("A1"), 2)
		w.Set(axis, 0, w.ColIndex("A2"), 4)

		shares, err := tree.ChildShares(w, axis)
		Expect(err).To(BeNil())

		Expect(shares.At(axis, 0, shares.ColIndex("TOT"))).To(Equal(1.0))
		Expect(shares.At(axis, 0, shares.ColIndex("A"))).To(BeNumerically("~", 0.6, 1e-9))
		Expect(shares.At(axis, 0, shares.ColIndex("A1"))).To(BeNumerically("~", 2.0/6, 1e-9))
	})

	It("aggregates indices with per-parent weight shares", func() {
		t := nodeTable(axis, 1)
		t.Set(axis, 0, t.ColIndex("A1"), 100)
		t.Set(axis, 0, t.ColIndex("A2"), 130)
		t.Set(axis, 0, t.ColIndex("B"), 110)

		shares := nodeTable(axis, 1)
		shares.Set(axis, 0, shares.ColIndex("TOT"), 1)
		shares.Set(axis, 0, shares.ColIndex("A"), 0.6)
		shares.Set(axis, 0, shares.ColIndex("B"), 0.4)
		shares.Set(axis, 0, shares.ColIndex("A1"), 1.0/3)
		shares.Set(axis, 0, shares.ColIndex("A2"), 2.0/3)

		agg, err := tree.WeightedAggregate(t, shares, axis)
		Expect(err).To(BeNil())

		Expect(agg.At(axis, 0, agg.ColIndex("A"))).To(BeNumerically("~", 120, 1e-9))
		Expect(agg.At(axis, 0, agg.ColIndex("TOT"))).To(BeNumerically("~", 116, 1e-9))
	})

	It("chains every populated node index", func() {
		t := nodeTable(axis, 24)
		for p := 0; p < 24; p++ {
			for _, id := range []string{"TOT", "A", "B", "A1", "A2"} {
				t.Set(axis, p, t.ColIndex(id), 100)
			}
		}

		chained, err := tree.ChainIndices(t, axis)
		Expect(err).To(BeNil())

		for p := 0; p < 24; p++ {
			Expect(chained.At(axis, p, chained.ColIndex("TOT"))).To(BeNumerically("~", 100, 1e-9))
			Expect(chained.At(axis, p, chained.ColIndex("A1"))).To(BeNumerically("~", 100, 1e-9))
		}
	})

	It("expands leaf tables onto the full column set and sums up", func() {
		dates := []time.Time{time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC)}
		leaves := dataframe.New(axis, dates, []string{"A1", "A2", "B"})
		leaves.Set(axis, 0, 0, 1)
		leaves.Set(axis, 0, 1, 2)
		leaves.Set(axis, 0, 2, 3)

		headers := []string{"TOT", "A", "B", "A1", "A2"}
		summed, err := hierarchy.SumUpHierarchy(leaves, headers, tree, axis)
		Expect(err).To(BeNil())

		Expect(summed.At(axis, 0, summed.ColIndex("TOT"))).To(Equal(6.0))
		Expect(summed.At(axis, 0, summed.ColIndex("A"))).To(Equal(3.0))
	})
})
