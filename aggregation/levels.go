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

package aggregation

import (
	"errors"
	"fmt"

	"github.com/statdex/priceindex/dataframe"
)

var ErrMissingGroupLabel = errors.New("item has no grouping label")

// LevelLabels gives, for every leaf item, its ancestor code at each
// hierarchy level, coarsest level first. The leaf level itself is implicit
// in the item names and is never listed.
type LevelLabels struct {
	Items  []string
	Levels [][]string
}

// AggregateLevel groups component items by the given grouping key and
// aggregates each group independently, producing one parent column per
// group. The raw weights are summed into the same groups so the result can
// feed another aggregation round.
func AggregateLevel(components, w *dataframe.Table, groups map[string]string, method Method, axis dataframe.Axis) (*dataframe.Table, *dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, nil, err
	}

	// Group columns in order of first appearance.
	order := make([]string, 0)
	members := make(map[string][]string)
	for _, item := range components.ColNames {
		g, ok := groups[item]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrMissingGroupLabel, item)
		}
		if _, seen := members[g]; !seen {
			order = append(order, g)
		}
		members[g] = append(members[g], item)
	}

	parent := dataframe.New(axis, components.Dates, order)
	parentW := dataframe.New(axis, w.Dates, order)

	for gIdx, g := range order {
		sub := subsetItems(components, members[g], axis)
		subW := subsetItems(w, members[g], axis)

		agg, err := Aggregate(sub, subW, method, axis)
		if err != nil {
			return nil, nil, err
		}
		for p := range agg.Vals {
			parent.Set(axis, p, gIdx, agg.Vals[p])
		}

		summed := subW.SumItems(axis, 1)
		for p := range summed.Vals {
			parentW.Set(axis, p, gIdx, summed.Vals[p])
		}
	}

	return parent, parentW, nil
}

// AggregateUpHierarchy aggregates leaf components one hierarchy level at a
// time, coarsest grouping last, summing weights into each coarser grouping
// as it goes. The result maps each hierarchy level to its aggregated table;
// the leaf level is never aggregated and is omitted.
func AggregateUpHierarchy(components, w *dataframe.Table, labels *LevelLabels, method Method, axis dataframe.Axis) (map[int]*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	results := make(map[int]*dataframe.Table, len(labels.Levels))

	cur, curW := components, w
	for level := len(labels.Levels) - 1; level >= 0; level-- {
		groups, err := parentGroups(labels, level)
		if err != nil {
			return nil, err
		}

		cur, curW, err = AggregateLevel(cur, curW, groups, method, axis)
		if err != nil {
			return nil, err
		}
		results[level] = cur
	}

	return results, nil
}

// parentGroups maps each code one level below the given level to its parent
// code at that level. Below the deepest listed level sit the leaf items.
func parentGroups(labels *LevelLabels, level int) (map[string]string, error) {
	groups := make(map[string]string, len(labels.Items))

	for idx, item := range labels.Items {
		child := item
		if level < len(labels.Levels)-1 {
			child = labels.Levels[level+1][idx]
		}
		parent := labels.Levels[level][idx]

		if existing, ok := groups[child]; ok && existing != parent {
			return nil, fmt.Errorf("%w: %q maps to both %q and %q",
				dataframe.ErrLabelsNotAligned, child, existing, parent)
		}
		groups[child] = parent
	}

	return groups, nil
}
