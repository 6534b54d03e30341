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

// Package hierarchy models a goods classification as a tree and rolls item
// tables up through it.
package hierarchy

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/statdex/priceindex/aggregation"
	"github.com/statdex/priceindex/chaining"
	"github.com/statdex/priceindex/dataframe"
)

var (
	ErrNoLabels       = errors.New("a classification needs at least a root label")
	ErrMissingColumn  = errors.New("table has no column for classification node")
	ErrDanglingParent = errors.New("classification path has no parent node")
)

// Label describes one classification node: its identifier, display name, and
// slash-style path locating it under the root.
type Label struct {
	ID   string
	Name string
	Path string
}

// Node is one vertex of the classification tree.
type Node struct {
	ID       string
	Name     string
	Level    int
	Parent   *Node
	Children []*Node
}

// NewTree builds the classification tree from labels. The first label is the
// root; every other label hangs off the node whose path components prefix its
// own. With rootLevelSameAsChildren the root's direct children share the
// root's depth in their paths instead of sitting one component deeper.
func NewTree(labels []Label, separator string, rootLevelSameAsChildren bool) (*Node, error) {
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}

	root := &Node{ID: labels[0].ID, Name: labels[0].Name}

	type entry struct {
		label Label
		parts []string
		depth int
	}
	entries := make([]entry, 0, len(labels)-1)
	maxDepth := 0
	for _, l := range labels[1:] {
		parts := strings.Split(l.Path, separator)
		depth := len(parts)
		if !rootLevelSameAsChildren {
			depth--
		}
		entries = append(entries, entry{label: l, parts: parts, depth: depth})
		if depth > maxDepth {
			maxDepth = depth
		}
	}

	// Attach level by level so every parent exists before its children.
	byID := map[string]*Node{root.ID: root}
	byPath := map[string]*Node{"": root}
	for depth := 1; depth <= maxDepth; depth++ {
		for _, e := range entries {
			if e.depth != depth {
				continue
			}

			parentPath := strings.Join(e.parts[:len(e.parts)-1], separator)
			parent := byPath[parentPath]
			if depth == 1 {
				parent = root
			}
			if parent == nil {
				return nil, fmt.Errorf("%w: %q", ErrDanglingParent, e.label.Path)
			}

			node := &Node{
				ID:     e.label.ID,
				Name:   e.label.Name,
				Level:  depth,
				Parent: parent,
			}
			parent.Children = append(parent.Children, node)
			byID[node.ID] = node
			byPath[strings.Join(e.parts, separator)] = node
		}
	}

	return root, nil
}

// ChildIDs maps every node identifier in the subtree to the identifiers of
// its direct children. Leaves map to an empty slice.
func (n *Node) ChildIDs() map[string][]string {
	ids := make(map[string][]string)
	n.walk(func(node *Node) {
		children := make([]string, 0, len(node.Children))
		for _, c := range node.Children {
			children = append(children, c.ID)
		}
		ids[node.ID] = children
	})
	return ids
}

// Leaves returns the identifiers of the childless nodes, depth-first.
func (n *Node) Leaves() []string {
	leaves := make([]string, 0)
	n.walk(func(node *Node) {
		if len(node.Children) == 0 {
			leaves = append(leaves, node.ID)
		}
	})
	return leaves
}

// NodesAtLevel returns the identifiers of the nodes at the given depth,
// depth-first.
func (n *Node) NodesAtLevel(level int) []string {
	ids := make([]string, 0)
	n.walk(func(node *Node) {
		if node.Level == level {
			ids = append(ids, node.ID)
		}
	})
	return ids
}

// Render draws the subtree one node per line, indented by depth.
func (n *Node) Render() string {
	s := &strings.Builder{}
	n.walk(func(node *Node) {
		fmt.Fprintf(s, "%s%s  %s\n", strings.Repeat("\t", node.Level), node.ID, node.Name)
	})
	return s.String()
}

// SumChildren fills every parent column with the sum of its children,
// deepest parents first, so each level accumulates the one below it. The
// table needs one column per node; missing values count as zero.
func (n *Node) SumChildren(t *dataframe.Table, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	t2 := t.Copy()
	return t2, n.postOrder(func(node *Node) error {
		if len(node.Children) == 0 {
			return nil
		}

		colIdx, childIdx, err := nodeColumns(t2, node)
		if err != nil {
			return err
		}
		for p := 0; p < t2.Len(); p++ {
			sum := 0.0
			for _, ci := range childIdx {
				if v := t2.At(axis, p, ci); !math.IsNaN(v) {
					sum += v
				}
			}
			t2.Set(axis, p, colIdx, sum)
		}
		return nil
	})
}

// ChildShares converts absolute weights into each node's share of its
// parent's weight. The root becomes its own share of itself: one, or NaN for
// a zero root.
func (n *Node) ChildShares(w *dataframe.Table, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	shares := w.Copy()
	return shares, n.postOrder(func(node *Node) error {
		colIdx := w.ColIndex(node.ID)
		if colIdx == -1 {
			return fmt.Errorf("%w: %q", ErrMissingColumn, node.ID)
		}

		parentIdx := colIdx
		if node.Parent != nil {
			if parentIdx = w.ColIndex(node.Parent.ID); parentIdx == -1 {
				return fmt.Errorf("%w: %q", ErrMissingColumn, node.Parent.ID)
			}
		}

		for p := 0; p < w.Len(); p++ {
			shares.Set(axis, p, colIdx, w.At(axis, p, colIdx)/w.At(axis, p, parentIdx))
		}
		return nil
	})
}

// WeightedAggregate fills every parent column with the weighted mean of its
// children, deepest parents first, using the per-parent shares from
// ChildShares.
func (n *Node) WeightedAggregate(t, shares *dataframe.Table, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	t2 := t.Copy()
	return t2, n.postOrder(func(node *Node) error {
		if len(node.Children) == 0 {
			return nil
		}

		colIdx, _, err := nodeColumns(t2, node)
		if err != nil {
			return err
		}

		childIDs := make([]string, 0, len(node.Children))
		for _, c := range node.Children {
			childIDs = append(childIDs, c.ID)
		}

		sub := t2.ReindexItems(axis, childIDs)
		subShares := shares.ReindexItems(axis, childIDs)
		agg, err := aggregation.Aggregate(sub, subShares, aggregation.Mean, axis)
		if err != nil {
			return err
		}

		for p := 0; p < t2.Len(); p++ {
			t2.Set(axis, p, colIdx, agg.Vals[p])
		}
		return nil
	})
}

// ChainIndices chains every non-zero column of unchained node indices:
// parents with a double annual link, leaves with a single one.
func (n *Node) ChainIndices(t *dataframe.Table, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	t2 := t.Copy()
	return t2, n.postOrder(func(node *Node) error {
		colIdx := t2.ColIndex(node.ID)
		if colIdx == -1 {
			return fmt.Errorf("%w: %q", ErrMissingColumn, node.ID)
		}

		col := t2.ColSeries(axis, node.ID)
		if allZero(col.Vals) {
			return nil
		}

		chained, err := chaining.ChainSeries(col, len(node.Children) > 0, nil)
		if err != nil {
			return err
		}
		for p := 0; p < t2.Len(); p++ {
			t2.Set(axis, p, colIdx, chained.Vals[p])
		}
		return nil
	})
}

// SumUpHierarchy expands leaf values onto the full classification column set
// and sums them up through the tree.
func SumUpHierarchy(t *dataframe.Table, headers []string, tree *Node, axis dataframe.Axis) (*dataframe.Table, error) {
	expanded, err := aggregation.ExpandFullStructure(t, headers, axis)
	if err != nil {
		return nil, err
	}
	return tree.SumChildren(expanded, axis)
}

// walk visits the subtree pre-order, parent before children.
func (n *Node) walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		c.walk(visit)
	}
}

// postOrder visits the subtree children-first, stopping on the first error.
func (n *Node) postOrder(visit func(*Node) error) error {
	for _, c := range n.Children {
		if err := c.postOrder(visit); err != nil {
			return err
		}
	}
	return visit(n)
}

func nodeColumns(t *dataframe.Table, node *Node) (int, []int, error) {
	colIdx := t.ColIndex(node.ID)
	if colIdx == -1 {
		return 0, nil, fmt.Errorf("%w: %q", ErrMissingColumn, node.ID)
	}

	childIdx := make([]int, 0, len(node.Children))
	for _, c := range node.Children {
		ci := t.ColIndex(c.ID)
		if ci == -1 {
			return 0, nil, fmt.Errorf("%w: %q", ErrMissingColumn, c.ID)
		}
		childIdx = append(childIdx, ci)
	}
	return colIdx, childIdx, nil
}

func allZero(vals []float64) bool {
	for _, v := range vals {
		if v != 0 && !math.IsNaN(v) {
			return false
		}
	}
	return true
}
