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

// Package stats compiles the publication bundle for reference tables:
// chained and referenced indices, year-on-year growth, weights and
// contributions.
package stats

import (
	"math"
	"time"

	"github.com/statdex/priceindex/chaining"
	"github.com/statdex/priceindex/contributions"
	"github.com/statdex/priceindex/dataframe"
	"github.com/statdex/priceindex/reference"
	"github.com/statdex/priceindex/weights"
)

// IndexGrowthStats bundles the publication views of one unchained index
// table.
type IndexGrowthStats struct {
	// Unchained is the input index, untouched.
	Unchained *dataframe.Table

	// Referenced is the chained index rescaled to the reference period.
	Referenced *dataframe.Table

	// Growth is the twelve-period growth of the chained index in percent,
	// with the warm-up year dropped.
	Growth *dataframe.Table
}

// ReferenceTableStats is the full unrounded publication bundle.
type ReferenceTableStats struct {
	// Weights are the weight shares scaled to parts-per.
	Weights *dataframe.Table

	// Sub covers the published sub-indices, Headline the aggregate.
	Sub      *IndexGrowthStats
	Headline *IndexGrowthStats

	// Contributions decomposes headline growth per sub-index.
	Contributions *dataframe.Table
}

// Options tunes ReferenceTables.
type Options struct {
	// DoubleLink switches the contribution decomposition to the
	// December/January double-update timing.
	DoubleLink bool

	// DoubleUpdateStartYear, when set with DoubleLink, marks the year the
	// double update began; earlier periods are decomposed with
	// single-update timing.
	DoubleUpdateStartYear int

	// PartsPer scales the published weight shares; defaults to 100.
	PartsPer float64
}

// IndexAndGrowthStats chains an unchained index, rescales it to the
// reference period, and derives its year-on-year growth.
func IndexAndGrowthStats(index *dataframe.Table, referencePeriod string, doubleLink bool, axis dataframe.Axis) (*IndexGrowthStats, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	chained, err := chaining.Chain(index, doubleLink, nil, axis)
	if err != nil {
		return nil, err
	}

	referenced, err := reference.SetReferencePeriod(chained, referencePeriod, axis)
	if err != nil {
		return nil, err
	}

	return &IndexGrowthStats{
		Unchained:  index.Copy(),
		Referenced: referenced,
		Growth:     chained.PctChange(axis, 12).MulScalar(axis, 100).DropNaNRows(axis),
	}, nil
}

// ReferenceTables compiles the unrounded reference-table statistics from the
// published sub-indices, the headline aggregate and the weight shares.
func ReferenceTables(subIndices *dataframe.Table, headline *dataframe.Series, weightShares *dataframe.Table, referencePeriod string, axis dataframe.Axis, opts Options) (*ReferenceTableStats, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	partsPer := opts.PartsPer
	if partsPer == 0 {
		partsPer = 100
	}

	sub, err := IndexAndGrowthStats(subIndices, referencePeriod, false, axis)
	if err != nil {
		return nil, err
	}
	headlineStats, err := IndexAndGrowthStats(headline.Table(axis, "headline"), referencePeriod, false, axis)
	if err != nil {
		return nil, err
	}

	var contrib *dataframe.Table
	switch {
	case opts.DoubleLink && opts.DoubleUpdateStartYear > 0:
		contrib, err = contributions.ContributionsWithDoubleUpdate(
			subIndices, weightShares, headline, opts.DoubleUpdateStartYear, axis)
	case opts.DoubleLink:
		contrib, err = contributions.Contributions(subIndices, weightShares, headline, true, axis)
	default:
		contrib, err = contributions.Contributions(subIndices, weightShares, headline, false, axis)
	}
	if err != nil {
		return nil, err
	}

	return &ReferenceTableStats{
		Weights:       weightShares.MulScalar(axis, partsPer),
		Sub:           sub,
		Headline:      headlineStats,
		Contributions: contrib,
	}, nil
}

// JanAdjustment rescales every January value after the first year against
// the preceding December: forward divides by December and scales to 100,
// back multiplies the division out again. A January without a preceding
// December on the axis becomes NaN.
func JanAdjustment(t *dataframe.Table, direction weights.Direction, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}
	if direction != weights.Forward && direction != weights.Back {
		return nil, weights.ErrInvalidDirection
	}

	t2 := t.Copy()
	if t.Len() == 0 {
		return t2, nil
	}

	firstYear := t.Dates[0].Year()
	for p, dt := range t.Dates {
		if dt.Month() != time.January || dt.Year() == firstYear {
			continue
		}

		for i := 0; i < t.ColCount(); i++ {
			if p == 0 || t.Dates[p-1].Month() != time.December {
				t2.Set(axis, p, i, math.NaN())
				continue
			}

			jan := t.At(axis, p, i)
			dec := t.At(axis, p-1, i)
			if direction == weights.Forward {
				t2.Set(axis, p, i, jan/dec*100)
			} else {
				t2.Set(axis, p, i, jan*dec/100)
			}
		}
	}

	return t2, nil
}
