// Package dataset provides the in-memory data containers consumed by the
// evaluation harness and the ensemble forecaster. A Panel stores one
// equal-length univariate series per instance and a Table stores one target
// label per instance, aligned by position.
package dataset

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNoInstances         = errors.New("panel has no instances")
	ErrRaggedPanel         = errors.New("panel instances have differing series lengths")
	ErrDuplicateInstance   = errors.New("duplicate instance id in panel")
	ErrInstanceLenMismatch = errors.New("instance ids have a different length than series")
	ErrEmptyTable          = errors.New("target table is empty")
	ErrTableLenMismatch    = errors.New("target table has a different length than panel instances")
	ErrUnknownInstance     = errors.New("unknown instance id")
)

// Panel stores a set of equal-length univariate time series keyed by
// instance id. Instance order is significant and aligns positionally with
// any associated Table.
type Panel struct {
	IDs    []string
	Series [][]float64
}

// NewPanel copies the input ids and series into a new Panel after validating
// their shape.
func NewPanel(ids []string, series [][]float64) (*Panel, error) {
	p := &Panel{IDs: ids, Series: series}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p.Copy(), nil
}

// Validate checks that the panel is non-empty, that ids align with series,
// that ids are unique, and that every instance series has the same length.
func (p *Panel) Validate() error {
	if p == nil || len(p.Series) == 0 {
		return ErrNoInstances
	}
	if len(p.IDs) != len(p.Series) {
		return fmt.Errorf(
			"panel has %d instance ids and %d series, %w",
			len(p.IDs), len(p.Series), ErrInstanceLenMismatch,
		)
	}
	seen := make(map[string]struct{}, len(p.IDs))
	for _, id := range p.IDs {
		if _, exists := seen[id]; exists {
			return fmt.Errorf("instance %q, %w", id, ErrDuplicateInstance)
		}
		seen[id] = struct{}{}
	}
	n := len(p.Series[0])
	for i, s := range p.Series {
		if len(s) != n {
			return fmt.Errorf("instance %q has length %d, expected %d, %w", p.IDs[i], len(s), n, ErrRaggedPanel)
		}
	}
	return nil
}

func (p *Panel) NumInstances() int {
	return len(p.Series)
}

// SeriesLen returns the common series length of all instances.
func (p *Panel) SeriesLen() int {
	if len(p.Series) == 0 {
		return 0
	}
	return len(p.Series[0])
}

func (p *Panel) Copy() *Panel {
	ids := make([]string, len(p.IDs))
	copy(ids, p.IDs)
	series := make([][]float64, len(p.Series))
	for i, s := range p.Series {
		series[i] = make([]float64, len(s))
		copy(series[i], s)
	}
	return &Panel{IDs: ids, Series: series}
}

// Select returns a new panel holding the instances at the given positions in
// the given order.
func (p *Panel) Select(pos []int) *Panel {
	ids := make([]string, 0, len(pos))
	series := make([][]float64, 0, len(pos))
	for _, i := range pos {
		ids = append(ids, p.IDs[i])
		s := make([]float64, len(p.Series[i]))
		copy(s, p.Series[i])
		series = append(series, s)
	}
	return &Panel{IDs: ids, Series: series}
}

// SelectByID returns a new panel holding, in panel order, every instance
// whose id is a member of the given set.
func (p *Panel) SelectByID(ids map[string]struct{}) *Panel {
	pos := make([]int, 0, len(ids))
	for i, id := range p.IDs {
		if _, exists := ids[id]; exists {
			pos = append(pos, i)
		}
	}
	return p.Select(pos)
}

// Table stores one categorical target label per panel instance, aligned by
// position.
type Table []string

func (tb Table) Validate() error {
	if len(tb) == 0 {
		return ErrEmptyTable
	}
	return nil
}

// Select returns the labels at the given positions in the given order.
func (tb Table) Select(pos []int) Table {
	out := make(Table, 0, len(pos))
	for _, i := range pos {
		out = append(out, tb[i])
	}
	return out
}

// Classes returns the sorted set of distinct labels in the table.
func (tb Table) Classes() []string {
	seen := make(map[string]struct{}, len(tb))
	for _, label := range tb {
		seen[label] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for label := range seen {
		classes = append(classes, label)
	}
	sort.Strings(classes)
	return classes
}
