package evaluate

import (
	"errors"
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

var (
	ErrUnknownColumn = errors.New("unknown result column")
	ErrRowOutOfRange = errors.New("result row out of range")
	ErrNotFloat      = errors.New("result column is not a float column")
)

// ColumnKind distinguishes scalar float columns from opaque object columns
// holding raw train/test/prediction data.
type ColumnKind int

const (
	ColFloat ColumnKind = iota
	ColObject
)

// Column is one named column of the evaluation result table.
type Column struct {
	Name string
	Kind ColumnKind
}

// columnSchema derives the full ordered column set from a metric
// classification and the return-data flag. It is a pure function of its
// inputs and is computed once before any fold runs, so fold rows produced
// out of order by a parallel backend reindex into an identical schema.
//
// Order: one score column per metric, fit time, one prediction-time column
// per distinct (prediction type, variant) pair, then, when returnData is
// set, the raw train/test data columns and one cached-prediction column per
// distinct pair.
func columnSchema(scoring classification, returnData bool) []Column {
	var scoreCols, timeCols, dataCols []Column
	timeCols = append(timeCols, Column{Name: "fit_time", Kind: ColFloat})
	dataCols = append(dataCols,
		Column{Name: "X_train", Kind: ColObject},
		Column{Name: "X_test", Kind: ColObject},
		Column{Name: "y_train", Kind: ColObject},
		Column{Name: "y_test", Kind: ColObject},
	)

	seenTime := make(map[string]struct{})
	seenPred := make(map[string]struct{})
	for _, pt := range predictionTypes {
		for _, sc := range scoring[pt] {
			timeKey, resultKey, predKey := sc.keys()
			scoreCols = append(scoreCols, Column{Name: resultKey, Kind: ColFloat})
			if _, exists := seenTime[timeKey]; !exists {
				seenTime[timeKey] = struct{}{}
				timeCols = append(timeCols, Column{Name: timeKey, Kind: ColFloat})
			}
			if _, exists := seenPred[predKey]; !exists {
				seenPred[predKey] = struct{}{}
				dataCols = append(dataCols, Column{Name: predKey, Kind: ColObject})
			}
		}
	}

	cols := make([]Column, 0, len(scoreCols)+len(timeCols)+len(dataCols))
	cols = append(cols, scoreCols...)
	cols = append(cols, timeCols...)
	if returnData {
		cols = append(cols, dataCols...)
	}
	return cols
}

// Results is the fold-by-fold evaluation table. Columns are fixed by the
// schema before any fold runs and every row is reindexed to them, so the
// column set never depends on fold outcomes.
type Results struct {
	cols   []Column
	colPos map[string]int
	rows   [][]any
}

func newResults(cols []Column) *Results {
	colPos := make(map[string]int, len(cols))
	for i, col := range cols {
		colPos[col.Name] = i
	}
	return &Results{cols: cols, colPos: colPos}
}

// appendRow reindexes the given values into the schema column order.
// Missing float cells become NaN, missing object cells nil, and values
// outside the schema are dropped.
func (r *Results) appendRow(values map[string]any) {
	row := make([]any, len(r.cols))
	for i, col := range r.cols {
		val, exists := values[col.Name]
		if !exists {
			if col.Kind == ColFloat {
				row[i] = math.NaN()
			}
			continue
		}
		row[i] = val
	}
	r.rows = append(r.rows, row)
}

func (r *Results) NumRows() int {
	return len(r.rows)
}

// Columns returns the ordered column schema.
func (r *Results) Columns() []Column {
	cols := make([]Column, len(r.cols))
	copy(cols, r.cols)
	return cols
}

// ColumnNames returns the ordered column names.
func (r *Results) ColumnNames() []string {
	names := make([]string, len(r.cols))
	for i, col := range r.cols {
		names[i] = col.Name
	}
	return names
}

// Float returns the float cell of the named column at the given row.
func (r *Results) Float(name string, row int) (float64, error) {
	i, exists := r.colPos[name]
	if !exists {
		return 0.0, fmt.Errorf("column %q, %w", name, ErrUnknownColumn)
	}
	if r.cols[i].Kind != ColFloat {
		return 0.0, fmt.Errorf("column %q, %w", name, ErrNotFloat)
	}
	if row < 0 || row >= len(r.rows) {
		return 0.0, fmt.Errorf("row %d of %d, %w", row, len(r.rows), ErrRowOutOfRange)
	}
	return r.rows[row][i].(float64), nil
}

// Value returns the raw cell of the named column at the given row.
func (r *Results) Value(name string, row int) (any, error) {
	i, exists := r.colPos[name]
	if !exists {
		return nil, fmt.Errorf("column %q, %w", name, ErrUnknownColumn)
	}
	if row < 0 || row >= len(r.rows) {
		return nil, fmt.Errorf("row %d of %d, %w", row, len(r.rows), ErrRowOutOfRange)
	}
	return r.rows[row][i], nil
}

// MarshalJSON serializes the table column-first. NaN float cells are
// emitted as null.
func (r *Results) MarshalJSON() ([]byte, error) {
	data := make([][]any, 0, len(r.rows))
	for _, row := range r.rows {
		out := make([]any, len(row))
		for i, val := range row {
			if f, isFloat := val.(float64); isFloat && math.IsNaN(f) {
				continue
			}
			out[i] = val
		}
		data = append(data, out)
	}
	return json.Marshal(struct {
		Columns []string `json:"columns"`
		Data    [][]any  `json:"data"`
	}{
		Columns: r.ColumnNames(),
		Data:    data,
	})
}
