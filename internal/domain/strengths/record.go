package strengths

import (
	"strings"

	"github.com/turtacn/themedash/pkg/errors"
	"github.com/turtacn/themedash/pkg/types/table"
)

// DefaultThemeColumn is the header that carries the theme in survey exports.
const DefaultThemeColumn = "Theme"

// Record is one survey row.  Only the theme is kept.
type Record struct {
	Theme Theme
}

// RecordsFromTable extracts one Record per row from the named column.  Cells
// are trimmed of surrounding whitespace; a blank cell is kept as an empty
// Theme so the caller's taxonomy check rejects it.
func RecordsFromTable(t *table.Table, column string) ([]Record, error) {
	if column == "" {
		column = DefaultThemeColumn
	}
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidData, "no table")
	}
	values, ok := t.Column(column)
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingColumn, "theme column not found").
			WithDetailf("column=%q available=[%s]", column, strings.Join(t.Columns, ", "))
	}
	records := make([]Record, len(values))
	for i, v := range values {
		records[i] = Record{Theme: Theme(strings.TrimSpace(v))}
	}
	return records, nil
}
