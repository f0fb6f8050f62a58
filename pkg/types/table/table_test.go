package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_TrimsHeaders(t *testing.T) {
	tbl := New([]string{"\ufeffName", " Theme "}, [][]string{{"ann", "Woo"}})
	assert.Equal(t, []string{"Name", "Theme"}, tbl.Columns)
	assert.Equal(t, 1, tbl.Len())
}

func TestColumnIndex(t *testing.T) {
	tbl := New([]string{"AAPL_x", "AAPL_y", "theme"}, nil)

	assert.Equal(t, 0, tbl.ColumnIndex("AAPL_x"))
	assert.Equal(t, 2, tbl.ColumnIndex("Theme"), "case-insensitive fallback")
	assert.Equal(t, -1, tbl.ColumnIndex("missing"))
}

func TestColumn(t *testing.T) {
	tbl := New([]string{"Name", "Theme"}, [][]string{{"a", "Achiever"}, {"b", "Woo"}, {"c"}})

	vals, ok := tbl.Column("Theme")
	assert.True(t, ok)
	assert.Equal(t, []string{"Achiever", "Woo", ""}, vals)

	_, ok = tbl.Column("Domain")
	assert.False(t, ok)
}

func TestLen_Nil(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.Len())
}
