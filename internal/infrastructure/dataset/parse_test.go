package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/themedash/pkg/errors"
)

func TestParseCSV(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader("\ufeffName, Theme\nana, Achiever\n\nbo,\"Woo\"\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Theme"}, tbl.Columns)
	assert.Equal(t, [][]string{{"ana", "Achiever"}, {"bo", "Woo"}}, tbl.Rows)
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader("Theme\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestParseCSV_Errors(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidData))

	_, err = ParseCSV(strings.NewReader("a,b\n1,2\n3\n"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidData))
	assert.Contains(t, err.Error(), "wrong number of fields")
	assert.Contains(t, err.Error(), "line=3")

	_, err = ParseCSV(strings.NewReader("a,b\n\"unterminated,2\n"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidData))
}

func xlsxFixture(t *testing.T, sheet string, header []string, rows [][]interface{}) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sheet, header, rows))
	return buf.Bytes()
}

func TestXLSX_RoundTrip(t *testing.T) {
	data := xlsxFixture(t, "Survey", []string{"Name", "Theme", "Rank"}, [][]interface{}{
		{"ana", "Achiever", 1},
		{"bo", "Woo"},
		{},
		{"cy", "Focus", 3},
	})

	tbl, err := ParseXLSX(bytes.NewReader(data), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Theme", "Rank"}, tbl.Columns)
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"ana", "Achiever", "1"}, tbl.Rows[0])
	assert.Equal(t, []string{"bo", "Woo", ""}, tbl.Rows[1])
	assert.Equal(t, []string{"cy", "Focus", "3"}, tbl.Rows[2])

	tbl, err = ParseXLSX(bytes.NewReader(data), "Survey")
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
}

func TestParseXLSX_Errors(t *testing.T) {
	_, err := ParseXLSX(strings.NewReader("not a zip"), "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidData))

	data := xlsxFixture(t, "", []string{"Theme"}, nil)
	_, err = ParseXLSX(bytes.NewReader(data), "Missing")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidData))
	assert.Contains(t, err.Error(), "Sheet1")

	empty := xlsxFixture(t, "", nil, nil)
	_, err = ParseXLSX(bytes.NewReader(empty), "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidData))
}
