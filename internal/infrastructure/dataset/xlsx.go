package dataset

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/turtacn/themedash/pkg/errors"
	"github.com/turtacn/themedash/pkg/types/table"
)

// ParseXLSX reads sheet (the first sheet when empty).  The first row is the
// header; short rows are padded and blank rows skipped.
func ParseXLSX(r io.Reader, sheet string) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidData, "malformed xlsx")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidData, "workbook has no sheets")
		}
		sheet = sheets[0]
	} else if !contains(sheets, sheet) {
		return nil, errors.New(errors.ErrCodeInvalidData, "sheet not found").
			WithDetailf("sheet=%q available=[%s]", sheet, strings.Join(sheets, ", "))
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidData, "failed to read sheet").
			WithDetailf("sheet=%q", sheet)
	}
	if len(raw) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidData, "empty dataset").WithDetailf("sheet=%q", sheet)
	}

	header := raw[0]
	rows := make([][]string, 0, len(raw)-1)
	for _, r := range raw[1:] {
		if blank(r) {
			continue
		}
		row := make([]string, len(header))
		copy(row, r)
		rows = append(rows, row)
	}
	return table.New(header, rows), nil
}

// WriteXLSX writes header and rows into a single-sheet workbook.
func WriteXLSX(w io.Writer, sheet string, header []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to name sheet")
		}
	}

	set := func(col, row int, v interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}
	for c, h := range header {
		if err := set(c+1, 1, h); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to write header")
		}
	}
	for r, row := range rows {
		for c, v := range row {
			if err := set(c+1, r+2, v); err != nil {
				return errors.Wrap(err, errors.ErrCodeSerialization, "failed to write cell")
			}
		}
	}
	if err := f.Write(w); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to write workbook")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
