package dataset

import (
	"encoding/csv"
	stderrors "errors"
	"io"

	"github.com/turtacn/themedash/pkg/errors"
	"github.com/turtacn/themedash/pkg/types/table"
)

// ParseCSV reads a header row followed by data rows.  Every row must have as
// many fields as the header.
func ParseCSV(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidData, "empty dataset")
	}
	if err != nil {
		return nil, csvError(err)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		rows = append(rows, rec)
	}
	return table.New(header, rows), nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if stderrors.As(err, &pe) {
		msg := "malformed csv"
		if stderrors.Is(pe.Err, csv.ErrFieldCount) {
			msg = "row has wrong number of fields"
		}
		return errors.Wrap(err, errors.ErrCodeInvalidData, msg).WithDetailf("line=%d", pe.Line)
	}
	return errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to read csv")
}
