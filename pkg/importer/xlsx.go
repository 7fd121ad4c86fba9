package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads cards from the first sheet of a workbook, with the same
// header rules as ParseDelimited.
func ParseXLSX(r io.Reader, d Defaults) (Preview, error) {
	rp, err := newRowParser(d)
	if err != nil {
		return Preview{}, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return Preview{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Preview{}, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Preview{}, fmt.Errorf("failed to get rows of %q: %w", sheets[0], err)
	}

	for i, row := range rows {
		rp.row(i+1, row)
	}
	return rp.p, nil
}
