package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Decode reads the first sheet of a spreadsheet into ordered row
// records keyed by the header row. Cells past the header width are
// dropped; short rows leave their trailing fields absent.
func Decode(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []map[string]string{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return []map[string]string{}, nil
	}

	headers := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" || i >= len(row) {
				continue
			}
			record[header] = row[i]
		}
		records = append(records, record)
	}

	return records, nil
}

// Encode writes headers plus rows as a single-sheet spreadsheet.
func Encode(w io.Writer, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
