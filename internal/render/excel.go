package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// summaryRow is the first row of the key/value block; the title sits on row 1.
const summaryRow = 3

func renderWorkbook(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := doc.SheetName
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	created := doc.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z")
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:    doc.Title,
		Creator:  "backoffice-reports",
		Created:  created,
		Modified: created,
	}); err != nil {
		return nil, fmt.Errorf("failed to set workbook properties: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, err
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	cols := len(doc.ColumnWidths)
	if cols < 2 {
		cols = 2
	}
	lastCol, _ := excelize.ColumnNumberToName(cols)

	if err := f.SetCellValue(sheet, "A1", doc.Title); err != nil {
		return nil, err
	}
	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
		return nil, err
	}

	row := summaryRow
	for _, field := range doc.Summary {
		label, value := cell(1, row), cell(2, row)
		if err := f.SetCellValue(sheet, label, field.Label); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, value, field.Value); err != nil {
			return nil, err
		}
		if field.Emphasis {
			if err := f.SetCellStyle(sheet, value, value, boldStyle); err != nil {
				return nil, err
			}
		}
		row++
	}

	if doc.Table != nil {
		row++
		for i, h := range doc.Table.Headers {
			if err := f.SetCellValue(sheet, cell(i+1, row), h); err != nil {
				return nil, err
			}
		}
		if len(doc.Table.Headers) > 0 {
			if err := f.SetCellStyle(sheet, cell(1, row), cell(len(doc.Table.Headers), row), boldStyle); err != nil {
				return nil, err
			}
		}
		row++
		for _, r := range doc.Table.Rows {
			if err := f.SetSheetRow(sheet, cell(1, row), &r); err != nil {
				return nil, err
			}
			row++
		}
		if len(doc.Table.Rows) == 0 && doc.Table.Empty != "" {
			if err := f.SetCellValue(sheet, cell(1, row), doc.Table.Empty); err != nil {
				return nil, err
			}
		}
	}

	for i, w := range doc.ColumnWidths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, w); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
