package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX — MIME-тип книги Excel.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Ширины столбцов XLSX в символах.
var xlsxColWidths = []float64{12, 55, 28, 12, 18, 8, 13}

// WriteXLSX записывает снимок реестра в w как книгу с одним листом.
// Счётчики сохраняются числами.
func WriteXLSX(w io.Writer, doc *Document) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := doc.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#2980B9"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return fmt.Errorf("ошибка создания стиля заголовка: %w", err)
	}

	for i, h := range doc.Header {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, r := range doc.Rows {
		row := rowIdx + 2
		values := []any{r.Number, r.Title, r.Project, r.Date, r.Status, r.Photos, r.Certificates}
		for i, v := range values {
			col, _ := excelize.ColumnNumberToName(i + 1)
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), v); err != nil {
				return fmt.Errorf("ошибка записи ячейки %s%d: %w", col, row, err)
			}
		}
	}

	for i, width := range xlsxColWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, width)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("ошибка записи XLSX: %w", err)
	}
	return nil
}
