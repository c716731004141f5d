package export

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// ContentTypePDF — MIME-тип печатной формы.
const ContentTypePDF = "application/pdf"

// Геометрия страницы A4 landscape, мм.
const (
	pdfMargin     = 15.0
	pdfLineHeight = 6.0
	pdfPageHeight = 210.0
)

// Ширины столбцов PDF, мм: идентификаторы узкие, наименование и объект широкие.
// Сумма равна ширине области печати (297 − 2×15).
var pdfColWidths = []float64{25, 80, 55, 25, 36, 18, 28}

// Столбцы с выравниванием по центру: номер, дата, статус, счётчики.
var pdfCentered = []bool{true, false, false, true, true, true, true}

const (
	utf8Family = "DejaVu"
	coreFamily = "Helvetica"
)

// PDFEncoder формирует печатную форму реестра.
// С TrueType-шрифтом поддерживается кириллица; без него используется
// встроенный Helvetica с кодировкой Windows-1252.
type PDFEncoder struct {
	font     []byte
	compress bool
}

// NewPDFEncoder загружает шрифт из fontPath. Если файл недоступен,
// возвращается кодировщик на встроенном шрифте и ошибка чтения
// для логирования.
func NewPDFEncoder(fontPath string) (*PDFEncoder, error) {
	font, err := os.ReadFile(fontPath)
	if err != nil {
		return NewCorePDFEncoder(), fmt.Errorf("шрифт PDF %s недоступен: %w", fontPath, err)
	}
	return NewPDFEncoderFromFont(font), nil
}

// NewPDFEncoderFromFont создаёт кодировщик с TrueType-шрифтом из памяти.
func NewPDFEncoderFromFont(font []byte) *PDFEncoder {
	return &PDFEncoder{font: font, compress: true}
}

// NewCorePDFEncoder создаёт кодировщик на встроенном шрифте Helvetica.
func NewCorePDFEncoder() *PDFEncoder {
	return &PDFEncoder{compress: true}
}

// UsesCoreFont сообщает, работает ли кодировщик без TrueType-шрифта.
func (e *PDFEncoder) UsesCoreFont() bool {
	return e.font == nil
}

// encode подготавливает строку для выбранного шрифта.
func (e *PDFEncoder) encode(s string) (string, error) {
	if e.font != nil {
		return s, nil
	}
	out, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedText, s)
	}
	return out, nil
}

// Write записывает печатную форму в w. created попадает только
// в метаданные документа.
func (e *PDFEncoder) Write(w io.Writer, doc *Document, created time.Time) error {
	// Строки кодируются до начала вёрстки.
	title, err := e.encode(doc.Title)
	if err != nil {
		return err
	}
	subtitle, err := e.encode(doc.Subtitle)
	if err != nil {
		return err
	}
	pageLabel, err := e.encode(doc.PageLabel)
	if err != nil {
		return err
	}
	header := make([]string, len(doc.Header))
	for i, h := range doc.Header {
		if header[i], err = e.encode(h); err != nil {
			return err
		}
	}
	rows := make([][]string, len(doc.Rows))
	for i, r := range doc.Rows {
		cells := r.Cells()
		for j := range cells {
			if cells[j], err = e.encode(cells[j]); err != nil {
				return err
			}
		}
		rows[i] = cells
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(e.compress)
	pdf.SetCreationDate(created)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)

	family, boldStyle := coreFamily, "B"
	if e.font != nil {
		pdf.AddUTF8FontFromBytes(utf8Family, "", e.font)
		family, boldStyle = utf8Family, ""
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("ошибка загрузки шрифта PDF: %w", err)
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin + 3)
		pdf.SetFont(family, "", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 5, pageLabel+" "+strconv.Itoa(pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(family, boldStyle, 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont(family, "", 10)
	pdf.CellFormat(0, 7, subtitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	drawHeader := func() {
		pdf.SetFont(family, boldStyle, 9)
		pdf.SetFillColor(41, 128, 185)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetDrawColor(200, 200, 200)
		drawRow(pdf, header, true)
		pdf.SetFont(family, "", 9)
		pdf.SetTextColor(0, 0, 0)
	}
	drawHeader()

	for _, cells := range rows {
		h := rowHeight(pdf, cells)
		if pdf.GetY()+h > pdfPageHeight-pdfMargin {
			pdf.AddPage()
			drawHeader()
		}
		drawRow(pdf, cells, false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("ошибка записи PDF: %w", err)
	}
	return nil
}

// drawRow рисует строку таблицы с переносом текста внутри ячеек.
func drawRow(pdf *fpdf.Fpdf, cells []string, fill bool) {
	x, y := pdf.GetX(), pdf.GetY()
	lines := make([][]string, len(cells))
	for i, c := range cells {
		lines[i] = wrapText(pdf, c, pdfColWidths[i])
	}
	h := rowHeight(pdf, cells)

	style := "D"
	if fill {
		style = "FD"
	}
	for i := range cells {
		w := pdfColWidths[i]
		pdf.Rect(x, y, w, h, style)
		align := "L"
		if pdfCentered[i] || fill {
			align = "C"
		}
		for j, line := range lines[i] {
			pdf.SetXY(x, y+float64(j)*pdfLineHeight)
			pdf.CellFormat(w, pdfLineHeight, line, "", 0, align, false, 0, "")
		}
		x += w
	}
	pdf.SetXY(pdfMargin, y+h)
}

// rowHeight возвращает высоту строки по самой длинной ячейке.
func rowHeight(pdf *fpdf.Fpdf, cells []string) float64 {
	n := 1
	for i, c := range cells {
		if k := len(wrapText(pdf, c, pdfColWidths[i])); k > n {
			n = k
		}
	}
	return float64(n) * pdfLineHeight
}

// wrapText разбивает текст по словам под ширину ячейки.
// Слово длиннее ячейки остаётся на отдельной строке.
func wrapText(pdf *fpdf.Fpdf, s string, width float64) []string {
	limit := width - 2
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if pdf.GetStringWidth(candidate) <= limit {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		line = word
	}
	return append(lines, line)
}
