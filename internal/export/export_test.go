package export

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/bigkaa/stroydoc/internal/domain/model"
)

var generatedAt = time.Date(2024, 11, 14, 9, 30, 0, 0, time.UTC)

// seedActs — три акта реестра с датами 10, 12 и 13 ноября 2024.
func seedActs() []model.Act {
	return []model.Act{
		{ID: "1", Number: "АСР-001", Title: "Акт на скрытые работы по устройству фундамента",
			Project: `ЖК "Новый горизонт"`, Date: model.MustDate("2024-11-10"),
			Status: model.StatusApproved, Photos: 8, Certificates: 3},
		{ID: "2", Number: "АСР-002", Title: "Акт на скрытые работы по армированию плиты перекрытия",
			Project: `ЖК "Новый горизонт"`, Date: model.MustDate("2024-11-12"),
			Status: model.StatusPending, Photos: 12, Certificates: 2},
		{ID: "3", Number: "АСР-003", Title: "Акт освидетельствования скрытых работ по гидроизоляции",
			Project: `ТЦ "Метрополис"`, Date: model.MustDate("2024-11-13"),
			Status: model.StatusApproved, Photos: 6, Certificates: 4},
	}
}

// asciiActs — акты, представимые встроенным шрифтом PDF.
func asciiActs() []model.Act {
	return []model.Act{
		{ID: "1", Number: "ASR-001", Title: "Foundation", Project: "Horizon",
			Date: model.MustDate("2024-11-10"), Status: model.StatusApproved, Photos: 8, Certificates: 3},
		{ID: "2", Number: "ASR-002", Title: "Slab rebar", Project: "Horizon",
			Date: model.MustDate("2024-11-12"), Status: model.StatusPending, Photos: 12, Certificates: 2},
		{ID: "3", Number: "ASR-003", Title: "Waterproofing", Project: "Metropolis",
			Date: model.MustDate("2024-11-13"), Status: model.StatusRejected, Photos: 6, Certificates: 4},
	}
}

var englishCatalog = map[string]string{
	"export.title":            "Hidden works registry",
	"export.generated":        "Generated:",
	"export.page":             "Page",
	"export.col.number":       "Number",
	"export.col.title":        "Title",
	"export.col.project":      "Project",
	"export.col.date":         "Date",
	"export.col.status":       "Status",
	"export.col.photos":       "Photos",
	"export.col.certificates": "Certificates",
	"status.pending":          "Pending",
	"status.approved":         "Approved",
	"status.rejected":         "Rejected",
}

func translateEN(key string) string {
	if v, ok := englishCatalog[key]; ok {
		return v
	}
	return key
}

func readXLSX(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() ошибка: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != sheet {
		t.Fatalf("листы = %v, ожидается [%s]", sheets, sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows() ошибка: %v", err)
	}
	return rows
}

func TestBuild_HeaderAndRows(t *testing.T) {
	doc, err := Build(seedActs(), BuildOptions{GeneratedAt: generatedAt})
	if err != nil {
		t.Fatalf("Build() ошибка: %v", err)
	}

	wantHeader := []string{"Номер", "Наименование работ", "Объект", "Дата", "Статус", "Фото", "Сертификаты"}
	if strings.Join(doc.Header, "|") != strings.Join(wantHeader, "|") {
		t.Errorf("Header = %v, ожидается %v", doc.Header, wantHeader)
	}
	if doc.SheetName != DefaultSheetName {
		t.Errorf("SheetName = %q, ожидается %q", doc.SheetName, DefaultSheetName)
	}
	if doc.Subtitle != "Дата формирования: 14.11.2024" {
		t.Errorf("Subtitle = %q", doc.Subtitle)
	}
	if len(doc.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, ожидается 3", len(doc.Rows))
	}

	want := []string{"АСР-002", "Акт на скрытые работы по армированию плиты перекрытия",
		`ЖК "Новый горизонт"`, "12.11.2024", "На рассмотрении", "12", "2"}
	if got := doc.Rows[1].Cells(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Rows[1].Cells() = %v, ожидается %v", got, want)
	}
}

func TestBuild_Translated(t *testing.T) {
	doc, err := Build(asciiActs(), BuildOptions{Translate: translateEN, GeneratedAt: generatedAt, SheetName: "Acts"})
	if err != nil {
		t.Fatalf("Build() ошибка: %v", err)
	}
	if doc.Header[0] != "Number" || doc.Rows[2].Status != "Rejected" {
		t.Errorf("перевод не применён: %v / %q", doc.Header, doc.Rows[2].Status)
	}
	if doc.Title != "Hidden works registry" || doc.PageLabel != "Page" {
		t.Errorf("Title/PageLabel = %q / %q", doc.Title, doc.PageLabel)
	}
}

func TestBuild_MissingKeyFallsBack(t *testing.T) {
	doc, err := Build(seedActs()[:1], BuildOptions{Translate: func(key string) string { return key }})
	if err != nil {
		t.Fatalf("Build() ошибка: %v", err)
	}
	if doc.Rows[0].Status != "Утвержден" {
		t.Errorf("Status = %q, ожидается «Утвержден»", doc.Rows[0].Status)
	}
}

func TestBuild_UnknownStatus(t *testing.T) {
	acts := seedActs()
	acts[1].Status = "archived"
	if _, err := Build(acts, BuildOptions{}); !errors.Is(err, model.ErrUnknownStatus) {
		t.Errorf("ожидается ErrUnknownStatus, получено %v", err)
	}
}

func TestBuild_Empty(t *testing.T) {
	doc, err := Build(nil, BuildOptions{})
	if err != nil {
		t.Fatalf("Build() ошибка: %v", err)
	}
	if len(doc.Rows) != 0 || len(doc.Header) != 7 {
		t.Errorf("пустой реестр: %d строк, %d столбцов", len(doc.Rows), len(doc.Header))
	}
}

func TestWriteXLSX_DateColumn(t *testing.T) {
	doc, err := Build(seedActs(), BuildOptions{GeneratedAt: generatedAt})
	if err != nil {
		t.Fatalf("Build() ошибка: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, doc); err != nil {
		t.Fatalf("WriteXLSX() ошибка: %v", err)
	}

	rows := readXLSX(t, buf.Bytes(), DefaultSheetName)
	if len(rows) != 4 {
		t.Fatalf("строк в листе = %d, ожидается 4 (заголовок + 3)", len(rows))
	}
	wantDates := []string{"10.11.2024", "12.11.2024", "13.11.2024"}
	for i, want := range wantDates {
		if got := rows[i+1][3]; got != want {
			t.Errorf("дата строки %d = %q, ожидается %q", i+1, got, want)
		}
	}
	if rows[1][4] != "Утвержден" || rows[2][4] != "На рассмотрении" {
		t.Errorf("статусы = %q, %q", rows[1][4], rows[2][4])
	}
	if rows[2][5] != "12" || rows[3][6] != "4" {
		t.Errorf("счётчики = %q, %q", rows[2][5], rows[3][6])
	}
}

func TestWriteXLSX_Deterministic(t *testing.T) {
	doc, _ := Build(seedActs(), BuildOptions{GeneratedAt: generatedAt})

	var a, b bytes.Buffer
	if err := WriteXLSX(&a, doc); err != nil {
		t.Fatalf("WriteXLSX() ошибка: %v", err)
	}
	if err := WriteXLSX(&b, doc); err != nil {
		t.Fatalf("WriteXLSX() ошибка: %v", err)
	}
	ra := readXLSX(t, a.Bytes(), DefaultSheetName)
	rb := readXLSX(t, b.Bytes(), DefaultSheetName)
	for i := range ra {
		if strings.Join(ra[i], "|") != strings.Join(rb[i], "|") {
			t.Errorf("строка %d различается: %v / %v", i, ra[i], rb[i])
		}
	}
}

// TestEncodings_SameCells сравнивает содержимое ячеек XLSX и PDF.
func TestEncodings_SameCells(t *testing.T) {
	doc, err := Build(asciiActs(), BuildOptions{Translate: translateEN, GeneratedAt: generatedAt, SheetName: "Acts"})
	if err != nil {
		t.Fatalf("Build() ошибка: %v", err)
	}

	var xbuf bytes.Buffer
	if err := WriteXLSX(&xbuf, doc); err != nil {
		t.Fatalf("WriteXLSX() ошибка: %v", err)
	}
	rows := readXLSX(t, xbuf.Bytes(), "Acts")

	enc := NewCorePDFEncoder()
	enc.compress = false
	var pbuf bytes.Buffer
	if err := enc.Write(&pbuf, doc, generatedAt); err != nil {
		t.Fatalf("PDFEncoder.Write() ошибка: %v", err)
	}
	pdf := pbuf.String()
	if !strings.HasPrefix(pdf, "%PDF-") {
		t.Fatal("результат не является PDF")
	}

	if len(rows)-1 != len(doc.Rows) {
		t.Fatalf("XLSX: %d строк данных, ожидается %d", len(rows)-1, len(doc.Rows))
	}
	for i, r := range doc.Rows {
		// номер, наименование, объект, статус
		for _, col := range []int{0, 1, 2, 4} {
			cell := r.Cells()[col]
			if rows[i+1][col] != cell {
				t.Errorf("XLSX[%d][%d] = %q, ожидается %q", i+1, col, rows[i+1][col], cell)
			}
			if !strings.Contains(pdf, "("+cell+")") {
				t.Errorf("PDF не содержит ячейку %q", cell)
			}
		}
	}
	for _, s := range []string{"(Hidden works registry)", "(Generated: 14.11.2024)", "(Page 1)"} {
		if !strings.Contains(pdf, s) {
			t.Errorf("PDF не содержит %s", s)
		}
	}
}

func TestPDF_PageBreakRepeatsHeader(t *testing.T) {
	var acts []model.Act
	base := asciiActs()
	for i := 0; i < 60; i++ {
		a := base[i%3]
		a.ID = string(rune('a' + i%26))
		acts = append(acts, a)
	}
	doc, err := Build(acts, BuildOptions{Translate: translateEN})
	if err != nil {
		t.Fatalf("Build() ошибка: %v", err)
	}

	enc := NewCorePDFEncoder()
	enc.compress = false
	var buf bytes.Buffer
	if err := enc.Write(&buf, doc, generatedAt); err != nil {
		t.Fatalf("PDFEncoder.Write() ошибка: %v", err)
	}
	pdf := buf.String()

	if !strings.Contains(pdf, "(Page 2)") {
		t.Fatal("ожидается вторая страница")
	}
	pages := strings.Count(pdf, "(Page ")
	if headers := strings.Count(pdf, "(Certificates)"); headers != pages {
		t.Errorf("заголовок таблицы на %d страницах из %d", headers, pages)
	}
}

func TestPDF_CoreFontRejectsCyrillic(t *testing.T) {
	doc, err := Build(seedActs(), BuildOptions{GeneratedAt: generatedAt})
	if err != nil {
		t.Fatalf("Build() ошибка: %v", err)
	}
	var buf bytes.Buffer
	err = NewCorePDFEncoder().Write(&buf, doc, generatedAt)
	if !errors.Is(err, ErrUnsupportedText) {
		t.Fatalf("ожидается ErrUnsupportedText, получено %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("при ошибке записано %d байт", buf.Len())
	}
}

func TestPDF_UTF8Font(t *testing.T) {
	const fontPath = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
	if _, err := os.Stat(fontPath); err != nil {
		t.Skip("Пропуск: шрифт DejaVuSans не установлен")
	}

	enc, err := NewPDFEncoder(fontPath)
	if err != nil {
		t.Fatalf("NewPDFEncoder() ошибка: %v", err)
	}
	if enc.UsesCoreFont() {
		t.Fatal("ожидается TrueType-шрифт")
	}

	doc, _ := Build(seedActs(), BuildOptions{GeneratedAt: generatedAt})
	var buf bytes.Buffer
	if err := enc.Write(&buf, doc, generatedAt); err != nil {
		t.Fatalf("PDFEncoder.Write() ошибка: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("результат не является PDF")
	}
}

func TestNewPDFEncoder_MissingFont(t *testing.T) {
	enc, err := NewPDFEncoder("/nonexistent/font.ttf")
	if err == nil {
		t.Error("ожидается ошибка для отсутствующего шрифта")
	}
	if enc == nil || !enc.UsesCoreFont() {
		t.Error("ожидается кодировщик на встроенном шрифте")
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		registry, ext, want string
	}{
		{"Реестр_актов", "xlsx", "Реестр_актов_14-11-2024.xlsx"},
		{"Реестр_актов", "pdf", "Реестр_актов_14-11-2024.pdf"},
		{"", "pdf", "Реестр_актов_14-11-2024.pdf"},
		{"Acts", "xlsx", "Acts_14-11-2024.xlsx"},
	}
	for _, tt := range tests {
		if got := FileName(tt.registry, generatedAt, tt.ext); got != tt.want {
			t.Errorf("FileName(%q, %q) = %q, ожидается %q", tt.registry, tt.ext, got, tt.want)
		}
	}
}
