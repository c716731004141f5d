// Пакет export — выгрузка реестра актов в XLSX (excelize) и PDF (fpdf).
// Обе кодировки строятся из одного снимка Document, поэтому число строк
// и содержимое ячеек в них совпадают.
package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bigkaa/stroydoc/internal/domain/model"
)

// ErrUnsupportedText — текст не может быть представлен выбранным шрифтом PDF.
var ErrUnsupportedText = errors.New("текст не поддерживается шрифтом")

// Значения по умолчанию (русский каталог).
const (
	DefaultRegistryName = "Реестр_актов"
	DefaultSheetName    = "Реестр актов"
)

// Ключи каталога для заголовка таблицы, по порядку столбцов.
var headerKeys = []struct {
	key, fallback string
}{
	{"export.col.number", "Номер"},
	{"export.col.title", "Наименование работ"},
	{"export.col.project", "Объект"},
	{"export.col.date", "Дата"},
	{"export.col.status", "Статус"},
	{"export.col.photos", "Фото"},
	{"export.col.certificates", "Сертификаты"},
}

// Row — строка реестра в отображаемом виде.
type Row struct {
	Number       string
	Title        string
	Project      string
	Date         string
	Status       string
	Photos       int
	Certificates int
}

// Cells возвращает значения строки в порядке столбцов заголовка.
func (r Row) Cells() []string {
	return []string{
		r.Number,
		r.Title,
		r.Project,
		r.Date,
		r.Status,
		strconv.Itoa(r.Photos),
		strconv.Itoa(r.Certificates),
	}
}

// Document — снимок реестра для выгрузки.
type Document struct {
	// Title — заголовок печатной формы
	Title string
	// Subtitle — строка с датой формирования
	Subtitle string
	// SheetName — имя листа XLSX
	SheetName string
	// PageLabel — подпись перед номером страницы в колонтитуле
	PageLabel string
	Header    []string
	Rows      []Row
}

// BuildOptions — параметры построения снимка.
type BuildOptions struct {
	// Translate возвращает строку каталога по ключу (nil — русские значения)
	Translate func(key string) string
	// GeneratedAt — дата формирования для заголовка
	GeneratedAt time.Time
	// SheetName — имя листа (пустое — DefaultSheetName)
	SheetName string
}

// text возвращает перевод ключа или fallback, если каталог ключа не знает.
func (o BuildOptions) text(key, fallback string) string {
	if o.Translate == nil {
		return fallback
	}
	if v := o.Translate(key); v != "" && v != key {
		return v
	}
	return fallback
}

// Build строит снимок реестра: заголовок и по одной строке на акт
// в порядке хранилища. Статус заменяется отображаемой подписью.
func Build(acts []model.Act, opts BuildOptions) (*Document, error) {
	doc := &Document{
		Title:     opts.text("export.title", "Реестр актов на скрытые работы"),
		Subtitle:  opts.text("export.generated", "Дата формирования:") + " " + opts.GeneratedAt.Format(model.DisplayDateLayout),
		SheetName: opts.SheetName,
		PageLabel: opts.text("export.page", "Страница"),
		Header:    make([]string, len(headerKeys)),
		Rows:      make([]Row, 0, len(acts)),
	}
	if doc.SheetName == "" {
		doc.SheetName = DefaultSheetName
	}
	for i, h := range headerKeys {
		doc.Header[i] = opts.text(h.key, h.fallback)
	}

	for _, a := range acts {
		badge, err := model.Classify(a.Status)
		if err != nil {
			return nil, fmt.Errorf("акт %s: %w", a.Number, err)
		}
		doc.Rows = append(doc.Rows, Row{
			Number:       a.Number,
			Title:        a.Title,
			Project:      a.Project,
			Date:         a.DisplayDate(),
			Status:       opts.text(badge.LabelKey, badge.Label),
			Photos:       a.Photos,
			Certificates: a.Certificates,
		})
	}
	return doc, nil
}

// FileName формирует имя файла выгрузки: <реестр>_<ДД-ММ-ГГГГ>.<ext>.
func FileName(registry string, now time.Time, ext string) string {
	if registry == "" {
		registry = DefaultRegistryName
	}
	date := strings.ReplaceAll(now.Format(model.DisplayDateLayout), ".", "-")
	return registry + "_" + date + "." + ext
}
