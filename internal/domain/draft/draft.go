// Пакет draft — черновик нового акта: поля формы и выбранные файлы.
// Файлы хранятся как непрозрачные дескрипторы, содержимое не читается.
package draft

import (
	"path/filepath"
	"strings"
)

// MaxFileSizeHint — ограничение размера файла, сообщаемое пользователю.
// В вычислениях не применяется.
const MaxFileSizeHint = 10 << 20

// Kind — вид прикрепляемого файла.
type Kind int

const (
	// KindImage — фотофиксация
	KindImage Kind = iota
	// KindDocument — сертификаты
	KindDocument
)

// ImageExtensions — допустимые расширения фотографий.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}

// DocumentExtensions — допустимые расширения сертификатов.
var DocumentExtensions = []string{".pdf", ".doc", ".docx"}

// Extensions возвращает список допустимых расширений для вида файла.
func (k Kind) Extensions() []string {
	if k == KindDocument {
		return DocumentExtensions
	}
	return ImageExtensions
}

// Accept возвращает значение атрибута accept для <input type="file">.
func (k Kind) Accept() string {
	if k == KindImage {
		return "image/*"
	}
	return strings.Join(k.Extensions(), ",")
}

// Accepts проверяет имя файла по списку расширений (без учёта регистра).
func (k Kind) Accepts(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, allowed := range k.Extensions() {
		if ext == allowed {
			return true
		}
	}
	return false
}

// FileRef — дескриптор выбранного файла.
type FileRef struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
}

// Fields — скалярные поля формы.
type Fields struct {
	Number      string `json:"number" form:"number" validate:"required,max=64"`
	Date        string `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	Project     string `json:"project" form:"project" validate:"required"`
	Title       string `json:"title" form:"title" validate:"required,max=500"`
	Description string `json:"description" form:"description" validate:"max=5000"`
}

// Draft — черновик акта.
type Draft struct {
	Fields    Fields    `json:"fields"`
	Images    []FileRef `json:"images,omitempty"`
	Documents []FileRef `json:"documents,omitempty"`
}

// IsEmpty сообщает, что в черновик ничего не внесено.
func (d Draft) IsEmpty() bool {
	return d.Fields == (Fields{}) && len(d.Images) == 0 && len(d.Documents) == 0
}

// WithFields возвращает черновик с заменёнными полями. Пробелы по краям убираются.
func (d Draft) WithFields(f Fields) Draft {
	d.Fields = Fields{
		Number:      strings.TrimSpace(f.Number),
		Date:        strings.TrimSpace(f.Date),
		Project:     strings.TrimSpace(f.Project),
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
	}
	return d
}

// WithFiles возвращает черновик с новым выбором файлов указанного вида.
// Выбор заменяет предыдущий, как повторный выбор в <input type="file">.
// Файлы с недопустимым расширением отбрасываются и возвращаются вторым значением.
func (d Draft) WithFiles(kind Kind, files []FileRef) (Draft, []FileRef) {
	var accepted, rejected []FileRef
	for _, f := range files {
		if kind.Accepts(f.Name) {
			accepted = append(accepted, f)
		} else {
			rejected = append(rejected, f)
		}
	}

	switch kind {
	case KindDocument:
		d.Documents = accepted
	default:
		d.Images = accepted
	}
	return d, rejected
}
