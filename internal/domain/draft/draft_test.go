package draft

import (
	"strings"
	"testing"

	"github.com/bigkaa/stroydoc/internal/domain/model"
)

func validFields() Fields {
	return Fields{
		Number:  "АСР-004",
		Date:    "2024-11-20",
		Project: "project3",
		Title:   "Акт на скрытые работы по устройству гидроизоляции",
	}
}

func fixedID() string { return "new-id" }

func TestKind_Accepts(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
		want bool
	}{
		{KindImage, "IMG_001.JPG", true},
		{KindImage, "plan.png", true},
		{KindImage, "scan.pdf", false},
		{KindImage, "noext", false},
		{KindDocument, "certificate.pdf", true},
		{KindDocument, "passport.DOCX", true},
		{KindDocument, "photo.jpg", false},
		{KindDocument, "archive.pdf.zip", false},
	}
	for _, tt := range tests {
		if got := tt.kind.Accepts(tt.name); got != tt.want {
			t.Errorf("Kind(%d).Accepts(%q) = %v, ожидается %v", tt.kind, tt.name, got, tt.want)
		}
	}
}

func TestKind_Accept(t *testing.T) {
	if KindImage.Accept() != "image/*" {
		t.Errorf("KindImage.Accept() = %q", KindImage.Accept())
	}
	if KindDocument.Accept() != ".pdf,.doc,.docx" {
		t.Errorf("KindDocument.Accept() = %q", KindDocument.Accept())
	}
}

func TestWithFiles_FiltersAndReplaces(t *testing.T) {
	var d Draft
	d, rejected := d.WithFiles(KindImage, []FileRef{
		{Name: "a.jpg", Size: 100},
		{Name: "b.txt", Size: 5},
		{Name: "c.png", Size: 200},
	})
	if len(d.Images) != 2 {
		t.Fatalf("Images = %d, ожидается 2", len(d.Images))
	}
	if len(rejected) != 1 || rejected[0].Name != "b.txt" {
		t.Errorf("rejected = %+v", rejected)
	}

	// Повторный выбор заменяет предыдущий
	d, _ = d.WithFiles(KindImage, []FileRef{{Name: "d.webp"}})
	if len(d.Images) != 1 || d.Images[0].Name != "d.webp" {
		t.Errorf("после повторного выбора Images = %+v", d.Images)
	}
	if len(d.Documents) != 0 {
		t.Errorf("выбор фото затронул документы: %+v", d.Documents)
	}
}

func TestWithFields_Trims(t *testing.T) {
	d := Draft{}.WithFields(Fields{Number: "  АСР-005 ", Title: "\tЗаголовок\n"})
	if d.Fields.Number != "АСР-005" || d.Fields.Title != "Заголовок" {
		t.Errorf("поля не очищены: %+v", d.Fields)
	}
}

func TestIsEmpty(t *testing.T) {
	if !(Draft{}).IsEmpty() {
		t.Error("нулевой черновик должен быть пустым")
	}
	if (Draft{Images: []FileRef{{Name: "a.jpg"}}}).IsEmpty() {
		t.Error("черновик с файлами не пустой")
	}
}

func TestCommit_Success(t *testing.T) {
	d := Draft{}.WithFields(validFields())
	d, _ = d.WithFiles(KindImage, []FileRef{{Name: "1.jpg"}, {Name: "2.jpg"}, {Name: "3.jpg"}})
	d, _ = d.WithFiles(KindDocument, []FileRef{{Name: "cert.pdf"}})

	act, err := Commit(d, model.DefaultProjects, fixedID)
	if err != nil {
		t.Fatalf("Commit() ошибка: %v", err)
	}
	if act.ID != "new-id" {
		t.Errorf("ID = %q", act.ID)
	}
	if act.Status != model.StatusPending {
		t.Errorf("Status = %q, ожидается pending", act.Status)
	}
	if act.Project != `Бизнес-центр "Альфа"` {
		t.Errorf("Project = %q", act.Project)
	}
	if act.Photos != 3 || act.Certificates != 1 {
		t.Errorf("Photos = %d, Certificates = %d", act.Photos, act.Certificates)
	}
	if act.DisplayDate() != "20.11.2024" {
		t.Errorf("Date = %s", act.DisplayDate())
	}
	if act.HasPhotos() {
		t.Error("у нового акта не должно быть адресов фотографий")
	}
}

func TestCommit_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Fields)
		field  string
		code   string
	}{
		{"пустой номер", func(f *Fields) { f.Number = "" }, "number", CodeRequired},
		{"пустое наименование", func(f *Fields) { f.Title = "" }, "title", CodeRequired},
		{"нет даты", func(f *Fields) { f.Date = "" }, "date", CodeRequired},
		{"неверная дата", func(f *Fields) { f.Date = "10.11.2024" }, "date", CodeDate},
		{"нет проекта", func(f *Fields) { f.Project = "" }, "project", CodeRequired},
		{"неизвестный проект", func(f *Fields) { f.Project = "project42" }, "project", CodeProject},
		{"длинный номер", func(f *Fields) { f.Number = strings.Repeat("N", 65) }, "number", CodeTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			_, err := Commit(Draft{Fields: f}, model.DefaultProjects, fixedID)
			ve, ok := AsValidationError(err)
			if !ok {
				t.Fatalf("ожидается ValidationError, получено %v", err)
			}
			if ve.Fields[tt.field] != tt.code {
				t.Errorf("Fields[%q] = %q, ожидается %q (все: %v)", tt.field, ve.Fields[tt.field], tt.code, ve.Fields)
			}
		})
	}
}

func TestValidationError_MessageIsSorted(t *testing.T) {
	ve := &ValidationError{Fields: map[string]string{"title": "required", "date": "date"}}
	if !strings.Contains(ve.Error(), "date: date, title: required") {
		t.Errorf("Error() = %q", ve.Error())
	}
}
