package draft

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bigkaa/stroydoc/internal/domain/model"
)

// Коды ошибок полей. Используются как суффиксы ключей i18n (validation.<code>).
const (
	CodeRequired = "required"
	CodeTooLong  = "max"
	CodeDate     = "date"
	CodeProject  = "project"
	CodeInvalid  = "invalid"
)

// ValidationError — ошибки полей черновика: поле → код ошибки.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "ошибка валидации черновика: " + strings.Join(parts, ", ")
}

// AsValidationError извлекает ValidationError из цепочки ошибок.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Validate проверяет поля черновика и выбор проекта.
// Возвращает *ValidationError или nil.
func (d Draft) Validate(projects []model.Project) error {
	problems := map[string]string{}

	if err := validate.Struct(d.Fields); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return fmt.Errorf("валидация черновика: %w", err)
		}
		for _, fe := range errs {
			problems[fe.Field()] = fieldCode(fe)
		}
	}

	if _, bad := problems["project"]; !bad && d.Fields.Project != "" {
		if _, ok := model.FindProject(projects, d.Fields.Project); !ok {
			problems["project"] = CodeProject
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Fields: problems}
	}
	return nil
}

// Commit превращает черновик в новый акт со статусом pending.
// newID генерирует идентификатор записи.
// Запись акта в хранилище — ответственность вызывающего.
func Commit(d Draft, projects []model.Project, newID func() string) (*model.Act, error) {
	if err := d.Validate(projects); err != nil {
		return nil, err
	}

	date, err := model.ParseDate(d.Fields.Date)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"date": CodeDate}}
	}
	project, _ := model.FindProject(projects, d.Fields.Project)

	return &model.Act{
		ID:           newID(),
		Number:       d.Fields.Number,
		Title:        d.Fields.Title,
		Project:      project.Name,
		Date:         date,
		Status:       model.StatusPending,
		Photos:       len(d.Images),
		Certificates: len(d.Documents),
		Description:  d.Fields.Description,
	}, nil
}

func fieldCode(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return CodeRequired
	case "max":
		return CodeTooLong
	case "datetime":
		return CodeDate
	}
	return CodeInvalid
}
