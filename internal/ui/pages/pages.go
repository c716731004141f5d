// Пакет pages — страницы UI СтройДок.
// Шаблоны html/template встраиваются в бинарник и оборачиваются
// в templ.Component, которые рендерят обработчики.
package pages

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"

	"github.com/bigkaa/stroydoc/internal/ui/i18n"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// funcs — функции шаблонов: t — перевод, tf — перевод с аргументами.
var funcs = template.FuncMap{
	"t":  i18n.TLang,
	"tf": i18n.TfLang,
}

var templates = template.Must(
	template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.gohtml"),
)

// Dashboard — страница дашборда: оболочка, статистика, список актов,
// диалог создания и галерея (если открыты).
func Dashboard(v DashboardView) templ.Component {
	return templ.FromGoHTML(templates.Lookup("layout"), v)
}
