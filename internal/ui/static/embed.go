// Пакет static — встроенные статические ресурсы UI СтройДок.
// Содержит таблицу стилей и изображения-заглушки фотофиксации.
// Файлы встраиваются в бинарник через //go:embed и раздаются через HTTP.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

// content — встроенная файловая система со всеми статическими ресурсами.
//
//go:embed css/app.css img/*.svg
var content embed.FS

// FileSystem возвращает http.FileSystem для обработки запросов к /static/*.
// Файлы доступны по путям вида /static/css/app.css, /static/img/rebar-1.svg.
func FileSystem() http.FileSystem {
	return http.FS(content)
}

// FS возвращает fs.FS для прямого доступа к встроенным файлам.
func FS() fs.FS {
	return content
}
