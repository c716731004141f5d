// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — акт не найден.
	ErrNotFound = errors.New("акт не найден")
	// ErrConflict — акт с таким ID уже существует.
	ErrConflict = errors.New("конфликт — акт уже существует")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrExportFailed — не удалось сформировать файл выгрузки.
	ErrExportFailed = errors.New("ошибка формирования выгрузки")
)
