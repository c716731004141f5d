// Пакет errors — конструкторы стандартных ошибок JSON API СтройДок.
// Единый формат: {"error": {"code": "...", "message": "...", "details": {...}}}.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors

import (
	"encoding/json"
	"net/http"
)

// Коды ошибок API.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeExportFailed    = "EXPORT_FAILED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Error errorDetail `json:"error"`
}

// errorDetail — детали ошибки. Details — ошибки отдельных полей (поле → код).
type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteError записывает ответ ошибки в стандартном формате.
// statusCode — HTTP статус-код, code — машиночитаемый код, message — описание.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	writeBody(w, statusCode, errorDetail{Code: code, Message: message})
}

func writeBody(w http.ResponseWriter, statusCode int, detail errorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{Error: detail})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

// FieldErrors — 400 с перечнем ошибок полей.
func FieldErrors(w http.ResponseWriter, message string, fields map[string]string) {
	writeBody(w, http.StatusBadRequest, errorDetail{
		Code:    CodeValidationError,
		Message: message,
		Details: fields,
	})
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// Conflict — 409 конфликт (дублирующийся ресурс).
func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, CodeConflict, message)
}

// ExportFailed — 500 не удалось сформировать выгрузку.
func ExportFailed(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeExportFailed, message)
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}
