// Пакет model — доменные модели СтройДок.
package model

import (
	"fmt"
	"time"
)

// DateLayout — формат даты акта во входных данных (ISO, без времени).
const DateLayout = "2006-01-02"

// DisplayDateLayout — отображаемый формат даты (ru-RU: ДД.ММ.ГГГГ).
const DisplayDateLayout = "02.01.2006"

// Act — акт на скрытые работы.
type Act struct {
	// ID — непрозрачный идентификатор, стабилен на протяжении жизни записи
	ID string `json:"id"`
	// Number — номер документа, задаётся человеком (уникальность не проверяется)
	Number string `json:"number"`
	// Title — наименование работ
	Title string `json:"title"`
	// Project — название объекта строительства (свободный текст)
	Project string `json:"project"`
	// Date — календарная дата выдачи акта (полночь UTC)
	Date time.Time `json:"date"`
	// Status — pending, approved, rejected
	Status Status `json:"status"`
	// Photos — счётчик фотографий (не выводится из PhotoURLs)
	Photos int `json:"photos"`
	// Certificates — счётчик сертификатов
	Certificates int `json:"certificates"`
	// PhotoURLs — упорядоченные адреса фотографий (пустой ≡ отсутствует)
	PhotoURLs []string `json:"photo_urls,omitempty"`
	// Description — описание работ (опционально)
	Description string `json:"description,omitempty"`
}

// Clone возвращает копию акта, не разделяющую срез PhotoURLs с оригиналом.
func (a Act) Clone() Act {
	if a.PhotoURLs != nil {
		urls := make([]string, len(a.PhotoURLs))
		copy(urls, a.PhotoURLs)
		a.PhotoURLs = urls
	}
	return a
}

// DisplayDate возвращает дату акта в формате ДД.ММ.ГГГГ.
func (a Act) DisplayDate() string {
	return a.Date.Format(DisplayDateLayout)
}

// HasPhotos сообщает, есть ли у акта хотя бы один адрес фотографии.
func (a Act) HasPhotos() bool {
	return len(a.PhotoURLs) > 0
}

// Validate проверяет слабые инварианты акта: известный статус и
// неотрицательные счётчики.
func (a Act) Validate() error {
	if !a.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, string(a.Status))
	}
	if a.Photos < 0 {
		return fmt.Errorf("photos: отрицательное значение %d", a.Photos)
	}
	if a.Certificates < 0 {
		return fmt.Errorf("certificates: отрицательное значение %d", a.Certificates)
	}
	return nil
}

// ParseDate разбирает дату в формате ГГГГ-ММ-ДД.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// MustDate — ParseDate для статических данных; паникует при ошибке.
func MustDate(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Stats — агрегированные счётчики реестра.
type Stats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

// ComputeStats подсчитывает акты по статусам.
// Для актов с известными статусами Approved+Pending+Rejected == Total.
func ComputeStats(acts []Act) Stats {
	s := Stats{Total: len(acts)}
	for _, a := range acts {
		switch a.Status {
		case StatusApproved:
			s.Approved++
		case StatusPending:
			s.Pending++
		case StatusRejected:
			s.Rejected++
		}
	}
	return s
}
