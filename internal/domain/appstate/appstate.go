// Пакет appstate — состояние интерфейса одной браузерной сессии:
// активный раздел навигации, диалог создания акта, черновик, галерея,
// уведомление. Все переходы выражены чистой функцией Reduce(state, event).
package appstate

import (
	"github.com/bigkaa/stroydoc/internal/domain/draft"
	"github.com/bigkaa/stroydoc/internal/domain/gallery"
)

// Section — раздел навигации.
type Section string

const (
	SectionDashboard    Section = "dashboard"
	SectionActs         Section = "acts"
	SectionCertificates Section = "certificates"
	SectionRegistry     Section = "registry"
	SectionProjects     Section = "projects"
	SectionReports      Section = "reports"
)

// NavItem — пункт боковой навигации.
type NavItem struct {
	Section  Section
	LabelKey string
	Icon     string
}

// NavItems — пункты навигации в порядке отображения.
var NavItems = []NavItem{
	{SectionDashboard, "nav.dashboard", "LayoutDashboard"},
	{SectionActs, "nav.acts", "FileText"},
	{SectionCertificates, "nav.certificates", "Award"},
	{SectionRegistry, "nav.registry", "Database"},
	{SectionProjects, "nav.projects", "Folder"},
	{SectionReports, "nav.reports", "BarChart3"},
}

// ParseSection проверяет имя раздела.
func ParseSection(s string) (Section, bool) {
	for _, item := range NavItems {
		if string(item.Section) == s {
			return item.Section, true
		}
	}
	return "", false
}

// LabelKey возвращает ключ i18n для заголовка раздела.
func (s Section) LabelKey() string {
	for _, item := range NavItems {
		if item.Section == s {
			return item.LabelKey
		}
	}
	return "nav.dashboard"
}

// NoticeKind — вид уведомления.
type NoticeKind string

const (
	NoticeInfo  NoticeKind = "info"
	NoticeError NoticeKind = "error"
)

// Notice — одноразовое уведомление пользователю (flash).
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// State — состояние интерфейса.
type State struct {
	Section    Section       `json:"section"`
	DialogOpen bool          `json:"dialog_open"`
	Draft      draft.Draft   `json:"draft"`
	Gallery    gallery.State `json:"gallery"`
	Notice     *Notice       `json:"notice,omitempty"`
	// FieldErrors — ошибки полей последней попытки создания акта (поле → код)
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// Initial возвращает состояние новой сессии.
func Initial() State {
	return State{Section: SectionDashboard}
}

// Event — событие интерфейса.
type Event interface {
	isAppEvent()
}

// Navigate — переключение раздела навигации.
type Navigate struct{ Section Section }

// OpenDialog — открытие диалога создания акта.
type OpenDialog struct{}

// StageDraft — сохранение введённых значений в черновике.
type StageDraft struct{ Draft draft.Draft }

// RejectDraft — попытка создания не прошла валидацию; диалог остаётся открытым.
type RejectDraft struct{ FieldErrors map[string]string }

// CloseDialog — отмена или отправка формы: диалог закрывается, черновик сбрасывается.
type CloseDialog struct{}

// Gallery — событие навигатора галереи.
type Gallery struct{ Event gallery.Event }

// Notify — показ уведомления.
type Notify struct{ Notice Notice }

// DismissNotice — скрытие уведомления.
type DismissNotice struct{}

func (Navigate) isAppEvent()      {}
func (OpenDialog) isAppEvent()    {}
func (StageDraft) isAppEvent()    {}
func (RejectDraft) isAppEvent()   {}
func (CloseDialog) isAppEvent()   {}
func (Gallery) isAppEvent()       {}
func (Notify) isAppEvent()        {}
func (DismissNotice) isAppEvent() {}

// Reduce применяет событие к состоянию и возвращает новое состояние.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case Navigate:
		if _, ok := ParseSection(string(e.Section)); ok {
			s.Section = e.Section
		}

	case OpenDialog:
		s.DialogOpen = true

	case StageDraft:
		s.Draft = e.Draft

	case RejectDraft:
		s.DialogOpen = true
		s.FieldErrors = copyMap(e.FieldErrors)

	case CloseDialog:
		s.DialogOpen = false
		s.Draft = draft.Draft{}
		s.FieldErrors = nil

	case Gallery:
		s.Gallery = gallery.Reduce(s.Gallery, e.Event)

	case Notify:
		n := e.Notice
		s.Notice = &n

	case DismissNotice:
		s.Notice = nil
	}
	return s
}

// TakeNotice возвращает уведомление и состояние без него (flash читается один раз).
func TakeNotice(s State) (*Notice, State) {
	n := s.Notice
	s.Notice = nil
	return n, s
}

func copyMap(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
