package pages

import (
	"github.com/bigkaa/stroydoc/internal/domain/appstate"
	"github.com/bigkaa/stroydoc/internal/domain/draft"
	"github.com/bigkaa/stroydoc/internal/domain/gallery"
	"github.com/bigkaa/stroydoc/internal/domain/model"
	"github.com/bigkaa/stroydoc/internal/ui/i18n"
)

// UserInfo — пользователь в подвале боковой панели.
type UserInfo struct {
	Name     string
	Position string
}

// DashboardInput — данные для построения страницы.
type DashboardInput struct {
	Lang     string
	User     UserInfo
	State    appstate.State
	Notice   *appstate.Notice
	Acts     []model.Act
	Projects []model.Project
}

// DashboardView — данные шаблона страницы.
type DashboardView struct {
	Lang       string
	User       UserInfo
	SectionKey string
	Nav        []NavView
	Languages  []LanguageView
	Notice     *appstate.Notice
	Stats      model.Stats
	Acts       []ActView
	Dialog     *DialogView
	Gallery    *GalleryView
}

// NavView — пункт навигации.
type NavView struct {
	Section  appstate.Section
	LabelKey string
	Icon     string
	Active   bool
}

// LanguageView — кнопка выбора языка.
type LanguageView struct {
	Code     string
	LabelKey string
	Active   bool
}

// ActView — строка списка актов.
type ActView struct {
	ID           string
	Number       string
	Title        string
	Project      string
	Date         string
	Badge        model.Badge
	Photos       int
	Certificates int
}

// DialogView — диалог создания акта.
type DialogView struct {
	Fields         draft.Fields
	Projects       []ProjectOption
	Images         int
	Documents      int
	ImageAccept    string
	DocumentAccept string
	MaxSizeMB      int
	// Errors — переведённые сообщения об ошибках полей
	Errors map[string]string
}

// ProjectOption — вариант выбора проекта.
type ProjectOption struct {
	ID       string
	Name     string
	Selected bool
}

// GalleryView — галерея фотографий выбранного акта.
type GalleryView struct {
	ActID       string
	Number      string
	Title       string
	Placeholder bool
	Current     string
	// Position — номер текущей фотографии с единицы
	Position int
	Total    int
	Thumbs   []ThumbView
}

// ThumbView — миниатюра галереи.
type ThumbView struct {
	Index  int
	URL    string
	Active bool
}

var languages = []LanguageView{
	{Code: "ru", LabelKey: "lang.ru"},
	{Code: "en", LabelKey: "lang.en"},
}

// NewDashboardView строит данные страницы из состояния сессии и реестра.
// Акты с неизвестным статусом пропускаются. Галерея показывается, только
// если выбранный акт есть в acts.
func NewDashboardView(in DashboardInput) DashboardView {
	v := DashboardView{
		Lang:       in.Lang,
		User:       in.User,
		SectionKey: in.State.Section.LabelKey(),
		Notice:     in.Notice,
		Stats:      model.ComputeStats(in.Acts),
		Acts:       make([]ActView, 0, len(in.Acts)),
	}

	for _, item := range appstate.NavItems {
		v.Nav = append(v.Nav, NavView{
			Section:  item.Section,
			LabelKey: item.LabelKey,
			Icon:     item.Icon,
			Active:   item.Section == in.State.Section,
		})
	}
	for _, l := range languages {
		l.Active = l.Code == in.Lang
		v.Languages = append(v.Languages, l)
	}

	for _, a := range in.Acts {
		badge, err := model.Classify(a.Status)
		if err != nil {
			continue
		}
		v.Acts = append(v.Acts, ActView{
			ID:           a.ID,
			Number:       a.Number,
			Title:        a.Title,
			Project:      a.Project,
			Date:         a.DisplayDate(),
			Badge:        badge,
			Photos:       a.Photos,
			Certificates: a.Certificates,
		})
	}

	if in.State.DialogOpen {
		v.Dialog = newDialogView(in.Lang, in.State, in.Projects)
	}
	if in.State.Gallery.Open {
		v.Gallery = newGalleryView(in.State.Gallery, in.Acts)
	}
	return v
}

func newDialogView(lang string, st appstate.State, projects []model.Project) *DialogView {
	d := &DialogView{
		Fields:         st.Draft.Fields,
		Images:         len(st.Draft.Images),
		Documents:      len(st.Draft.Documents),
		ImageAccept:    draft.KindImage.Accept(),
		DocumentAccept: draft.KindDocument.Accept(),
		MaxSizeMB:      draft.MaxFileSizeHint >> 20,
		Errors:         make(map[string]string, len(st.FieldErrors)),
	}
	for _, p := range projects {
		d.Projects = append(d.Projects, ProjectOption{
			ID:       p.ID,
			Name:     p.Name,
			Selected: p.ID == st.Draft.Fields.Project,
		})
	}
	for field, code := range st.FieldErrors {
		d.Errors[field] = i18n.TLang(lang, "validation."+code)
	}
	return d
}

func newGalleryView(g gallery.State, acts []model.Act) *GalleryView {
	var act *model.Act
	for i := range acts {
		if acts[i].ID == g.ActID {
			act = &acts[i]
			break
		}
	}
	if act == nil {
		return nil
	}

	v := &GalleryView{
		ActID:       act.ID,
		Number:      act.Number,
		Title:       act.Title,
		Placeholder: g.Placeholder(),
		Position:    g.Index + 1,
		Total:       g.Len(),
	}
	v.Current, _ = g.Current()
	for i, url := range g.Photos {
		v.Thumbs = append(v.Thumbs, ThumbView{Index: i, URL: url, Active: i == g.Index})
	}
	return v
}
