package model

// Project — объект строительства, доступный для выбора в форме создания акта.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultProjects — проекты формы создания акта.
var DefaultProjects = []Project{
	{ID: "project1", Name: `ЖК "Новый горизонт"`},
	{ID: "project2", Name: `ТЦ "Метрополис"`},
	{ID: "project3", Name: `Бизнес-центр "Альфа"`},
}

// FindProject ищет проект по ID.
func FindProject(projects []Project, id string) (Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}
