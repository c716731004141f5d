package repository

import "github.com/bigkaa/stroydoc/internal/domain/model"

// SeedActs — начальные акты реестра.
// Счётчики фотографий — отображаемые значения и не совпадают с числом адресов.
func SeedActs() []model.Act {
	return []model.Act{
		{
			ID:           "1",
			Number:       "АСР-001",
			Title:        "Акт на скрытые работы по устройству фундамента",
			Project:      `ЖК "Новый горизонт"`,
			Date:         model.MustDate("2024-11-10"),
			Status:       model.StatusApproved,
			Photos:       8,
			Certificates: 3,
			PhotoURLs: []string{
				"/static/img/foundation-1.svg",
				"/static/img/foundation-2.svg",
				"/static/img/foundation-3.svg",
				"/static/img/foundation-4.svg",
			},
		},
		{
			ID:           "2",
			Number:       "АСР-002",
			Title:        "Акт на скрытые работы по армированию плиты перекрытия",
			Project:      `ЖК "Новый горизонт"`,
			Date:         model.MustDate("2024-11-12"),
			Status:       model.StatusPending,
			Photos:       12,
			Certificates: 2,
			PhotoURLs: []string{
				"/static/img/rebar-1.svg",
				"/static/img/rebar-2.svg",
				"/static/img/rebar-3.svg",
			},
		},
		{
			ID:           "3",
			Number:       "АСР-003",
			Title:        "Акт освидетельствования скрытых работ по гидроизоляции",
			Project:      `ТЦ "Метрополис"`,
			Date:         model.MustDate("2024-11-13"),
			Status:       model.StatusApproved,
			Photos:       6,
			Certificates: 4,
			PhotoURLs: []string{
				"/static/img/waterproofing-1.svg",
				"/static/img/waterproofing-2.svg",
			},
		},
	}
}
