// Пакет gallery — навигатор галереи фотографий акта.
// Состояние {closed, open(act, index)}, переходы — чистая функция Reduce.
package gallery

// State — состояние галереи. Нулевое значение — галерея закрыта.
type State struct {
	// Open — галерея открыта
	Open bool `json:"open"`
	// ActID — слабая ссылка на выбранный акт (по ID)
	ActID string `json:"act_id,omitempty"`
	// Photos — снимок адресов фотографий на момент выбора
	Photos []string `json:"photos,omitempty"`
	// Index — текущая фотография; имеет смысл только при Len() > 0
	Index int `json:"index"`
}

// Len возвращает количество фотографий выбранного акта.
func (s State) Len() int {
	return len(s.Photos)
}

// Placeholder сообщает, что галерея открыта, но показывать нечего.
func (s State) Placeholder() bool {
	return s.Open && len(s.Photos) == 0
}

// Current возвращает адрес текущей фотографии.
func (s State) Current() (string, bool) {
	if !s.Open || s.Index < 0 || s.Index >= len(s.Photos) {
		return "", false
	}
	return s.Photos[s.Index], true
}

// Event — переход навигатора. Закрытое множество: Select, Next, Prev, Jump, Close.
type Event interface {
	isGalleryEvent()
}

// Select выбирает акт и сбрасывает индекс на первую фотографию.
type Select struct {
	ActID  string
	Photos []string
}

// Next — следующая фотография с переходом на первую после последней.
type Next struct{}

// Prev — предыдущая фотография с переходом на последнюю перед первой.
type Prev struct{}

// Jump — переход к фотографии по индексу (клик по миниатюре).
type Jump struct {
	Index int
}

// Close — закрытие галереи; выбор и индекс сбрасываются.
type Close struct{}

func (Select) isGalleryEvent() {}
func (Next) isGalleryEvent()   {}
func (Prev) isGalleryEvent()   {}
func (Jump) isGalleryEvent()   {}
func (Close) isGalleryEvent()  {}

// Reduce применяет событие к состоянию и возвращает новое состояние.
// Исходное состояние не изменяется.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case Select:
		var photos []string
		if len(e.Photos) > 0 {
			photos = make([]string, len(e.Photos))
			copy(photos, e.Photos)
		}
		return State{Open: true, ActID: e.ActID, Photos: photos, Index: 0}

	case Next:
		n := len(s.Photos)
		if !s.Open || n == 0 {
			return s
		}
		s.Index = (s.Index + 1) % n
		return s

	case Prev:
		n := len(s.Photos)
		if !s.Open || n == 0 {
			return s
		}
		s.Index = (s.Index - 1 + n) % n
		return s

	case Jump:
		if !s.Open || e.Index < 0 || e.Index >= len(s.Photos) {
			return s
		}
		s.Index = e.Index
		return s

	case Close:
		return State{}
	}
	return s
}
