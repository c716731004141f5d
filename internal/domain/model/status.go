package model

import (
	"errors"
	"fmt"
)

// ErrUnknownStatus — статус вне закрытого перечисления.
var ErrUnknownStatus = errors.New("неизвестный статус акта")

// Status — статус акта. Закрытое перечисление: pending, approved, rejected.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Statuses — все допустимые статусы в порядке отображения.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

// Valid сообщает, принадлежит ли статус перечислению.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ParseStatus проверяет строку и возвращает Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// Variant — вариант оформления бейджа статуса.
type Variant int

const (
	VariantNeutral Variant = iota
	VariantPositive
	VariantNegative
)

func (v Variant) String() string {
	switch v {
	case VariantPositive:
		return "positive"
	case VariantNegative:
		return "negative"
	default:
		return "neutral"
	}
}

// MarshalText сериализует вариант строкой (neutral, positive, negative).
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText разбирает строковое представление варианта.
func (v *Variant) UnmarshalText(b []byte) error {
	switch string(b) {
	case "neutral":
		*v = VariantNeutral
	case "positive":
		*v = VariantPositive
	case "negative":
		*v = VariantNegative
	default:
		return fmt.Errorf("неизвестный вариант бейджа %q", string(b))
	}
	return nil
}

// Badge — отображение статуса: подпись, иконка, вариант.
type Badge struct {
	// Label — подпись на русском (язык по умолчанию)
	Label string `json:"label"`
	// LabelKey — ключ i18n-каталога для подписи
	LabelKey string `json:"label_key"`
	// Icon — токен иконки
	Icon string `json:"icon"`
	// Variant — вариант оформления
	Variant Variant `json:"variant"`
}

// Classify отображает статус в бейдж. Для значений вне перечисления
// возвращает ErrUnknownStatus.
func Classify(s Status) (Badge, error) {
	switch s {
	case StatusPending:
		return Badge{Label: "На рассмотрении", LabelKey: "status.pending", Icon: "Clock", Variant: VariantNeutral}, nil
	case StatusApproved:
		return Badge{Label: "Утвержден", LabelKey: "status.approved", Icon: "CheckCircle2", Variant: VariantPositive}, nil
	case StatusRejected:
		return Badge{Label: "Отклонен", LabelKey: "status.rejected", Icon: "XCircle", Variant: VariantNegative}, nil
	}
	return Badge{}, fmt.Errorf("%w: %q", ErrUnknownStatus, string(s))
}
