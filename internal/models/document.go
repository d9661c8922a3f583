package models

import (
	"time"

	"github.com/iudanet/todoist/pkg/api"
)

// Frame представляет фрейм верхнего уровня, привязанный к одной сессии клиента
type Frame struct {
	CreatedAt time.Time `json:"created_at"` // время открытия сессии
	ID        string    `json:"id"`         // UUID сессии
	Target    string    `json:"target"`     // имя фрейма, запрошенное клиентом
	Title     string    `json:"title"`      // заголовок фрейма
	Client    string    `json:"client"`     // имя клиента из токена
}

// Element представляет узел дерева документа
type Element struct {
	Styles   map[string]string `json:"styles,omitempty"` // inline CSS свойства
	FrameID  string            `json:"frame_id"`         // фрейм-владелец
	Tag      string            `json:"tag"`              // имя тега (div, p, button, ...)
	HTMLID   string            `json:"html_id"`          // атрибут id, может быть пустым
	Text     string            `json:"text"`             // собственный текст элемента
	Location api.Location      `json:"location"`         // монотонно выдаваемый сервером адрес
	Parent   api.Location      `json:"parent"`           // адрес родителя, 0 означает body
}

// EventInterest представляет подписку клиента на событие элемента
type EventInterest struct {
	FrameID     string        `json:"frame_id"`
	Event       string        `json:"event"`       // имя события, например "click"
	Correlation string        `json:"correlation"` // данные, возвращаемые клиенту вместе с событием
	Location    api.Location  `json:"location"`
	Requestor   api.Requestor `json:"requestor"` // тег, возвращаемый в EVENT
}

// DialogKind различает информационные диалоги и диалоги ввода
type DialogKind string

const (
	DialogKindMessage DialogKind = "message"
	DialogKindInput   DialogKind = "input"
)

// Dialog представляет диалог, показанный пользователю
type Dialog struct {
	CreatedAt time.Time     `json:"created_at"`
	FrameID   string        `json:"frame_id"`
	Kind      DialogKind    `json:"kind"`
	Title     string        `json:"title"`
	Text      string        `json:"text"`  // сообщение или приглашение ко вводу
	Value     string        `json:"value"` // начальное значение поля ввода
	ID        int64         `json:"id"`
	Requestor api.Requestor `json:"requestor"` // тег DIALOG_INPUT, возвращаемый в DIALOG_RETURN
	Answered  bool          `json:"answered"`
}
