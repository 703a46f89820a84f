package events

import (
	"strconv"
	"time"
)

const (
	ProductCreated  = "product_created"
	ProductUpdated  = "product_updated"
	ProductDeleted  = "product_deleted"
	CategoryCreated = "category_created"
	CategoryDeleted = "category_deleted"
)

type Event struct {
	Type    string    `json:"type"`
	ID      uint      `json:"id"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

func New(typ string, id uint, payload any) Event {
	return Event{Type: typ, ID: id, At: time.Now().UTC(), Payload: payload}
}

// Key partitions events by entity kind and id.
func (e Event) Key() string {
	return e.Type + ":" + strconv.FormatUint(uint64(e.ID), 10)
}
