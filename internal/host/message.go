package host

import (
	"encoding/json"
	"fmt"

	"github.com/jmylchreest/toastd/internal/model"
)

// MessageType identifies an inbound host message.
type MessageType string

const (
	TypeShowNotification MessageType = "SHOW_NOTIFICATION"
	TypeShowPage         MessageType = "SHOW_PAGE"
	TypeClosePage        MessageType = "CLOSE_PAGE"
	TypeKeyDown          MessageType = "KEYDOWN"
	TypeDismiss          MessageType = "DISMISS"
)

// Known reports whether t is a recognized message type.
func (t MessageType) Known() bool {
	switch t {
	case TypeShowNotification, TypeShowPage, TypeClosePage, TypeKeyDown, TypeDismiss:
		return true
	}
	return false
}

// Message is the envelope every transport hands to the dispatcher.
type Message struct {
	Type         MessageType    `json:"type"`
	Notification *model.Payload `json:"notification,omitempty"`
	Key          string         `json:"key,omitempty"`
	ID           string         `json:"id,omitempty"`
}

// ParseMessage decodes a JSON envelope.
func ParseMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("failed to decode host message: %w", err)
	}
	if m.Type == "" {
		return Message{}, fmt.Errorf("host message has no type")
	}
	return m, nil
}

// ShowNotification builds a SHOW_NOTIFICATION message.
func ShowNotification(p model.Payload) Message {
	return Message{Type: TypeShowNotification, Notification: &p}
}

// ShowPage builds a SHOW_PAGE message.
func ShowPage() Message {
	return Message{Type: TypeShowPage}
}

// ClosePage builds a CLOSE_PAGE message.
func ClosePage() Message {
	return Message{Type: TypeClosePage}
}

// KeyDown builds a KEYDOWN message.
func KeyDown(key string) Message {
	return Message{Type: TypeKeyDown, Key: key}
}

// Dismiss builds a DISMISS message.
func Dismiss(id string) Message {
	return Message{Type: TypeDismiss, ID: id}
}
