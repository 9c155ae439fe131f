// Package slack renders display payloads as Slack message attachments.
package slack

import (
	"spreedly-bot/internal/domain/model"
)

const responseInChannel = "in_channel"

// Field is one attachment field.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Attachment is one display group.
type Attachment struct {
	Fallback string  `json:"fallback"`
	Color    string  `json:"color"`
	Title    string  `json:"title"`
	Fields   []Field `json:"fields"`
}

// Message is the body of a slash-command reply.
type Message struct {
	ResponseType string       `json:"response_type"`
	Attachments  []Attachment `json:"attachments"`
}

// Render converts a payload into a Slack message, one attachment per group.
func Render(payload model.DisplayPayload) Message {
	attachments := make([]Attachment, 0, len(payload.Groups))
	for _, group := range payload.Groups {
		fields := make([]Field, 0, len(group.Fields))
		for _, field := range group.Fields {
			fields = append(fields, Field{
				Title: field.Title,
				Value: field.Text(),
				Short: field.Short,
			})
		}
		attachments = append(attachments, Attachment{
			Fallback: group.Label,
			Color:    string(payload.Accent),
			Title:    group.Label,
			Fields:   fields,
		})
	}

	return Message{
		ResponseType: responseInChannel,
		Attachments:  attachments,
	}
}
