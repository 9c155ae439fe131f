package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"spreedly-bot/internal/domain/model"
	"spreedly-bot/internal/domain/ports"
)

const (
	maxEmbedsPerMessage = 10
	maxFieldsPerEmbed   = 25
	maxCharsPerMessage  = 6000
	colorGood           = 0x2EB886
	colorDanger         = 0xD40E0D
	colorDefault        = 0x5865F2
)

// Webhook is a Discord webhook notifier.
type Webhook struct {
	webhookURL string
	botName    string
	httpClient *http.Client
	logger     ports.Logger
	now        func() time.Time
}

var _ ports.Notifier = (*Webhook)(nil)

// NewWebhook creates a new Discord webhook notifier.
func NewWebhook(webhookURL, botName string, timeout time.Duration, logger ports.Logger) *Webhook {
	return &Webhook{
		webhookURL: webhookURL,
		botName:    botName,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Fields    []embedField `json:"fields"`
	Timestamp string       `json:"timestamp"`
}

// chars counts what Discord charges against the per-message text limit.
func (e embed) chars() int {
	n := utf8.RuneCountInString(e.Title)
	for _, f := range e.Fields {
		n += utf8.RuneCountInString(f.Name) + utf8.RuneCountInString(f.Value)
	}
	return n
}

// Send posts the payload to Discord, one embed per group. Payloads that exceed
// the per-message embed count or text limit are split across several messages.
func (w *Webhook) Send(ctx context.Context, payload model.DisplayPayload) error {
	if w.webhookURL == "" {
		return fmt.Errorf("webhook URL is empty")
	}

	for _, batch := range batchEmbeds(w.buildEmbeds(payload)) {
		if err := w.post(ctx, batch); err != nil {
			return err
		}
	}

	if w.logger != nil {
		w.logger.Info(ctx, "payload sent to discord", "groups", len(payload.Groups), "type", payload.Context.Type)
	}
	return nil
}

// batchEmbeds packs embeds into messages of at most 10 embeds and 6000 characters.
func batchEmbeds(embeds []embed) [][]embed {
	var batches [][]embed
	var current []embed
	total := 0
	for _, e := range embeds {
		n := e.chars()
		if len(current) > 0 && (len(current) == maxEmbedsPerMessage || total+n > maxCharsPerMessage) {
			batches = append(batches, current)
			current, total = nil, 0
		}
		current = append(current, e)
		total += n
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}

func (w *Webhook) post(ctx context.Context, embeds []embed) error {
	body, err := json.Marshal(map[string]any{
		"username": w.botName,
		"content":  "",
		"embeds":   embeds,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (w *Webhook) buildEmbeds(payload model.DisplayPayload) []embed {
	color := accentColor(payload.Accent)
	timestamp := w.now().UTC().Format(time.RFC3339)

	embeds := make([]embed, 0, len(payload.Groups))
	for _, group := range payload.Groups {
		fields := convertFields(group.Fields)
		title := truncate(group.Label, 256)

		// Groups that do not fit one embed continue in further embeds with the same title.
		for _, chunk := range chunkFields(fields, maxCharsPerMessage-utf8.RuneCountInString(title)) {
			embeds = append(embeds, embed{Title: title, Color: color, Fields: chunk, Timestamp: timestamp})
		}
	}
	return embeds
}

// chunkFields splits fields into runs of at most 25 fields and budget characters.
// It always returns at least one (possibly empty) chunk.
func chunkFields(fields []embedField, budget int) [][]embedField {
	chunks := [][]embedField{}
	current := []embedField{}
	total := 0
	for _, f := range fields {
		n := utf8.RuneCountInString(f.Name) + utf8.RuneCountInString(f.Value)
		if len(current) > 0 && (len(current) == maxFieldsPerEmbed || total+n > budget) {
			chunks = append(chunks, current)
			current, total = []embedField{}, 0
		}
		current = append(current, f)
		total += n
	}
	return append(chunks, current)
}

func accentColor(accent model.Accent) int {
	switch accent {
	case model.AccentGood:
		return colorGood
	case model.AccentDanger:
		return colorDanger
	default:
		return colorDefault
	}
}

func convertFields(fields []model.FieldEntry) []embedField {
	result := make([]embedField, 0, len(fields))
	for _, field := range fields {
		value := field.Text()
		if value == "" {
			// Discord rejects empty field values.
			value = "\u200b"
		}
		result = append(result, embedField{
			Name:   truncate(field.Title, 256),
			Value:  truncate(value, 1024),
			Inline: field.Short,
		})
	}
	return result
}

// truncate limits value to limit characters, cutting on a rune boundary.
func truncate(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit-3]) + "..."
}
