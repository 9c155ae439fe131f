package usecase

import (
	"encoding/json"
	"errors"
	"fmt"

	"spreedly-bot/internal/domain/model"
)

const (
	defaultMainLabel          = "Spreedly response for %s with token %s"
	defaultFailureLabel       = "Spreedly request failed for %s with token %s"
	defaultNotRecognizedLabel = "Sorry, I did not recognize that command."
)

// FormatterConfig holds the presentation constants used when building payloads.
// MainLabel and FailureLabel are fmt templates taking the type and the token.
type FormatterConfig struct {
	MainLabel          string
	FailureLabel       string
	NotRecognizedLabel string
	Accent             model.Accent
	FailureAccent      model.Accent
}

// DefaultFormatterConfig returns the labels and accents used in production.
func DefaultFormatterConfig() FormatterConfig {
	return FormatterConfig{
		MainLabel:          defaultMainLabel,
		FailureLabel:       defaultFailureLabel,
		NotRecognizedLabel: defaultNotRecognizedLabel,
		Accent:             model.AccentGood,
		FailureAccent:      model.AccentDanger,
	}
}

// ResponseFormatter turns decoded API records into display payloads. It holds
// no mutable state and is safe for concurrent use.
type ResponseFormatter struct {
	cfg     FormatterConfig
	catalog *CommandCatalog
}

// NewResponseFormatter constructs a formatter. Empty config fields fall back to defaults.
func NewResponseFormatter(cfg FormatterConfig, catalog *CommandCatalog) *ResponseFormatter {
	defaults := DefaultFormatterConfig()
	if cfg.MainLabel == "" {
		cfg.MainLabel = defaults.MainLabel
	}
	if cfg.FailureLabel == "" {
		cfg.FailureLabel = defaults.FailureLabel
	}
	if cfg.NotRecognizedLabel == "" {
		cfg.NotRecognizedLabel = defaults.NotRecognizedLabel
	}
	if cfg.Accent == "" {
		cfg.Accent = defaults.Accent
	}
	if cfg.FailureAccent == "" {
		cfg.FailureAccent = defaults.FailureAccent
	}
	return &ResponseFormatter{cfg: cfg, catalog: catalog}
}

// Format flattens record into groups. Scalar, null and array fields go to the
// main group, which always comes first. Each nested record becomes its own
// group labelled with its key, in the order the keys appear. Nesting below
// that level is passed through untouched.
func (f *ResponseFormatter) Format(record *model.Record, typ, token string) model.DisplayPayload {
	main := model.DisplayGroup{
		Label:  fmt.Sprintf(f.cfg.MainLabel, typ, token),
		Fields: make([]model.FieldEntry, 0, record.Len()),
	}
	var nested []model.DisplayGroup

	record.Each(func(key string, value model.Value) {
		switch value.Kind() {
		case model.KindRecord:
			sub := value.Record()
			group := model.DisplayGroup{
				Label:  key,
				Fields: make([]model.FieldEntry, 0, sub.Len()),
			}
			sub.Each(func(subKey string, subValue model.Value) {
				group.Fields = append(group.Fields, model.FieldEntry{
					Title: subKey,
					Value: subValue.Interface(),
					Short: true,
				})
			})
			nested = append(nested, group)
		default:
			main.Fields = append(main.Fields, model.FieldEntry{
				Title: key,
				Value: displayValue(value),
				Short: true,
			})
		}
	})

	groups := make([]model.DisplayGroup, 0, len(nested)+1)
	groups = append(groups, main)
	groups = append(groups, nested...)

	return model.DisplayPayload{
		Groups:  groups,
		Context: model.DisplayContext{Type: typ, Token: token},
		Accent:  f.cfg.Accent,
	}
}

// Help lists every supported command usage, one group per command.
func (f *ResponseFormatter) Help() model.DisplayPayload {
	var specs []CommandSpec
	if f.catalog != nil {
		specs = f.catalog.Specs()
	}

	groups := make([]model.DisplayGroup, 0, len(specs))
	for _, spec := range specs {
		groups = append(groups, model.DisplayGroup{
			Label: spec.Usage,
			Fields: []model.FieldEntry{
				{Title: "description", Value: spec.Description, Short: false},
			},
		})
	}

	return model.DisplayPayload{
		Groups:  groups,
		Context: model.DisplayContext{Type: "help"},
		Accent:  f.cfg.Accent,
	}
}

// FormatError is the reply to a command the bot does not understand: the help
// payload with a "not recognized" notice in front.
func (f *ResponseFormatter) FormatError() model.DisplayPayload {
	help := f.Help()
	groups := make([]model.DisplayGroup, 0, len(help.Groups)+1)
	groups = append(groups, model.DisplayGroup{
		Label:  f.cfg.NotRecognizedLabel,
		Fields: []model.FieldEntry{},
	})
	help.Groups = append(groups, help.Groups...)
	return help
}

// FormatFailure reports an API call that did not succeed.
func (f *ResponseFormatter) FormatFailure(typ, token string, err error) model.DisplayPayload {
	group := model.DisplayGroup{Label: fmt.Sprintf(f.cfg.FailureLabel, typ, token)}

	var gwErr *model.GatewayError
	if errors.As(err, &gwErr) {
		group.Fields = append(group.Fields, model.FieldEntry{Title: "status", Value: gwErr.StatusCode, Short: true})
		for _, msg := range gwErr.Messages {
			group.Fields = append(group.Fields, model.FieldEntry{Title: "error", Value: msg, Short: false})
		}
	} else if err != nil {
		group.Fields = append(group.Fields, model.FieldEntry{Title: "error", Value: err.Error(), Short: false})
	}

	return model.DisplayPayload{
		Groups:  []model.DisplayGroup{group},
		Context: model.DisplayContext{Type: typ, Token: token},
		Accent:  f.cfg.FailureAccent,
	}
}

// displayValue keeps scalars as they are and serializes null and arrays to JSON text.
func displayValue(value model.Value) any {
	switch value.Kind() {
	case model.KindScalar:
		return value.Scalar()
	case model.KindNull:
		return "null"
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value.Interface())
		}
		return string(data)
	}
}
