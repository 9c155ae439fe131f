package usecase

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"spreedly-bot/internal/domain/model"
)

//go:embed commands.yaml
var commandsYAML []byte

var (
	ErrEmptyCommand   = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingToken   = errors.New("missing token")
)

// CommandSpec describes one supported command usage.
type CommandSpec struct {
	Command       string `yaml:"command"`
	Type          string `yaml:"type"`
	Usage         string `yaml:"usage"`
	Description   string `yaml:"description"`
	RequiresToken bool   `yaml:"requires_token"`
}

// CommandCatalog is the ordered set of commands the bot understands.
type CommandCatalog struct {
	specs []CommandSpec
}

// LoadCommandCatalog parses the catalog embedded in the binary.
func LoadCommandCatalog() (*CommandCatalog, error) {
	return ParseCommandCatalog(commandsYAML)
}

// ParseCommandCatalog parses a YAML list of command specs.
func ParseCommandCatalog(data []byte) (*CommandCatalog, error) {
	var specs []CommandSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("decode command catalog: %w", err)
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("command catalog is empty")
	}

	seen := make(map[string]struct{}, len(specs))
	for i, spec := range specs {
		spec.Command = strings.ToLower(strings.TrimSpace(spec.Command))
		spec.Type = strings.ToLower(strings.TrimSpace(spec.Type))
		if spec.Command == "" || spec.Usage == "" {
			return nil, fmt.Errorf("command catalog entry %d: command and usage are required", i)
		}

		key := spec.Command + " " + spec.Type
		if _, exists := seen[key]; exists {
			return nil, fmt.Errorf("command catalog entry %d: duplicate %q", i, key)
		}
		seen[key] = struct{}{}
		specs[i] = spec
	}

	return &CommandCatalog{specs: specs}, nil
}

// Specs returns the command specs in declaration order.
func (c *CommandCatalog) Specs() []CommandSpec {
	out := make([]CommandSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Lookup finds the spec for a command/type pair.
func (c *CommandCatalog) Lookup(command, typ string) (CommandSpec, bool) {
	for _, spec := range c.specs {
		if spec.Command == command && spec.Type == typ {
			return spec, true
		}
	}
	return CommandSpec{}, false
}

// Parse turns chat text such as "show gateway T1" into a Command. Leading
// mentions ("@bot", "<@U123>") are ignored. Command and type are matched
// case-insensitively; the token is kept verbatim.
func (c *CommandCatalog) Parse(text string) (model.Command, error) {
	fields := strings.Fields(text)
	for len(fields) > 0 && isMention(fields[0]) {
		fields = fields[1:]
	}

	if len(fields) == 0 {
		return model.Command{}, ErrEmptyCommand
	}
	if len(fields) > 3 {
		return model.Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, strings.Join(fields, " "))
	}

	cmd := model.Command{Name: strings.ToLower(fields[0])}
	if len(fields) > 1 {
		cmd.Type = strings.ToLower(fields[1])
	}
	if len(fields) > 2 {
		cmd.Token = fields[2]
	}

	spec, ok := c.Lookup(cmd.Name, cmd.Type)
	if !ok {
		return model.Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, strings.Join(fields, " "))
	}

	if spec.RequiresToken && cmd.Token == "" {
		return model.Command{}, fmt.Errorf("%w: usage is %q", ErrMissingToken, spec.Usage)
	}
	if !spec.RequiresToken && cmd.Token != "" {
		return model.Command{}, fmt.Errorf("%w: %q takes no token", ErrUnknownCommand, spec.Usage)
	}

	return cmd, nil
}

func isMention(field string) bool {
	return strings.HasPrefix(field, "@") || strings.HasPrefix(field, "<@")
}
