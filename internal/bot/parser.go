package bot

import (
	"strings"
	"unicode"
)

// Match is the result of parsing a triggered message.
type Match struct {
	// Prefix is the trigger that matched, either the configured prefix or a mention.
	Prefix      string
	InvokedWith string
	// Command is nil when the token did not resolve.
	Command *Command
	Args    Args
}

// Parser recognises command invocations in message content.
type Parser struct {
	registry *Registry
	prefix   string
	mention  bool
}

// NewParser creates a parser. When mention is true, a leading mention of the
// bot also triggers commands.
func NewParser(reg *Registry, prefix string, mention bool) *Parser {
	return &Parser{
		registry: reg,
		prefix:   prefix,
		mention:  mention,
	}
}

// Prefix returns the configured text prefix.
func (p *Parser) Prefix() string {
	return p.prefix
}

// Parse matches content against the registered commands.
//
// It returns (nil, nil) when content carries no trigger or no command token.
// When a trigger is present but resolution or argument binding fails, the
// returned Match describes what was recognised and the error is one of
// *CommandNotFoundError, *MissingRequiredArgumentError or *BadArgumentError.
func (p *Parser) Parse(content, selfID string) (*Match, error) {
	trigger, ok := p.trigger(content, selfID)
	if !ok {
		return nil, nil
	}

	rest := content[len(trigger):]
	end := strings.IndexFunc(rest, unicode.IsSpace)
	if end < 0 {
		end = len(rest)
	}
	token := rest[:end]
	if token == "" {
		return nil, nil
	}

	m := &Match{Prefix: trigger, InvokedWith: token}

	cmd, ok := p.registry.Command(token)
	if !ok {
		return m, &CommandNotFoundError{Name: token}
	}
	m.Command = cmd

	args, err := bindArgs(cmd.Params, rest[end:])
	if err != nil {
		return m, err
	}
	m.Args = args

	return m, nil
}

func (p *Parser) trigger(content, selfID string) (string, bool) {
	if p.mention && selfID != "" {
		for _, mention := range []string{"<@" + selfID + "> ", "<@!" + selfID + "> "} {
			if strings.HasPrefix(content, mention) {
				return mention, true
			}
		}
	}
	if p.prefix != "" && strings.HasPrefix(content, p.prefix) {
		return p.prefix, true
	}
	return "", false
}
