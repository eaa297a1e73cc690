package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// CommandHandler executes a command invocation.
type CommandHandler func(ctx context.Context, inv *Invocation) error

// ErrorHandler handles failures of a single command. Commands that declare
// one bypass the generic error replies.
type ErrorHandler func(ctx context.Context, inv *Invocation, err error)

// ParamType is the declared type of a text command parameter.
type ParamType int

// Parameter types.
const (
	ParamString ParamType = iota
	ParamInt
	ParamFloat
	ParamBool
	ParamUser
	ParamChannel
)

func (t ParamType) String() string {
	switch t {
	case ParamString:
		return "string"
	case ParamInt:
		return "int"
	case ParamFloat:
		return "float"
	case ParamBool:
		return "bool"
	case ParamUser:
		return "user"
	case ParamChannel:
		return "channel"
	default:
		return fmt.Sprintf("ParamType(%d)", int(t))
	}
}

// Param declares one positional parameter of a text command.
type Param struct {
	Name     string
	Type     ParamType
	Required bool
	// Default is used when an optional parameter is omitted.
	Default any
	// Rest consumes the remaining raw input. Only valid on the last parameter.
	Rest bool
}

// Command is a text command invoked through the prefix or a mention.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Params      []Param
	Handler     CommandHandler
	OnError     ErrorHandler

	Hidden    bool
	Disabled  bool
	GuildOnly bool
	// UserPermissions and BotPermissions are discordgo permission bit sets.
	UserPermissions int64
	BotPermissions  int64

	module string
}

// Module returns the name of the module that registered the command.
func (c *Command) Module() string {
	return c.module
}

// Signature renders the parameter list, e.g. "<query> [page=1]".
func (c *Command) Signature() string {
	parts := make([]string, 0, len(c.Params))
	for _, p := range c.Params {
		name := p.Name
		if p.Rest {
			name += "..."
		}
		switch {
		case p.Required:
			parts = append(parts, "<"+name+">")
		case p.Default != nil:
			parts = append(parts, fmt.Sprintf("[%s=%v]", name, p.Default))
		default:
			parts = append(parts, "["+name+"]")
		}
	}
	return strings.Join(parts, " ")
}

// SlashCommand is a structured command published to Discord and dispatched
// by exact name.
type SlashCommand struct {
	Definition *discordgo.ApplicationCommand
	Handler    CommandHandler
	OnError    ErrorHandler

	module string
}

// Name returns the command name from its definition.
func (c *SlashCommand) Name() string {
	return c.Definition.Name
}

// Module returns the name of the module that registered the command.
func (c *SlashCommand) Module() string {
	return c.module
}

// Args holds bound argument values keyed by parameter name.
type Args map[string]any

// Has reports whether the argument is present and non-nil.
func (a Args) Has(name string) bool {
	v, ok := a[name]
	return ok && v != nil
}

// String returns a string argument or "".
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Int returns an integer argument or 0.
func (a Args) Int(name string) int64 {
	switch v := a[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Float returns a float argument or 0.
func (a Args) Float(name string) float64 {
	switch v := a[name].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// Bool returns a boolean argument or false.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// ID returns a user or channel argument, or 0.
func (a Args) ID(name string) snowflake.ID {
	v, _ := a[name].(snowflake.ID)
	return v
}
