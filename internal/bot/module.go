package bot

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ModuleDependencies provides dependencies that modules may need during setup.
type ModuleDependencies struct {
	Config   *Config
	Logger   *slog.Logger
	Registry *Registry
	// Session is nil when the bot runs without a gateway connection (tests).
	Session *discordgo.Session
	// Latency reports the gateway heartbeat latency.
	Latency func() time.Duration
	// SelfID reports the bot's user ID once connected.
	SelfID func() string
}

// Module is a unit of features discovered in the catalog.
type Module interface {
	// Name returns the unique identifier for this module.
	Name() string
}

// SetupModule is implemented by modules that register commands and listeners.
// Modules without it are skipped during discovery.
type SetupModule interface {
	Module

	// Setup declares the module's commands and listeners on b.
	Setup(b *Builder) error
}

// ConfigurableModule is an optional interface for modules that need configuration.
// Modules implementing this interface will have LoadConfig called before Setup.
type ConfigurableModule interface {
	// LoadConfig loads and validates module-specific configuration.
	// Should return an error if required configuration is missing or invalid.
	LoadConfig() error
}

// ShutdownModule is an optional interface for modules holding resources.
type ShutdownModule interface {
	// Shutdown gracefully shuts down the module.
	Shutdown() error
}

// ListenerBinding is a listener bound to one event type by a module.
type ListenerBinding struct {
	Module   string
	Event    EventType
	Listener Listener
}

// Cog is the set of commands and listeners declared by one module.
type Cog struct {
	Name     string
	Category string

	Commands      []*Command
	SlashCommands []*SlashCommand
	Listeners     []ListenerBinding
}

// Builder collects a module's declarations during Setup.
type Builder struct {
	deps ModuleDependencies
	cog  *Cog
}

// NewBuilder creates a Builder for a module.
func NewBuilder(name, category string, deps ModuleDependencies) *Builder {
	return &Builder{
		deps: deps,
		cog:  &Cog{Name: name, Category: category},
	}
}

// Deps returns the dependencies available to the module.
func (b *Builder) Deps() ModuleDependencies {
	return b.deps
}

// Command declares a text command.
func (b *Builder) Command(c *Command) {
	b.cog.Commands = append(b.cog.Commands, c)
}

// SlashCommand declares a structured command.
func (b *Builder) SlashCommand(c *SlashCommand) {
	b.cog.SlashCommands = append(b.cog.SlashCommands, c)
}

// Listen binds a listener to an event type.
func (b *Builder) Listen(event EventType, l Listener) {
	b.cog.Listeners = append(b.cog.Listeners, ListenerBinding{
		Module:   b.cog.Name,
		Event:    event,
		Listener: l,
	})
}

// Cog returns the declarations collected so far.
func (b *Builder) Cog() *Cog {
	return b.cog
}
