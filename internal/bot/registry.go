package bot

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry holds the loaded cogs and indexes their commands and listeners.
// It is populated before dispatch starts; the lock only matters for reloads.
type Registry struct {
	mu              sync.RWMutex
	caseInsensitive bool

	cogs      []*Cog
	commands  map[string]*Command
	slash     map[string]*SlashCommand
	listeners map[EventType][]ListenerBinding
}

// NewRegistry creates a new empty registry.
func NewRegistry(caseInsensitive bool) *Registry {
	return &Registry{
		caseInsensitive: caseInsensitive,
		commands:        make(map[string]*Command),
		slash:           make(map[string]*SlashCommand),
		listeners:       make(map[EventType][]ListenerBinding),
	}
}

func (r *Registry) key(name string) string {
	if r.caseInsensitive {
		return strings.ToLower(name)
	}
	return name
}

// Register adds a cog's commands and listeners. On error nothing is added.
func (r *Registry) Register(cog *Cog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.validate(cog); err != nil {
		return err
	}

	for _, c := range cog.Commands {
		c.module = cog.Name
		r.commands[r.key(c.Name)] = c
		for _, alias := range c.Aliases {
			r.commands[r.key(alias)] = c
		}
	}
	for _, c := range cog.SlashCommands {
		c.module = cog.Name
		r.slash[c.Name()] = c
	}
	for _, l := range cog.Listeners {
		l.Module = cog.Name
		r.listeners[l.Event] = append(r.listeners[l.Event], l)
	}
	r.cogs = append(r.cogs, cog)

	return nil
}

// validate checks cog against the current contents. Caller holds the lock.
func (r *Registry) validate(cog *Cog) error {
	for _, existing := range r.cogs {
		if existing.Name == cog.Name {
			return fmt.Errorf("failed to register module %s: %w", cog.Name, ErrDuplicateModule)
		}
	}

	seen := make(map[string]string)
	for _, c := range cog.Commands {
		if c.Name == "" || c.Handler == nil {
			return fmt.Errorf("command of module %s needs a name and a handler", cog.Name)
		}
		for _, name := range append([]string{c.Name}, c.Aliases...) {
			k := r.key(name)
			if existing, ok := r.commands[k]; ok {
				return &DuplicateCommandError{Name: name, Module: cog.Name, Existing: existing.module}
			}
			if _, ok := seen[k]; ok {
				return &DuplicateCommandError{Name: name, Module: cog.Name, Existing: cog.Name}
			}
			seen[k] = c.Name
		}
		if err := validateParams(c); err != nil {
			return err
		}
	}

	seenSlash := make(map[string]struct{})
	for _, c := range cog.SlashCommands {
		if c.Definition == nil || c.Definition.Name == "" || c.Handler == nil {
			return fmt.Errorf("slash command of module %s needs a definition and a handler", cog.Name)
		}
		name := c.Name()
		if existing, ok := r.slash[name]; ok {
			return &DuplicateCommandError{Name: name, Module: cog.Name, Existing: existing.module, Structured: true}
		}
		if _, ok := seenSlash[name]; ok {
			return &DuplicateCommandError{Name: name, Module: cog.Name, Existing: cog.Name, Structured: true}
		}
		seenSlash[name] = struct{}{}
	}

	seenEvents := make(map[EventType]struct{})
	for _, l := range cog.Listeners {
		if _, ok := seenEvents[l.Event]; ok {
			return fmt.Errorf("failed to register %s listener of module %s: %w",
				l.Event, cog.Name, ErrDuplicateListener)
		}
		seenEvents[l.Event] = struct{}{}
	}

	return nil
}

func validateParams(c *Command) error {
	names := make(map[string]struct{}, len(c.Params))
	for i, p := range c.Params {
		if _, ok := names[p.Name]; ok || p.Name == "" {
			return fmt.Errorf("command %s has an invalid or repeated parameter name %q", c.Name, p.Name)
		}
		names[p.Name] = struct{}{}
		if p.Rest && i != len(c.Params)-1 {
			return fmt.Errorf("command %s: rest parameter %s must be last", c.Name, p.Name)
		}
	}
	return nil
}

// Unregister removes a cog and everything it declared.
// It reports whether the cog was registered.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.IndexFunc(r.cogs, func(c *Cog) bool { return c.Name == name })
	if idx < 0 {
		return false
	}
	cog := r.cogs[idx]
	r.cogs = slices.Delete(r.cogs, idx, idx+1)

	for _, c := range cog.Commands {
		delete(r.commands, r.key(c.Name))
		for _, alias := range c.Aliases {
			delete(r.commands, r.key(alias))
		}
	}
	for _, c := range cog.SlashCommands {
		delete(r.slash, c.Name())
	}
	for event, bindings := range r.listeners {
		r.listeners[event] = slices.DeleteFunc(slices.Clone(bindings), func(l ListenerBinding) bool {
			return l.Module == name
		})
	}

	return true
}

// Command resolves a command by name or alias.
func (r *Registry) Command(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[r.key(name)]
	return c, ok
}

// SlashCommand resolves a structured command by exact name.
func (r *Registry) SlashCommand(name string) (*SlashCommand, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.slash[name]
	return c, ok
}

// Listeners returns the listeners for an event type in registration order.
func (r *Registry) Listeners(event EventType) []ListenerBinding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.listeners[event])
}

// Cogs returns a snapshot of the registered cogs in registration order.
func (r *Registry) Cogs() []*Cog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Return a copy to prevent external modification
	return slices.Clone(r.cogs)
}

// Commands returns all text commands in registration order.
func (r *Registry) Commands() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var commands []*Command
	for _, cog := range r.cogs {
		commands = append(commands, cog.Commands...)
	}
	return commands
}

// SlashCommands returns all structured commands in registration order.
func (r *Registry) SlashCommands() []*SlashCommand {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var commands []*SlashCommand
	for _, cog := range r.cogs {
		commands = append(commands, cog.SlashCommands...)
	}
	return commands
}
