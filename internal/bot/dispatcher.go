package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// PermissionResolver resolves the effective permissions of a user in a
// channel. *discordgo.Session implements it.
type PermissionResolver interface {
	UserChannelPermissions(userID, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error)
}

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	Registry   *Registry
	Parser     *Parser
	Responders ResponderFactory
	// Permissions is optional; without it permission checks are skipped.
	Permissions PermissionResolver
	// SelfID reports the bot's user ID.
	SelfID func() string
	Logger *slog.Logger
}

// Dispatcher routes events to listeners and commands.
type Dispatcher struct {
	registry    *Registry
	parser      *Parser
	router      *Router
	containment *Containment
	responders  ResponderFactory
	permissions PermissionResolver
	selfID      func() string
	logger      *slog.Logger

	wg sync.WaitGroup
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	containment := NewContainment(opts.Logger)
	selfID := opts.SelfID
	if selfID == nil {
		selfID = func() string { return "" }
	}
	return &Dispatcher{
		registry:    opts.Registry,
		parser:      opts.Parser,
		router:      NewRouter(opts.Registry, containment, opts.Logger),
		containment: containment,
		responders:  opts.Responders,
		permissions: opts.Permissions,
		selfID:      selfID,
		logger:      opts.Logger,
	}
}

// Router returns the structured-command router used by the dispatcher.
func (d *Dispatcher) Router() *Router {
	return d.router
}

// Run dispatches events from the stream until it is closed or ctx is done.
// Listeners run on the loop itself, so they see events in stream order.
// Command and interaction execution is moved to its own goroutine so a slow
// handler does not stall the stream. Run waits for in-flight executions
// before returning.
func (d *Dispatcher) Run(ctx context.Context, events <-chan Event) error {
	defer d.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-events:
			if !ok {
				return nil
			}
			if !d.deliver(ctx, e) || !executable(e) {
				continue
			}
			d.wg.Add(1)
			go func() {
				defer d.wg.Done()
				d.execute(ctx, e)
			}()
		}
	}
}

// Dispatch handles a single event: listeners first, in registration order,
// then command matching for messages and routing for interactions.
// Dispatch never panics.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	if d.deliver(ctx, e) {
		d.execute(ctx, e)
	}
}

// deliver runs the listeners for e and reports whether e should go on to
// command execution.
func (d *Dispatcher) deliver(ctx context.Context, e Event) (ok bool) {
	defer d.recoverDispatch(e, &ok)

	if d.ignored(e) {
		return false
	}
	d.notify(ctx, e)
	return true
}

// execute runs the command or structured command carried by e, if any.
func (d *Dispatcher) execute(ctx context.Context, e Event) {
	defer d.recoverDispatch(e, nil)

	switch ev := e.(type) {
	case *MessageCreateEvent:
		d.handleMessage(ctx, ev.Message)
	case *InteractionCreateEvent:
		d.handleInteraction(ctx, ev.Interaction)
	}
}

func (d *Dispatcher) recoverDispatch(e Event, ok *bool) {
	r := recover()
	if r == nil {
		return
	}
	d.logger.Error("recovered from dispatch failure",
		"event", e.Type(),
		"panic", r,
		"stack", string(debug.Stack()),
	)
	if ok != nil {
		*ok = false
	}
}

func executable(e Event) bool {
	switch e.(type) {
	case *MessageCreateEvent, *InteractionCreateEvent:
		return true
	}
	return false
}

// ignored reports whether e is a message event authored by a bot or by us.
func (d *Dispatcher) ignored(e Event) bool {
	author := eventAuthor(e)
	if author == nil {
		return false
	}
	return author.Bot || (author.ID != "" && author.ID == d.selfID())
}

// notify runs every listener for e. Listener failures are re-emitted as an
// ErrorEvent, except failures of error listeners themselves.
func (d *Dispatcher) notify(ctx context.Context, e Event) {
	for _, binding := range d.registry.Listeners(e.Type()) {
		err := d.containment.RunListener(ctx, binding, e)
		if err == nil || e.Type() == EventError {
			continue
		}
		d.notify(ctx, &ErrorEvent{Source: e.Type(), Module: binding.Module, Err: err})
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, m *discordgo.Message) {
	if m == nil || d.parser == nil {
		return
	}

	match, err := d.parser.Parse(m.Content, d.selfID())
	if match == nil && err == nil {
		return
	}

	inv := newInvocation()
	inv.Prefix = d.parser.Prefix()
	inv.Message = m
	inv.Responder = d.responders.ForMessage(m)
	if match != nil {
		inv.Prefix = match.Prefix
		inv.InvokedWith = match.InvokedWith
		inv.Command = match.Command
		if match.Args != nil {
			inv.Args = match.Args
		}
	}

	if err == nil {
		err = d.check(ctx, inv)
	}
	if err != nil {
		d.containment.HandleCommandError(ctx, inv, err)
		d.notify(ctx, &CommandErrorEvent{Invocation: inv, Err: err})
		return
	}

	d.logger.Debug("invoking command",
		"command", inv.Command.Name,
		"invocation_id", inv.ID,
		"user", authorName(m.Author),
		"guild_id", m.GuildID,
	)
	if err := d.containment.RunCommand(ctx, inv, inv.Command.Handler); err != nil {
		d.notify(ctx, &CommandErrorEvent{Invocation: inv, Err: err})
	}
}

func (d *Dispatcher) handleInteraction(ctx context.Context, i *discordgo.Interaction) {
	if i == nil {
		return
	}
	inv, err := d.router.HandleInteraction(ctx, i, d.responders.ForInteraction(i))
	if err != nil && inv != nil {
		d.notify(ctx, &CommandErrorEvent{Invocation: inv, Err: err})
	}
}

// check runs the declarative checks of the resolved command.
func (d *Dispatcher) check(ctx context.Context, inv *Invocation) error {
	cmd := inv.Command
	if cmd.Disabled {
		return &DisabledCommandError{Command: cmd.Name}
	}

	inGuild := inv.GuildID() != ""
	if cmd.GuildOnly && !inGuild {
		return &NoPrivateMessageError{Command: cmd.Name}
	}
	if !inGuild || d.permissions == nil {
		return nil
	}

	if cmd.UserPermissions != 0 {
		perms, err := d.permissions.UserChannelPermissions(
			inv.Author().ID, inv.ChannelID(), discordgo.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("failed to resolve user permissions: %w", err)
		}
		if missing := cmd.UserPermissions &^ perms; missing != 0 {
			return &MissingPermissionsError{Missing: missing}
		}
	}

	if cmd.BotPermissions != 0 {
		perms, err := d.permissions.UserChannelPermissions(
			d.selfID(), inv.ChannelID(), discordgo.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("failed to resolve bot permissions: %w", err)
		}
		if missing := cmd.BotPermissions &^ perms; missing != 0 {
			return &BotMissingPermissionsError{Missing: missing}
		}
	}

	return nil
}
