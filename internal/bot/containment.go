package bot

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
)

// Containment runs handlers so that their failures never escape to the caller.
type Containment struct {
	logger *slog.Logger
}

// NewContainment creates a Containment that logs through logger.
func NewContainment(logger *slog.Logger) *Containment {
	return &Containment{logger: logger}
}

// call runs fn and converts a panic into a *PanicError.
func call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}

// RunCommand executes the handler of inv and handles any failure.
// It returns the failure after it has been reported, or nil.
func (c *Containment) RunCommand(ctx context.Context, inv *Invocation, handler CommandHandler) error {
	err := call(func() error { return handler(ctx, inv) })
	if err != nil {
		c.HandleCommandError(ctx, inv, err)
	}
	return err
}

// HandleCommandError reports a command failure. A command-local error handler
// takes precedence; otherwise recoverable user errors get a fixed reply and
// everything else is logged with its causal chain and answered generically.
func (c *Containment) HandleCommandError(ctx context.Context, inv *Invocation, err error) {
	if local := localErrorHandler(inv); local != nil {
		if herr := call(func() error { local(ctx, inv, err); return nil }); herr != nil {
			c.logger.Error("failed to run local error handler",
				"command", inv.CommandName(),
				"invocation_id", inv.ID,
				"error", herr,
				"cause", err,
			)
		}
		return
	}

	if msg, ok := userErrorMessage(inv, err); ok {
		c.logger.Debug("rejected command invocation",
			"command", inv.CommandName(),
			"invocation_id", inv.ID,
			"reason", err,
		)
		c.reply(ctx, inv, msg)
		return
	}

	attrs := []any{
		"command", inv.CommandName(),
		"invocation_id", inv.ID,
		"error", err,
		"chain", causalChain(err),
	}
	if author := inv.Author(); author != nil {
		attrs = append(attrs, "user", authorName(author), "user_id", author.ID)
	}
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		attrs = append(attrs, "stack", string(panicErr.Stack))
	}
	c.logger.Error("failed to execute command", attrs...)

	c.reply(ctx, inv, genericErrorMessage(inv, err))
}

// RunListener executes one listener and returns its failure, if any.
func (c *Containment) RunListener(ctx context.Context, binding ListenerBinding, e Event) error {
	err := call(func() error { return binding.Listener(ctx, e) })
	if err == nil {
		return nil
	}

	attrs := []any{
		"event", e.Type(),
		"module", binding.Module,
		"error", err,
		"chain", causalChain(err),
	}
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		attrs = append(attrs, "stack", string(panicErr.Stack))
	}
	c.logger.Error("failed to run listener", attrs...)

	return err
}

func (c *Containment) reply(ctx context.Context, inv *Invocation, content string) {
	if inv.Responder == nil {
		return
	}
	err := call(func() error {
		_, err := inv.Responder.Send(ctx, &discordgo.MessageSend{Content: content})
		return err
	})
	if err != nil {
		c.logger.Error("failed to send error reply",
			"command", inv.CommandName(),
			"invocation_id", inv.ID,
			"error", err,
		)
	}
}

func localErrorHandler(inv *Invocation) ErrorHandler {
	switch {
	case inv.Command != nil && inv.Command.OnError != nil:
		return inv.Command.OnError
	case inv.Slash != nil && inv.Slash.OnError != nil:
		return inv.Slash.OnError
	}
	return nil
}
