package bot

import (
	"errors"
	"fmt"
	"strings"
)

// Registration errors.
var (
	// ErrDuplicateListener is returned when a module binds two listeners to the same event type.
	ErrDuplicateListener = errors.New("module already listens to this event type")

	// ErrDuplicateModule is returned when a module with the same name is already registered.
	ErrDuplicateModule = errors.New("module is already registered")
)

// DuplicateCommandError is returned when a command name or alias collides
// with one that is already registered.
type DuplicateCommandError struct {
	Name       string
	Module     string
	Existing   string
	Structured bool
}

func (e *DuplicateCommandError) Error() string {
	kind := "command"
	if e.Structured {
		kind = "slash command"
	}
	if e.Existing == e.Module {
		return fmt.Sprintf("%s %q is declared twice by module %s", kind, e.Name, e.Module)
	}
	return fmt.Sprintf("%s %q of module %s is already registered by module %s",
		kind, e.Name, e.Module, e.Existing)
}

// CommandNotFoundError is returned when the invoked token matches no command.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("command %q is not found", e.Name)
}

// DisabledCommandError is returned when a disabled command is invoked.
type DisabledCommandError struct {
	Command string
}

func (e *DisabledCommandError) Error() string {
	return fmt.Sprintf("command %s is disabled", e.Command)
}

// NoPrivateMessageError is returned when a guild-only command is invoked in a DM.
type NoPrivateMessageError struct {
	Command string
}

func (e *NoPrivateMessageError) Error() string {
	return fmt.Sprintf("command %s cannot be used in private messages", e.Command)
}

// MissingRequiredArgumentError is returned when a required parameter has no value.
type MissingRequiredArgumentError struct {
	Param string
}

func (e *MissingRequiredArgumentError) Error() string {
	return fmt.Sprintf("%s is a required argument that is missing", e.Param)
}

// BadArgumentError is returned when an argument cannot be converted to its declared type.
type BadArgumentError struct {
	Param string
	Value string
	Err   error
}

func (e *BadArgumentError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("failed to parse arguments: %v", e.Err)
	}
	return fmt.Sprintf("converting %q for parameter %s failed: %v", e.Value, e.Param, e.Err)
}

func (e *BadArgumentError) Unwrap() error { return e.Err }

// MissingPermissionsError is returned when the invoking user lacks permissions.
type MissingPermissionsError struct {
	Missing int64
}

func (e *MissingPermissionsError) Error() string {
	return fmt.Sprintf("missing permissions 0x%x", e.Missing)
}

// BotMissingPermissionsError is returned when the bot lacks permissions.
type BotMissingPermissionsError struct {
	Missing int64
}

func (e *BotMissingPermissionsError) Error() string {
	return fmt.Sprintf("bot is missing permissions 0x%x", e.Missing)
}

// PanicError wraps a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// causalChain returns the messages of err and every error it wraps.
func causalChain(err error) []string {
	var chain []string
	queue := []error{err}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == nil {
			continue
		}
		chain = append(chain, cur.Error())
		switch u := cur.(type) {
		case interface{ Unwrap() error }:
			queue = append(queue, u.Unwrap())
		case interface{ Unwrap() []error }:
			queue = append(queue, u.Unwrap()...)
		}
	}
	return chain
}

// userErrorMessage returns the fixed reply for recoverable input errors.
func userErrorMessage(inv *Invocation, err error) (string, bool) {
	var (
		notFound    *CommandNotFoundError
		disabled    *DisabledCommandError
		noPrivate   *NoPrivateMessageError
		missingArg  *MissingRequiredArgumentError
		badArg      *BadArgumentError
		missingPerm *MissingPermissionsError
		botPerm     *BotMissingPermissionsError
	)

	prefix := inv.Prefix
	name := inv.CommandName()

	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("Command not found. Use `%shelp` to see available commands.", prefix), true
	case errors.As(err, &disabled):
		return fmt.Sprintf("`%s` is currently disabled.", name), true
	case errors.As(err, &noPrivate):
		return fmt.Sprintf("`%s` cannot be used in Private Messages.", name), true
	case errors.As(err, &missingArg):
		return fmt.Sprintf("Missing required argument: `%s`. Use `%shelp %s` for proper usage.",
			missingArg.Param, prefix, name), true
	case errors.As(err, &badArg):
		return fmt.Sprintf("Invalid argument provided. Use `%shelp %s` for proper usage.",
			prefix, name), true
	case errors.As(err, &missingPerm):
		return "You lack the necessary permissions to run this command.", true
	case errors.As(err, &botPerm):
		return "I lack the necessary permissions to execute this command.", true
	}

	return "", false
}

// IsUserError reports whether err is an expected outcome of user input
// rather than a fault.
func IsUserError(err error) bool {
	_, ok := userErrorMessage(&Invocation{}, err)
	return ok
}

func genericErrorMessage(inv *Invocation, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "An error occurred while executing the command `%s`.", inv.CommandName())
	if err != nil {
		fmt.Fprintf(&b, "\nError: %v", err)
	}
	return b.String()
}
