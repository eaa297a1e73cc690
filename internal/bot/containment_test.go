package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvocation(cmd *Command) (*Invocation, *MockResponder) {
	r := &MockResponder{}
	inv := newInvocation()
	inv.Prefix = "!"
	inv.Command = cmd
	inv.InvokedWith = cmd.Name
	inv.Message = message("!" + cmd.Name)
	inv.Responder = r
	return inv, r
}

func TestContainment_UserErrorsGetFixedReplies(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not found",
			err:  &CommandNotFoundError{Name: "foo"},
			want: "Command not found. Use `!help` to see available commands.",
		},
		{
			name: "disabled",
			err:  &DisabledCommandError{Command: "ping"},
			want: "`ping` is currently disabled.",
		},
		{
			name: "no private message",
			err:  &NoPrivateMessageError{Command: "ping"},
			want: "`ping` cannot be used in Private Messages.",
		},
		{
			name: "missing argument",
			err:  &MissingRequiredArgumentError{Param: "member"},
			want: "Missing required argument: `member`. Use `!help ping` for proper usage.",
		},
		{
			name: "bad argument",
			err:  &BadArgumentError{Param: "sides", Value: "x", Err: errors.New("invalid")},
			want: "Invalid argument provided. Use `!help ping` for proper usage.",
		},
		{
			name: "missing permissions",
			err:  &MissingPermissionsError{Missing: 8},
			want: "You lack the necessary permissions to run this command.",
		},
		{
			name: "bot missing permissions",
			err:  &BotMissingPermissionsError{Missing: 8},
			want: "I lack the necessary permissions to execute this command.",
		},
		{
			name: "wrapped",
			err:  fmt.Errorf("failed to bind: %w", &MissingRequiredArgumentError{Param: "member"}),
			want: "Missing required argument: `member`. Use `!help ping` for proper usage.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			c := NewContainment(slog.New(slog.NewTextHandler(&logs, nil)))
			inv, r := newTestInvocation(textCommand("ping"))

			c.HandleCommandError(context.Background(), inv, tt.err)

			require.Len(t, r.Sent, 1)
			assert.Equal(t, tt.want, r.Sent[0].Content)
			assert.Empty(t, logs.String(), "user errors are logged at debug only")
			assert.True(t, IsUserError(tt.err))
		})
	}
}

func TestContainment_UnexpectedErrorIsLoggedAndReported(t *testing.T) {
	var logs bytes.Buffer
	c := NewContainment(slog.New(slog.NewTextHandler(&logs, nil)))
	inv, r := newTestInvocation(textCommand("ping"))

	cause := errors.New("connection reset")
	c.HandleCommandError(context.Background(), inv, fmt.Errorf("failed to fetch latency: %w", cause))

	require.Len(t, r.Sent, 1)
	assert.Equal(t,
		"An error occurred while executing the command `ping`.\nError: failed to fetch latency: connection reset",
		r.Sent[0].Content,
	)
	assert.Contains(t, logs.String(), "failed to execute command")
	assert.Contains(t, logs.String(), "connection reset")
	assert.False(t, IsUserError(cause))
}

func TestContainment_RecoversPanics(t *testing.T) {
	var logs bytes.Buffer
	c := NewContainment(slog.New(slog.NewTextHandler(&logs, nil)))
	inv, r := newTestInvocation(textCommand("ping"))

	err := c.RunCommand(context.Background(), inv, func(context.Context, *Invocation) error {
		panic("nil map write")
	})

	var panicErr *PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.NotEmpty(t, panicErr.Stack)
	require.Len(t, r.Sent, 1)
	assert.Contains(t, r.Sent[0].Content, "An error occurred while executing the command `ping`.")
	assert.Contains(t, logs.String(), "stack=")
}

func TestContainment_LocalErrorHandlerTakesPrecedence(t *testing.T) {
	c := NewContainment(discardLogger())

	var handled error
	cmd := textCommand("ping")
	cmd.OnError = func(_ context.Context, _ *Invocation, err error) {
		handled = err
	}
	inv, r := newTestInvocation(cmd)

	want := &BadArgumentError{Param: "x", Err: errors.New("bad")}
	c.HandleCommandError(context.Background(), inv, want)

	assert.Same(t, want, handled)
	assert.Empty(t, r.Sent, "generic handling is skipped")
}

func TestContainment_PanickingLocalErrorHandlerIsContained(t *testing.T) {
	c := NewContainment(discardLogger())
	cmd := textCommand("ping")
	cmd.OnError = func(context.Context, *Invocation, error) { panic("handler bug") }
	inv, _ := newTestInvocation(cmd)

	assert.NotPanics(t, func() {
		c.HandleCommandError(context.Background(), inv, errors.New("boom"))
	})
}

func TestContainment_SendFailureIsNotPropagated(t *testing.T) {
	var logs bytes.Buffer
	c := NewContainment(slog.New(slog.NewTextHandler(&logs, nil)))
	inv, r := newTestInvocation(textCommand("ping"))
	r.Err = errors.New("missing access")

	assert.NotPanics(t, func() {
		c.HandleCommandError(context.Background(), inv, errors.New("boom"))
	})
	assert.Contains(t, logs.String(), "failed to send error reply")
}

func TestContainment_RunListener(t *testing.T) {
	c := NewContainment(discardLogger())
	binding := ListenerBinding{
		Module: "events",
		Event:  EventReady,
		Listener: func(context.Context, Event) error {
			panic(errors.New("listener bug"))
		},
	}

	err := c.RunListener(context.Background(), binding, &ReadyEvent{})

	var panicErr *PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.EqualError(t, errors.Unwrap(err), "listener bug")
}

func TestCausalChain(t *testing.T) {
	root := errors.New("root")
	err := fmt.Errorf("outer: %w", fmt.Errorf("middle: %w", root))

	assert.Equal(t, []string{"outer: middle: root", "middle: root", "root"}, causalChain(err))
}
