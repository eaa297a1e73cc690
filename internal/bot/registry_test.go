package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry(true)

	cog := &Cog{
		Name:          "test-module",
		Commands:      []*Command{textCommand("ping", "p")},
		SlashCommands: []*SlashCommand{slashCommand("ping")},
	}
	require.NoError(t, reg.Register(cog))

	cogs := reg.Cogs()
	require.Len(t, cogs, 1)
	assert.Equal(t, "test-module", cogs[0].Name)

	cmd, ok := reg.Command("ping")
	require.True(t, ok)
	assert.Equal(t, "test-module", cmd.Module())

	alias, ok := reg.Command("p")
	require.True(t, ok)
	assert.Same(t, cmd, alias)

	slash, ok := reg.SlashCommand("ping")
	require.True(t, ok)
	assert.Equal(t, "test-module", slash.Module())
}

func TestRegistry_CaseInsensitiveLookup(t *testing.T) {
	reg := NewRegistry(true)
	require.NoError(t, reg.Register(&Cog{Name: "basic", Commands: []*Command{textCommand("Ping")}}))

	_, ok := reg.Command("PING")
	assert.True(t, ok)
	_, ok = reg.Command("ping")
	assert.True(t, ok)
}

func TestRegistry_CaseSensitiveLookup(t *testing.T) {
	reg := NewRegistry(false)
	require.NoError(t, reg.Register(&Cog{Name: "basic", Commands: []*Command{textCommand("ping")}}))

	_, ok := reg.Command("PING")
	assert.False(t, ok)
}

func TestRegistry_DuplicateCommandLeavesRegistryUnchanged(t *testing.T) {
	reg := NewRegistry(true)
	require.NoError(t, reg.Register(&Cog{Name: "first", Commands: []*Command{textCommand("ping")}}))

	second := &Cog{
		Name:     "second",
		Commands: []*Command{textCommand("pong"), textCommand("other", "PING")},
		Listeners: []ListenerBinding{{
			Event:    EventMessageCreate,
			Listener: func(context.Context, Event) error { return nil },
		}},
	}
	err := reg.Register(second)

	var dup *DuplicateCommandError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "PING", dup.Name)
	assert.Equal(t, "first", dup.Existing)

	_, ok := reg.Command("pong")
	assert.False(t, ok, "no command of a rejected cog may be registered")
	assert.Empty(t, reg.Listeners(EventMessageCreate))
	assert.Len(t, reg.Cogs(), 1)
}

func TestRegistry_DuplicateInsideCog(t *testing.T) {
	reg := NewRegistry(true)

	err := reg.Register(&Cog{
		Name:     "basic",
		Commands: []*Command{textCommand("help", "h"), textCommand("hint", "H")},
	})

	var dup *DuplicateCommandError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "basic", dup.Existing)
	assert.Empty(t, reg.Commands())
}

func TestRegistry_DuplicateSlashCommand(t *testing.T) {
	reg := NewRegistry(true)
	require.NoError(t, reg.Register(&Cog{Name: "a", SlashCommands: []*SlashCommand{slashCommand("ping")}}))

	err := reg.Register(&Cog{Name: "b", SlashCommands: []*SlashCommand{slashCommand("ping")}})

	var dup *DuplicateCommandError
	require.ErrorAs(t, err, &dup)
	assert.True(t, dup.Structured)
}

func TestRegistry_TextAndSlashNamespacesAreSeparate(t *testing.T) {
	reg := NewRegistry(true)

	err := reg.Register(&Cog{
		Name:          "basic",
		Commands:      []*Command{textCommand("ping")},
		SlashCommands: []*SlashCommand{slashCommand("ping")},
	})

	assert.NoError(t, err)
}

func TestRegistry_DuplicateListener(t *testing.T) {
	reg := NewRegistry(true)
	l := func(context.Context, Event) error { return nil }

	err := reg.Register(&Cog{
		Name: "events",
		Listeners: []ListenerBinding{
			{Event: EventReady, Listener: l},
			{Event: EventReady, Listener: l},
		},
	})

	assert.ErrorIs(t, err, ErrDuplicateListener)
}

func TestRegistry_DuplicateModule(t *testing.T) {
	reg := NewRegistry(true)
	require.NoError(t, reg.Register(&Cog{Name: "basic"}))

	assert.ErrorIs(t, reg.Register(&Cog{Name: "basic"}), ErrDuplicateModule)
}

func TestRegistry_RejectsRestParameterBeforeLast(t *testing.T) {
	reg := NewRegistry(true)
	cmd := textCommand("say")
	cmd.Params = []Param{{Name: "text", Rest: true}, {Name: "times", Type: ParamInt}}

	assert.Error(t, reg.Register(&Cog{Name: "basic", Commands: []*Command{cmd}}))
}

func TestRegistry_ListenersInRegistrationOrder(t *testing.T) {
	reg := NewRegistry(true)
	l := func(context.Context, Event) error { return nil }

	for _, name := range []string{"one", "two", "three"} {
		require.NoError(t, reg.Register(&Cog{
			Name:      name,
			Listeners: []ListenerBinding{{Event: EventReady, Listener: l}},
		}))
	}

	var modules []string
	for _, b := range reg.Listeners(EventReady) {
		modules = append(modules, b.Module)
	}
	assert.Equal(t, []string{"one", "two", "three"}, modules)
}

func TestRegistry_Unregister(t *testing.T) {
	reg := NewRegistry(true)
	l := func(context.Context, Event) error { return nil }

	for _, name := range []string{"one", "two", "three"} {
		require.NoError(t, reg.Register(&Cog{
			Name:      name,
			Commands:  []*Command{textCommand(name + "-cmd")},
			Listeners: []ListenerBinding{{Event: EventReady, Listener: l}},
		}))
	}

	assert.True(t, reg.Unregister("two"))
	assert.False(t, reg.Unregister("two"))

	_, ok := reg.Command("two-cmd")
	assert.False(t, ok)

	var modules []string
	for _, b := range reg.Listeners(EventReady) {
		modules = append(modules, b.Module)
	}
	assert.Equal(t, []string{"one", "three"}, modules)

	// A reload is an unregister followed by a register.
	require.NoError(t, reg.Register(&Cog{Name: "two", Commands: []*Command{textCommand("two-cmd")}}))
	_, ok = reg.Command("two-cmd")
	assert.True(t, ok)
}

func TestRegistry_CogsReturnsSnapshot(t *testing.T) {
	reg := NewRegistry(true)
	require.NoError(t, reg.Register(&Cog{Name: "module-1"}))

	cogs := reg.Cogs()

	// Register another module after getting snapshot
	require.NoError(t, reg.Register(&Cog{Name: "module-2"}))

	// Original snapshot should not be affected
	assert.Len(t, cogs, 1)
}
