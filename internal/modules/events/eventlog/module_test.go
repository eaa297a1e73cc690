package eventlog

import (
	"io"
	"log/slog"
	"testing"

	"github.com/sglre6355/cogbot/internal/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_BindsListeners(t *testing.T) {
	catalog := bot.NewCatalog()
	catalog.Provide("events/eventlog", &Module{})

	reg := bot.NewRegistry(true)
	loaded := bot.LoadModules(catalog, reg, bot.ModuleDependencies{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.Len(t, loaded, 1)

	for _, event := range []bot.EventType{
		bot.EventConnect,
		bot.EventDisconnect,
		bot.EventResume,
		bot.EventReady,
		bot.EventGuildJoin,
		bot.EventGuildLeave,
		bot.EventMemberJoin,
		bot.EventMemberLeave,
		bot.EventMessageCreate,
		bot.EventMessageDelete,
		bot.EventMessageEdit,
		bot.EventError,
	} {
		bindings := reg.Listeners(event)
		require.Len(t, bindings, 1, event)
		assert.Equal(t, "events", bindings[0].Module)
	}
	assert.Empty(t, reg.Commands())
}
