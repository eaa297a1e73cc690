package eventlog

import (
	"github.com/sglre6355/cogbot/internal/bot"
	"github.com/sglre6355/cogbot/internal/modules/events/eventlog/presentation"
)

func init() {
	bot.Provide("events/eventlog", &Module{})
}

// Module logs gateway activity.
type Module struct {
	listeners *presentation.Listeners
}

// Name returns the module name.
func (m *Module) Name() string {
	return "events"
}

// Setup binds the module's listeners.
func (m *Module) Setup(b *bot.Builder) error {
	deps := b.Deps()
	m.listeners = presentation.NewListeners(deps.Logger.With("module", m.Name()), deps.SelfID)

	b.Listen(bot.EventConnect, bot.Handle(m.listeners.Connect))
	b.Listen(bot.EventDisconnect, bot.Handle(m.listeners.Disconnect))
	b.Listen(bot.EventResume, bot.Handle(m.listeners.Resume))
	b.Listen(bot.EventReady, bot.Handle(m.listeners.Ready))
	b.Listen(bot.EventGuildJoin, bot.Handle(m.listeners.GuildJoin))
	b.Listen(bot.EventGuildLeave, bot.Handle(m.listeners.GuildLeave))
	b.Listen(bot.EventMemberJoin, bot.Handle(m.listeners.MemberJoin))
	b.Listen(bot.EventMemberLeave, bot.Handle(m.listeners.MemberLeave))
	b.Listen(bot.EventMessageCreate, bot.Handle(m.listeners.MessageCreate))
	b.Listen(bot.EventMessageDelete, bot.Handle(m.listeners.MessageDelete))
	b.Listen(bot.EventMessageEdit, bot.Handle(m.listeners.MessageEdit))
	b.Listen(bot.EventError, bot.Handle(m.listeners.Error))

	return nil
}
