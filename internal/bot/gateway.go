package bot

import (
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// DefaultEventBufferSize is the default buffer size of the gateway event stream.
const DefaultEventBufferSize = 100

// Gateway converts discordgo session callbacks into Events on a single
// ordered, buffered stream.
type Gateway struct {
	events chan Event
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	selfID string
	guilds map[string]struct{}
}

// NewGateway creates a Gateway with the given buffer size.
func NewGateway(bufferSize int, logger *slog.Logger) *Gateway {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	return &Gateway{
		events: make(chan Event, bufferSize),
		logger: logger,
		guilds: make(map[string]struct{}),
	}
}

// Attach registers the gateway's handlers on s.
func (g *Gateway) Attach(s *discordgo.Session) {
	s.AddHandler(g.onConnect)
	s.AddHandler(g.onDisconnect)
	s.AddHandler(g.onResumed)
	s.AddHandler(g.onReady)
	s.AddHandler(g.onGuildCreate)
	s.AddHandler(g.onGuildDelete)
	s.AddHandler(g.onMemberAdd)
	s.AddHandler(g.onMemberRemove)
	s.AddHandler(g.onMessageCreate)
	s.AddHandler(g.onMessageUpdate)
	s.AddHandler(g.onMessageDelete)
	s.AddHandler(g.onInteractionCreate)
}

// Events returns the event stream.
func (g *Gateway) Events() <-chan Event {
	return g.events
}

// SelfID returns the bot's user ID as announced in the last ready event.
func (g *Gateway) SelfID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.selfID
}

// Publish puts e on the stream.
// Non-blocking: if the buffer is full, the event is dropped with a warning.
func (g *Gateway) Publish(e Event) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.closed {
		g.logger.Warn("attempted to publish to closed gateway", "type", e.Type())
		return
	}

	select {
	case g.events <- e:
		g.logger.Debug("published event", "type", e.Type())
	default:
		g.logger.Warn("event buffer full, dropping event", "type", e.Type())
	}
}

// Close closes the event stream.
// After calling Close, publishing will no longer send events.
func (g *Gateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}

	g.closed = true
	close(g.events)

	g.logger.Debug("gateway closed")
}

func (g *Gateway) onConnect(_ *discordgo.Session, _ *discordgo.Connect) {
	g.Publish(&ConnectEvent{})
}

func (g *Gateway) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	g.Publish(&DisconnectEvent{})
}

func (g *Gateway) onResumed(_ *discordgo.Session, _ *discordgo.Resumed) {
	g.Publish(&ResumeEvent{})
}

func (g *Gateway) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	g.mu.Lock()
	if r.User != nil {
		g.selfID = r.User.ID
	}
	for _, guild := range r.Guilds {
		g.guilds[guild.ID] = struct{}{}
	}
	g.mu.Unlock()

	g.Publish(&ReadyEvent{User: r.User, Guilds: r.Guilds})
}

// onGuildCreate reports a join only for guilds not announced by ready;
// other guild creates are availability updates.
func (g *Gateway) onGuildCreate(_ *discordgo.Session, gc *discordgo.GuildCreate) {
	if gc.Guild == nil {
		return
	}

	g.mu.Lock()
	_, known := g.guilds[gc.ID]
	g.guilds[gc.ID] = struct{}{}
	g.mu.Unlock()

	if known {
		return
	}
	g.Publish(&GuildJoinEvent{Guild: gc.Guild})
}

// onGuildDelete reports a leave unless the guild merely became unavailable.
func (g *Gateway) onGuildDelete(_ *discordgo.Session, gd *discordgo.GuildDelete) {
	if gd.Guild == nil || gd.Unavailable {
		return
	}

	g.mu.Lock()
	delete(g.guilds, gd.ID)
	g.mu.Unlock()

	guild := gd.Guild
	if gd.BeforeDelete != nil {
		guild = gd.BeforeDelete
	}
	g.Publish(&GuildLeaveEvent{Guild: guild})
}

func (g *Gateway) onMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.Member == nil {
		return
	}
	guild, _ := lookup(s, m.GuildID, "")
	g.Publish(&MemberJoinEvent{Member: m.Member, Guild: guild})
}

func (g *Gateway) onMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.Member == nil {
		return
	}
	guild, _ := lookup(s, m.GuildID, "")
	g.Publish(&MemberLeaveEvent{Member: m.Member, Guild: guild})
}

func (g *Gateway) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Message == nil {
		return
	}
	guild, channel := lookup(s, m.GuildID, m.ChannelID)
	g.Publish(&MessageCreateEvent{Message: m.Message, Guild: guild, Channel: channel})
}

func (g *Gateway) onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.Message == nil {
		return
	}
	guild, channel := lookup(s, m.GuildID, m.ChannelID)
	g.Publish(&MessageEditEvent{
		Before:  m.BeforeUpdate,
		After:   m.Message,
		Guild:   guild,
		Channel: channel,
	})
}

func (g *Gateway) onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	if m.Message == nil {
		return
	}
	msg := m.Message
	if m.BeforeDelete != nil {
		msg = m.BeforeDelete
	}
	guild, channel := lookup(s, m.GuildID, m.ChannelID)
	g.Publish(&MessageDeleteEvent{Message: msg, Guild: guild, Channel: channel})
}

func (g *Gateway) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Interaction == nil {
		return
	}
	g.Publish(&InteractionCreateEvent{Interaction: i.Interaction})
}

// lookup resolves cached guild and channel state. Missing entries are nil.
func lookup(s *discordgo.Session, guildID, channelID string) (*discordgo.Guild, *discordgo.Channel) {
	if s == nil || s.State == nil {
		return nil, nil
	}

	var (
		guild   *discordgo.Guild
		channel *discordgo.Channel
	)
	if guildID != "" {
		guild, _ = s.State.Guild(guildID)
	}
	if channelID != "" {
		channel, _ = s.State.Channel(channelID)
	}
	return guild, channel
}
