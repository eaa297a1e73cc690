package presentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cogbot/internal/bot"
	"github.com/sglre6355/cogbot/internal/modules/events/eventlog/domain"
)

// Listeners logs connection, guild, member and message activity.
type Listeners struct {
	logger *slog.Logger
	selfID func() string
	now    func() time.Time
}

// NewListeners creates a new Listeners.
func NewListeners(logger *slog.Logger, selfID func() string) *Listeners {
	if selfID == nil {
		selfID = func() string { return "" }
	}
	return &Listeners{
		logger: logger,
		selfID: selfID,
		now:    time.Now,
	}
}

// Connect logs a new gateway connection.
func (l *Listeners) Connect(context.Context, *bot.ConnectEvent) error {
	l.logger.Info("connected to discord")
	return nil
}

// Disconnect logs a lost gateway connection.
func (l *Listeners) Disconnect(context.Context, *bot.DisconnectEvent) error {
	l.logger.Warn("disconnected from discord")
	return nil
}

// Resume logs a resumed gateway session.
func (l *Listeners) Resume(context.Context, *bot.ResumeEvent) error {
	l.logger.Info("resumed connection")
	return nil
}

// Ready logs the identity the bot logged in with.
func (l *Listeners) Ready(_ context.Context, e *bot.ReadyEvent) error {
	if e.User == nil {
		return nil
	}
	l.logger.Info("logged in",
		"user", userName(e.User),
		"user_id", e.User.ID,
		"guilds", len(e.Guilds),
	)
	return nil
}

// GuildJoin logs the bot joining a guild.
func (l *Listeners) GuildJoin(_ context.Context, e *bot.GuildJoinEvent) error {
	l.logger.Info("joined guild", "guild", e.Guild.Name, "guild_id", e.Guild.ID)
	return nil
}

// GuildLeave logs the bot leaving a guild.
func (l *Listeners) GuildLeave(_ context.Context, e *bot.GuildLeaveEvent) error {
	l.logger.Info("left guild", "guild", e.Guild.Name, "guild_id", e.Guild.ID)
	return nil
}

// MemberJoin logs a member joining a guild.
func (l *Listeners) MemberJoin(_ context.Context, e *bot.MemberJoinEvent) error {
	attrs := l.memberAttrs(e.Member, e.Guild)
	if e.Member.User != nil {
		if age, err := domain.AccountAge(e.Member.User.ID, l.now()); err == nil {
			attrs = append(attrs, "account_age", age.Truncate(time.Hour).String())
		}
	}
	l.logger.Info("member joined", attrs...)
	return nil
}

// MemberLeave logs a member leaving a guild.
func (l *Listeners) MemberLeave(_ context.Context, e *bot.MemberLeaveEvent) error {
	l.logger.Info("member left", l.memberAttrs(e.Member, e.Guild)...)
	return nil
}

// MessageCreate logs direct mentions of the bot. Other messages are not
// logged.
func (l *Listeners) MessageCreate(_ context.Context, e *bot.MessageCreateEvent) error {
	m := e.Message
	mentioned := make([]string, 0, len(m.Mentions))
	for _, u := range m.Mentions {
		mentioned = append(mentioned, u.ID)
	}
	if !domain.MentionsUser(mentioned, m.MentionEveryone, l.selfID()) {
		return nil
	}

	l.logger.Info("bot mentioned",
		"user", userName(m.Author),
		"location", location(e.Guild, m.GuildID),
	)
	return nil
}

// MessageDelete logs deleted messages.
func (l *Listeners) MessageDelete(_ context.Context, e *bot.MessageDeleteEvent) error {
	l.logger.Info("message deleted",
		"location", location(e.Guild, e.Message.GuildID),
		"channel", channelName(e.Channel),
	)
	return nil
}

// MessageEdit logs edits that changed the message text.
func (l *Listeners) MessageEdit(_ context.Context, e *bot.MessageEditEvent) error {
	var before *string
	if e.Before != nil {
		before = &e.Before.Content
	}
	if !domain.ContentChanged(before, e.After.Content) {
		return nil
	}

	l.logger.Info("message edited",
		"location", location(e.Guild, e.After.GuildID),
		"channel", channelName(e.Channel),
	)
	return nil
}

// Error logs listener failures reported by the dispatcher.
func (l *Listeners) Error(_ context.Context, e *bot.ErrorEvent) error {
	l.logger.Error("error in event",
		"event", e.Source,
		"module", e.Module,
		"error", e.Err,
	)
	return nil
}

func (l *Listeners) memberAttrs(m *discordgo.Member, g *discordgo.Guild) []any {
	guild := ""
	if g != nil {
		guild = g.Name
	}
	return []any{
		"member", userName(m.User),
		"member_id", userID(m.User),
		"guild", guild,
		"guild_id", m.GuildID,
	}
}

func location(g *discordgo.Guild, guildID string) string {
	name := ""
	if g != nil {
		name = g.Name
	}
	return domain.Location(name, guildID != "")
}

func channelName(c *discordgo.Channel) string {
	if c == nil {
		return domain.ChannelLabel("")
	}
	return domain.ChannelLabel(c.Name)
}

func userName(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.Discriminator == "" {
		return u.Username
	}
	return u.String()
}

func userID(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
