package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// EventType identifies the kind of a gateway or internal event.
type EventType string

// Event types delivered to listeners.
const (
	EventConnect           EventType = "connect"
	EventDisconnect        EventType = "disconnect"
	EventResume            EventType = "resume"
	EventReady             EventType = "ready"
	EventGuildJoin         EventType = "guild_join"
	EventGuildLeave        EventType = "guild_leave"
	EventMemberJoin        EventType = "member_join"
	EventMemberLeave       EventType = "member_leave"
	EventMessageCreate     EventType = "message_create"
	EventMessageDelete     EventType = "message_delete"
	EventMessageEdit       EventType = "message_edit"
	EventInteractionCreate EventType = "interaction_create"
	EventCommandError      EventType = "command_error"
	EventError             EventType = "error"
)

// Event is a decoded event routed by the Dispatcher.
type Event interface {
	Type() EventType
}

// Listener handles one event type. A returned error is logged by the
// dispatcher and does not affect other listeners.
type Listener func(ctx context.Context, e Event) error

// Handle adapts a typed handler into a Listener. Events of any other
// concrete type are ignored.
func Handle[T Event](fn func(ctx context.Context, e T) error) Listener {
	return func(ctx context.Context, e Event) error {
		typed, ok := e.(T)
		if !ok {
			return nil
		}
		return fn(ctx, typed)
	}
}

// ConnectEvent is emitted when the gateway connection is established.
type ConnectEvent struct{}

// DisconnectEvent is emitted when the gateway connection is lost.
type DisconnectEvent struct{}

// ResumeEvent is emitted when a dropped gateway session is resumed.
type ResumeEvent struct{}

// ReadyEvent is emitted once the gateway handshake completes.
type ReadyEvent struct {
	User   *discordgo.User
	Guilds []*discordgo.Guild
}

// GuildJoinEvent is emitted when the bot is added to a guild.
type GuildJoinEvent struct {
	Guild *discordgo.Guild
}

// GuildLeaveEvent is emitted when the bot leaves or is removed from a guild.
type GuildLeaveEvent struct {
	Guild *discordgo.Guild
}

// MemberJoinEvent is emitted when a user joins a guild.
// Guild is nil when it is not cached.
type MemberJoinEvent struct {
	Member *discordgo.Member
	Guild  *discordgo.Guild
}

// MemberLeaveEvent is emitted when a user leaves a guild.
type MemberLeaveEvent struct {
	Member *discordgo.Member
	Guild  *discordgo.Guild
}

// MessageCreateEvent is emitted for every new message.
type MessageCreateEvent struct {
	Message *discordgo.Message
	Guild   *discordgo.Guild
	Channel *discordgo.Channel
}

// MessageDeleteEvent is emitted when a message is deleted. Message holds the
// cached copy when available; otherwise only its IDs are set.
type MessageDeleteEvent struct {
	Message *discordgo.Message
	Guild   *discordgo.Guild
	Channel *discordgo.Channel
}

// MessageEditEvent is emitted when a message is edited. Before is nil when
// the previous version was not cached.
type MessageEditEvent struct {
	Before  *discordgo.Message
	After   *discordgo.Message
	Guild   *discordgo.Guild
	Channel *discordgo.Channel
}

// InteractionCreateEvent is emitted for every interaction.
type InteractionCreateEvent struct {
	Interaction *discordgo.Interaction
}

// CommandErrorEvent is emitted after a command failure has been handled.
type CommandErrorEvent struct {
	Invocation *Invocation
	Err        error
}

// ErrorEvent is emitted when a listener fails.
type ErrorEvent struct {
	Source EventType
	Module string
	Err    error
}

func (*ConnectEvent) Type() EventType           { return EventConnect }
func (*DisconnectEvent) Type() EventType        { return EventDisconnect }
func (*ResumeEvent) Type() EventType            { return EventResume }
func (*ReadyEvent) Type() EventType             { return EventReady }
func (*GuildJoinEvent) Type() EventType         { return EventGuildJoin }
func (*GuildLeaveEvent) Type() EventType        { return EventGuildLeave }
func (*MemberJoinEvent) Type() EventType        { return EventMemberJoin }
func (*MemberLeaveEvent) Type() EventType       { return EventMemberLeave }
func (*MessageCreateEvent) Type() EventType     { return EventMessageCreate }
func (*MessageDeleteEvent) Type() EventType     { return EventMessageDelete }
func (*MessageEditEvent) Type() EventType       { return EventMessageEdit }
func (*InteractionCreateEvent) Type() EventType { return EventInteractionCreate }
func (*CommandErrorEvent) Type() EventType      { return EventCommandError }
func (*ErrorEvent) Type() EventType             { return EventError }

// eventAuthor returns the author of message-bearing events, or nil.
func eventAuthor(e Event) *discordgo.User {
	switch ev := e.(type) {
	case *MessageCreateEvent:
		if ev.Message != nil {
			return ev.Message.Author
		}
	case *MessageDeleteEvent:
		if ev.Message != nil {
			return ev.Message.Author
		}
	case *MessageEditEvent:
		if ev.Before != nil && ev.Before.Author != nil {
			return ev.Before.Author
		}
		if ev.After != nil {
			return ev.After.Author
		}
	}
	return nil
}
