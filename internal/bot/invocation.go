package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// Invocation is the per-attempt context of a single command invocation.
type Invocation struct {
	// ID correlates log entries of one invocation.
	ID string

	// Prefix is the trigger that started a text command ("/" for slash commands).
	Prefix string
	// InvokedWith is the token the user typed, which may be an alias.
	InvokedWith string

	Command *Command
	Slash   *SlashCommand
	Args    Args

	Message     *discordgo.Message
	Interaction *discordgo.Interaction

	Responder Responder
}

func newInvocation() *Invocation {
	return &Invocation{
		ID:   uuid.NewString(),
		Args: Args{},
	}
}

// CommandName returns the canonical name of the resolved command, or the
// invoked token when nothing resolved.
func (inv *Invocation) CommandName() string {
	switch {
	case inv.Command != nil:
		return inv.Command.Name
	case inv.Slash != nil:
		return inv.Slash.Name()
	}
	return inv.InvokedWith
}

// Author returns the user who triggered the invocation.
func (inv *Invocation) Author() *discordgo.User {
	if inv.Message != nil {
		return inv.Message.Author
	}
	if inv.Interaction != nil {
		if inv.Interaction.Member != nil && inv.Interaction.Member.User != nil {
			return inv.Interaction.Member.User
		}
		return inv.Interaction.User
	}
	return nil
}

// AuthorName returns the display form of the author, or "" when unknown.
func (inv *Invocation) AuthorName() string {
	return authorName(inv.Author())
}

// GuildID returns the guild of the invocation, or "" in direct messages.
func (inv *Invocation) GuildID() string {
	if inv.Message != nil {
		return inv.Message.GuildID
	}
	if inv.Interaction != nil {
		return inv.Interaction.GuildID
	}
	return ""
}

// ChannelID returns the channel of the invocation.
func (inv *Invocation) ChannelID() string {
	if inv.Message != nil {
		return inv.Message.ChannelID
	}
	if inv.Interaction != nil {
		return inv.Interaction.ChannelID
	}
	return ""
}

// Reply sends a plain text reply.
func (inv *Invocation) Reply(ctx context.Context, content string) error {
	_, err := inv.Responder.Send(ctx, &discordgo.MessageSend{Content: content})
	return err
}

// ReplyEmbed sends an embed reply.
func (inv *Invocation) ReplyEmbed(ctx context.Context, embed *discordgo.MessageEmbed) error {
	_, err := inv.Responder.Send(ctx, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	return err
}

func authorName(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.Discriminator == "" {
		return u.Username
	}
	return u.String()
}
