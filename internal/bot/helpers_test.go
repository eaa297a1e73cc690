package bot

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubResponders hands out one MockResponder per message or interaction.
type stubResponders struct {
	mu         sync.Mutex
	responders []*MockResponder
}

func (f *stubResponders) ForMessage(*discordgo.Message) Responder {
	return f.next()
}

func (f *stubResponders) ForInteraction(*discordgo.Interaction) Responder {
	return f.next()
}

func (f *stubResponders) next() *MockResponder {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := &MockResponder{}
	f.responders = append(f.responders, r)
	return r
}

// last returns the responder created most recently.
func (f *stubResponders) last() *MockResponder {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.responders) == 0 {
		return nil
	}
	return f.responders[len(f.responders)-1]
}

func (f *stubResponders) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.responders)
}

// stubPermissions returns fixed permissions per user ID.
type stubPermissions struct {
	perms map[string]int64
	err   error
}

func (p *stubPermissions) UserChannelPermissions(
	userID, _ string,
	_ ...discordgo.RequestOption,
) (int64, error) {
	return p.perms[userID], p.err
}

func noop(context.Context, *Invocation) error { return nil }

func textCommand(name string, aliases ...string) *Command {
	return &Command{Name: name, Aliases: aliases, Handler: noop}
}

func slashCommand(name string) *SlashCommand {
	return &SlashCommand{
		Definition: &discordgo.ApplicationCommand{Name: name, Description: name + " command"},
		Handler:    noop,
	}
}

func message(content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        "100",
		ChannelID: "200",
		GuildID:   "300",
		Content:   content,
		Author:    &discordgo.User{ID: "400", Username: "alice"},
	}
}
