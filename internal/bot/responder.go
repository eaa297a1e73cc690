package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Responder provides an abstraction for replying to the origin of an invocation.
// This interface enables testing handlers without a live Discord connection.
type Responder interface {
	// Send posts a new reply.
	Send(ctx context.Context, msg *discordgo.MessageSend) (*discordgo.Message, error)

	// Defer acknowledges the invocation; the answer follows with Followup.
	Defer(ctx context.Context) error

	// Followup posts a reply after Defer.
	Followup(ctx context.Context, msg *discordgo.MessageSend) (*discordgo.Message, error)

	// Edit replaces the content of a previously sent reply. A nil target
	// edits the original interaction response.
	Edit(ctx context.Context, target *discordgo.Message, msg *discordgo.MessageSend) (*discordgo.Message, error)
}

// ResponderFactory creates responders for incoming messages and interactions.
type ResponderFactory interface {
	ForMessage(m *discordgo.Message) Responder
	ForInteraction(i *discordgo.Interaction) Responder
}

// SessionResponders creates responders backed by a live Discord session.
type SessionResponders struct {
	Session *discordgo.Session
}

// ForMessage returns a responder that replies in the message's channel.
func (f SessionResponders) ForMessage(m *discordgo.Message) Responder {
	return NewMessageResponder(f.Session, m.ChannelID)
}

// ForInteraction returns a responder that answers the interaction.
func (f SessionResponders) ForInteraction(i *discordgo.Interaction) Responder {
	return NewInteractionResponder(f.Session, i)
}

// MessageResponder implements Responder with channel messages.
type MessageResponder struct {
	session   *discordgo.Session
	channelID string
}

// NewMessageResponder creates a new MessageResponder.
func NewMessageResponder(s *discordgo.Session, channelID string) *MessageResponder {
	return &MessageResponder{
		session:   s,
		channelID: channelID,
	}
}

// Send posts a message to the channel.
func (r *MessageResponder) Send(ctx context.Context, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	return r.session.ChannelMessageSendComplex(r.channelID, msg, discordgo.WithContext(ctx))
}

// Defer shows the typing indicator.
func (r *MessageResponder) Defer(ctx context.Context) error {
	return r.session.ChannelTyping(r.channelID, discordgo.WithContext(ctx))
}

// Followup posts a message to the channel.
func (r *MessageResponder) Followup(ctx context.Context, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	return r.Send(ctx, msg)
}

// Edit rewrites a message previously sent by the bot.
func (r *MessageResponder) Edit(
	ctx context.Context,
	target *discordgo.Message,
	msg *discordgo.MessageSend,
) (*discordgo.Message, error) {
	if target == nil {
		return nil, fmt.Errorf("failed to edit message: no target message")
	}
	edit := discordgo.NewMessageEdit(target.ChannelID, target.ID).
		SetContent(msg.Content).
		SetEmbeds(msg.Embeds)
	return r.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
}

// InteractionResponder implements Responder for application command interactions.
type InteractionResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction

	mu        sync.Mutex
	responded bool
}

// NewInteractionResponder creates a new InteractionResponder.
func NewInteractionResponder(s *discordgo.Session, i *discordgo.Interaction) *InteractionResponder {
	return &InteractionResponder{
		session:     s,
		interaction: i,
	}
}

// Send answers the interaction, or posts a followup if it was already answered.
func (r *InteractionResponder) Send(ctx context.Context, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	r.mu.Lock()
	if r.responded {
		r.mu.Unlock()
		return r.Followup(ctx, msg)
	}
	r.responded = true
	r.mu.Unlock()

	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg.Content,
			Embeds:  msg.Embeds,
		},
	}, discordgo.WithContext(ctx))
	return nil, err
}

// Defer acknowledges the interaction with a deferred response.
func (r *InteractionResponder) Defer(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.responded {
		return nil
	}
	r.responded = true

	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
}

// Followup posts a followup message.
func (r *InteractionResponder) Followup(ctx context.Context, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	return r.session.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{
		Content: msg.Content,
		Embeds:  msg.Embeds,
	}, discordgo.WithContext(ctx))
}

// Edit edits the original response (nil target) or a followup message.
func (r *InteractionResponder) Edit(
	ctx context.Context,
	target *discordgo.Message,
	msg *discordgo.MessageSend,
) (*discordgo.Message, error) {
	edit := &discordgo.WebhookEdit{
		Content: &msg.Content,
		Embeds:  &msg.Embeds,
	}
	if target == nil {
		return r.session.InteractionResponseEdit(r.interaction, edit, discordgo.WithContext(ctx))
	}
	return r.session.FollowupMessageEdit(r.interaction, target.ID, edit, discordgo.WithContext(ctx))
}

// MockResponder is a test double for Responder.
type MockResponder struct {
	mu sync.Mutex

	Sent      []*discordgo.MessageSend
	Followups []*discordgo.MessageSend
	Edits     []*discordgo.MessageSend
	Deferred  bool
	Err       error

	nextID int
}

// Send records the message for testing.
func (m *MockResponder) Send(_ context.Context, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return m.message(msg), m.Err
}

// Defer records that the invocation was deferred.
func (m *MockResponder) Defer(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deferred = true
	return m.Err
}

// Followup records the followup message.
func (m *MockResponder) Followup(_ context.Context, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Followups = append(m.Followups, msg)
	return m.message(msg), m.Err
}

// Edit records the edit.
func (m *MockResponder) Edit(
	_ context.Context,
	_ *discordgo.Message,
	msg *discordgo.MessageSend,
) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Edits = append(m.Edits, msg)
	return m.message(msg), m.Err
}

// Last returns the latest edit, else the latest followup, else the latest
// sent message.
func (m *MockResponder) Last() *discordgo.MessageSend {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case len(m.Edits) > 0:
		return m.Edits[len(m.Edits)-1]
	case len(m.Followups) > 0:
		return m.Followups[len(m.Followups)-1]
	case len(m.Sent) > 0:
		return m.Sent[len(m.Sent)-1]
	}
	return nil
}

func (m *MockResponder) message(msg *discordgo.MessageSend) *discordgo.Message {
	m.nextID++
	return &discordgo.Message{
		ID:      fmt.Sprintf("%d", m.nextID),
		Content: msg.Content,
		Embeds:  msg.Embeds,
	}
}
