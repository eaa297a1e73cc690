package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(g *Gateway) []Event {
	var events []Event
	for {
		select {
		case e := <-g.Events():
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestGateway_ReadyRecordsSelfAndGuilds(t *testing.T) {
	g := NewGateway(10, discardLogger())

	g.onReady(nil, &discordgo.Ready{
		User:   &discordgo.User{ID: "42"},
		Guilds: []*discordgo.Guild{{ID: "1", Unavailable: true}},
	})

	assert.Equal(t, "42", g.SelfID())

	events := drain(g)
	require.Len(t, events, 1)
	ready, ok := events[0].(*ReadyEvent)
	require.True(t, ok)
	assert.Equal(t, "42", ready.User.ID)
}

func TestGateway_GuildJoinOnlyForNewGuilds(t *testing.T) {
	g := NewGateway(10, discardLogger())
	g.onReady(nil, &discordgo.Ready{User: &discordgo.User{ID: "42"}, Guilds: []*discordgo.Guild{{ID: "1"}}})
	drain(g)

	g.onGuildCreate(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "1", Name: "known"}})
	g.onGuildCreate(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "2", Name: "new"}})

	events := drain(g)
	require.Len(t, events, 1)
	join, ok := events[0].(*GuildJoinEvent)
	require.True(t, ok)
	assert.Equal(t, "new", join.Guild.Name)
}

func TestGateway_GuildLeaveIgnoresOutages(t *testing.T) {
	g := NewGateway(10, discardLogger())

	g.onGuildDelete(nil, &discordgo.GuildDelete{Guild: &discordgo.Guild{ID: "1", Unavailable: true}})
	g.onGuildDelete(nil, &discordgo.GuildDelete{
		Guild:        &discordgo.Guild{ID: "2"},
		BeforeDelete: &discordgo.Guild{ID: "2", Name: "cached"},
	})

	events := drain(g)
	require.Len(t, events, 1)
	leave, ok := events[0].(*GuildLeaveEvent)
	require.True(t, ok)
	assert.Equal(t, "cached", leave.Guild.Name)
}

func TestGateway_MessageEventsCarryPreviousVersion(t *testing.T) {
	g := NewGateway(10, discardLogger())
	before := &discordgo.Message{ID: "1", Content: "old"}
	after := &discordgo.Message{ID: "1", Content: "new"}

	g.onMessageUpdate(nil, &discordgo.MessageUpdate{Message: after, BeforeUpdate: before})
	g.onMessageDelete(nil, &discordgo.MessageDelete{
		Message:      &discordgo.Message{ID: "1"},
		BeforeDelete: after,
	})

	events := drain(g)
	require.Len(t, events, 2)

	edit := events[0].(*MessageEditEvent)
	assert.Equal(t, "old", edit.Before.Content)
	assert.Equal(t, "new", edit.After.Content)

	del := events[1].(*MessageDeleteEvent)
	assert.Equal(t, "new", del.Message.Content)
}

func TestGateway_ResolvesCachedGuild(t *testing.T) {
	g := NewGateway(10, discardLogger())
	state := discordgo.NewState()
	require.NoError(t, state.GuildAdd(&discordgo.Guild{ID: "300", Name: "home"}))
	s := &discordgo.Session{State: state}

	g.onMemberAdd(s, &discordgo.GuildMemberAdd{Member: &discordgo.Member{
		GuildID: "300",
		User:    &discordgo.User{ID: "400"},
	}})

	events := drain(g)
	require.Len(t, events, 1)
	join := events[0].(*MemberJoinEvent)
	require.NotNil(t, join.Guild)
	assert.Equal(t, "home", join.Guild.Name)
}

func TestGateway_DropsWhenBufferFull(t *testing.T) {
	g := NewGateway(1, discardLogger())

	g.onConnect(nil, &discordgo.Connect{})
	g.onDisconnect(nil, &discordgo.Disconnect{})

	events := drain(g)
	require.Len(t, events, 1)
	assert.IsType(t, &ConnectEvent{}, events[0])
}

func TestGateway_Close(t *testing.T) {
	g := NewGateway(10, discardLogger())
	g.Close()
	g.Close()

	assert.NotPanics(t, func() { g.onResumed(nil, &discordgo.Resumed{}) })

	_, ok := <-g.Events()
	assert.False(t, ok)
}
