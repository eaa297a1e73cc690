package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation(t *testing.T) {
	assert.Equal(t, "DM", Location("", false))
	assert.Equal(t, "home", Location("home", true))
	assert.Equal(t, "unknown guild", Location("", true))
}

func TestChannelLabel(t *testing.T) {
	assert.Equal(t, "N/A", ChannelLabel(""))
	assert.Equal(t, "general", ChannelLabel("general"))
}

func TestContentChanged(t *testing.T) {
	old := "hello"
	assert.True(t, ContentChanged(&old, "hello!"))
	assert.False(t, ContentChanged(&old, "hello"))
	assert.False(t, ContentChanged(nil, "hello"))
}

func TestMentionsUser(t *testing.T) {
	assert.True(t, MentionsUser([]string{"1", "42"}, false, "42"))
	assert.False(t, MentionsUser([]string{"42"}, true, "42"))
	assert.False(t, MentionsUser([]string{"1"}, false, "42"))
	assert.False(t, MentionsUser([]string{""}, false, ""))
}

func TestAccountAge(t *testing.T) {
	// Discord epoch (2015-01-01) shifted by one day in the timestamp bits.
	id := "362387865600000"
	created := time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC)

	age, err := AccountAge(id, created.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, time.Hour, age)
}

func TestAccountAge_InvalidID(t *testing.T) {
	_, err := AccountAge("not-an-id", time.Now())

	assert.Error(t, err)
}
