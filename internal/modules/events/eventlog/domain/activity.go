package domain

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Location names where a message was seen: the guild name, or "DM".
func Location(guildName string, inGuild bool) string {
	if !inGuild {
		return "DM"
	}
	if guildName == "" {
		return "unknown guild"
	}
	return guildName
}

// ChannelLabel returns the channel name, or "N/A" when it has none.
func ChannelLabel(name string) string {
	if name == "" {
		return "N/A"
	}
	return name
}

// ContentChanged reports whether an edit changed the message text. Edits of
// messages whose previous version is unknown are not reported.
func ContentChanged(before *string, after string) bool {
	return before != nil && *before != after
}

// MentionsUser reports whether userID is mentioned directly. A mention of
// everyone does not count.
func MentionsUser(mentioned []string, everyone bool, userID string) bool {
	if everyone || userID == "" {
		return false
	}
	for _, id := range mentioned {
		if id == userID {
			return true
		}
	}
	return false
}

// AccountAge returns how long ago the account with the given ID was
// created, derived from the ID's timestamp.
func AccountAge(userID string, now time.Time) (time.Duration, error) {
	id, err := snowflake.Parse(userID)
	if err != nil {
		return 0, err
	}
	return now.Sub(id.Time()), nil
}
