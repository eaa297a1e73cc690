package domain

import "time"

// LatencyReport holds the two latencies reported by the ping command.
type LatencyReport struct {
	// Bot is the gateway heartbeat round trip.
	Bot time.Duration
	// API is the round trip of the acknowledgement sent to Discord.
	API time.Duration
}

// NewLatencyReport creates a LatencyReport. Negative durations, reported
// before the first heartbeat, are clamped to zero.
func NewLatencyReport(bot, api time.Duration) *LatencyReport {
	return &LatencyReport{
		Bot: max(bot, 0),
		API: max(api, 0),
	}
}

// BotMillis returns the bot latency in whole milliseconds.
func (r *LatencyReport) BotMillis() int64 {
	return r.Bot.Round(time.Millisecond).Milliseconds()
}

// APIMillis returns the API latency in whole milliseconds.
func (r *LatencyReport) APIMillis() int64 {
	return r.API.Round(time.Millisecond).Milliseconds()
}
