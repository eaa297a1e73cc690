package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewLatencyReport(t *testing.T) {
	report := NewLatencyReport(41600*time.Microsecond, 120*time.Millisecond)

	assert.Equal(t, int64(42), report.BotMillis())
	assert.Equal(t, int64(120), report.APIMillis())
}

func TestNewLatencyReport_ClampsNegative(t *testing.T) {
	report := NewLatencyReport(-time.Second, -time.Millisecond)

	assert.Zero(t, report.BotMillis())
	assert.Zero(t, report.APIMillis())
}
