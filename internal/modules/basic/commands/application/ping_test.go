package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPingInteractor_Execute(t *testing.T) {
	interactor := NewPingInteractor(func() time.Duration { return 42 * time.Millisecond })

	report := interactor.Execute(130 * time.Millisecond)

	assert.Equal(t, int64(42), report.BotMillis())
	assert.Equal(t, int64(130), report.APIMillis())
}

func TestPingInteractor_Execute_WithoutLatencySource(t *testing.T) {
	interactor := NewPingInteractor(nil)

	report := interactor.Execute(-time.Millisecond)

	assert.Zero(t, report.BotMillis())
	assert.Zero(t, report.APIMillis())
}
