package counter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/hostelsim-go/internal/domain/counter"
	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
)

func TestRetryTracker_CountsConsecutiveRejections(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	tracker := counter.NewRetryTracker(clock)

	// Act
	assert.Equal(t, 1, tracker.RecordRejection("visitor-1"))
	clock.Advance(3 * time.Second)
	assert.Equal(t, 2, tracker.RecordRejection("visitor-1"))

	// Assert
	assert.Equal(t, 2, tracker.Attempts("visitor-1"))
	assert.Equal(t, clock.Now(), tracker.LastAttempt("visitor-1"))
	assert.Equal(t, 0, tracker.Attempts("visitor-2"))
}

func TestRetryTracker_ClearResetsCount(t *testing.T) {
	tracker := counter.NewRetryTracker(nil)
	tracker.RecordRejection("visitor-1")
	tracker.RecordRejection("visitor-1")

	tracker.Clear("visitor-1")

	assert.Equal(t, 0, tracker.Attempts("visitor-1"))
	assert.True(t, tracker.LastAttempt("visitor-1").IsZero())
}
