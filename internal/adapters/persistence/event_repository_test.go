package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/hostelsim-go/internal/adapters/persistence"
	"github.com/andrescamacho/hostelsim-go/internal/application/simulation"
	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
	"github.com/andrescamacho/hostelsim-go/test/helpers"
)

func TestEventSink_AppendAndListByVisitor(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	sink := persistence.NewGormEventSink(db, nil)

	events := []simulation.Event{
		{VisitorID: "visitor-1", Kind: simulation.EventSpawned, At: shared.TimeOfDay{Hour: 8}},
		{VisitorID: "visitor-1", Kind: simulation.EventStateChanged, Detail: "WANDERING -> MOVING_TO_QUEUE", At: shared.TimeOfDay{Hour: 9, Minute: 12}},
		{VisitorID: "visitor-2", Kind: simulation.EventSpawned, At: shared.TimeOfDay{Hour: 8, Minute: 1}},
	}

	// Act
	for _, ev := range events {
		require.NoError(t, sink.Append(context.Background(), ev))
	}

	// Assert
	found, err := sink.ListByVisitor(context.Background(), "visitor-1")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, simulation.EventSpawned, found[0].Kind)
	assert.Equal(t, 9, found[1].SimHour)
	assert.Equal(t, 12, found[1].SimMinute)
}

func TestEventSink_CountByKind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	sink := persistence.NewGormEventSink(db, nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, sink.Append(context.Background(), simulation.Event{
			VisitorID: "visitor-1",
			Kind:      simulation.EventQueueRejected,
		}))
	}
	require.NoError(t, sink.Append(context.Background(), simulation.Event{
		VisitorID: "visitor-1",
		Kind:      simulation.EventEvicted,
	}))

	// Act
	rejections, err := sink.CountByKind(context.Background(), simulation.EventQueueRejected)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(3), rejections)
}
