package visitor

// State is the visitor state machine's state enum
type State string

const (
	// StateWandering indicates the visitor is strolling between random points
	StateWandering State = "WANDERING"

	// StateMovingToQueue indicates the visitor is walking to the counter.
	// Initial state on spawn.
	StateMovingToQueue State = "MOVING_TO_QUEUE"

	// StateWaitingInQueue indicates the visitor is enqueued at the counter
	StateWaitingInQueue State = "WAITING_IN_QUEUE"

	// StateMovingToRoom indicates the visitor has an assigned room and is
	// walking to it
	StateMovingToRoom State = "MOVING_TO_ROOM"

	// StateUsingRoom indicates the visitor is occupying its room
	StateUsingRoom State = "USING_ROOM"

	// StateUseWandering indicates the visitor is strolling outdoors while
	// still holding its room
	StateUseWandering State = "USE_WANDERING"

	// StateRoomWandering indicates the visitor is strolling inside its room
	StateRoomWandering State = "ROOM_WANDERING"

	// StateReportingRoom indicates the visitor is walking back to the
	// counter to report a vacated room
	StateReportingRoom State = "REPORTING_ROOM"

	// StateReportingRoomQueue indicates the visitor is queued at the
	// counter to report a vacated room
	StateReportingRoomQueue State = "REPORTING_ROOM_QUEUE"

	// StateReturningToSpawn indicates the visitor is leaving. Arrival at
	// the spawn point recycles it.
	StateReturningToSpawn State = "RETURNING_TO_SPAWN"
)

func (s State) String() string { return string(s) }

// IsCritical reports whether the state is exempt from hourly behavior
// re-evaluation. Critical states are interrupted only by the forced-eviction
// rule, which itself exempts the room-holding subset.
func (s State) IsCritical() bool {
	switch s {
	case StateMovingToRoom, StateUsingRoom, StateRoomWandering,
		StateUseWandering, StateReportingRoom, StateReportingRoomQueue:
		return true
	}
	return false
}

// IsRoomRelated reports whether the state represents active room occupancy.
// Room-related states are eligible for the hourly indoor/outdoor re-roll and
// exempt from forced eviction.
func (s State) IsRoomRelated() bool {
	switch s {
	case StateUsingRoom, StateRoomWandering, StateUseWandering:
		return true
	}
	return false
}

// Label returns the human-readable status label shown for the state
func (s State) Label() string {
	switch s {
	case StateWandering:
		return "wandering"
	case StateMovingToQueue:
		return "heading to the counter"
	case StateWaitingInQueue:
		return "waiting in line"
	case StateMovingToRoom:
		return "heading to room"
	case StateUsingRoom:
		return "using room"
	case StateUseWandering:
		return "out and about"
	case StateRoomWandering:
		return "settled in"
	case StateReportingRoom:
		return "heading back to the counter"
	case StateReportingRoomQueue:
		return "reporting checkout"
	case StateReturningToSpawn:
		return "leaving"
	}
	return "idle"
}
