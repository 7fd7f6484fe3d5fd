package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Visitor-related errors

type VisitorError struct {
	*DomainError
}

func NewVisitorError(message string) *VisitorError {
	return &VisitorError{DomainError: &DomainError{Message: message}}
}

// CollaboratorMissingError reports that a required collaborator was absent at
// visitor initialization. Fatal for that visitor only.
type CollaboratorMissingError struct {
	*VisitorError
	Collaborator string
}

func NewCollaboratorMissingError(collaborator string) *CollaboratorMissingError {
	return &CollaboratorMissingError{
		VisitorError: NewVisitorError(fmt.Sprintf("required collaborator missing: %s", collaborator)),
		Collaborator: collaborator,
	}
}

// Lodging-related errors

type RoomError struct {
	*DomainError
	RoomID string
}

func NewRoomError(message, roomID string) *RoomError {
	return &RoomError{
		DomainError: &DomainError{Message: message},
		RoomID:      roomID,
	}
}

// StaleRoomError reports a reference to a room that is no longer bound to the
// visitor. Recoverable: the visitor abandons the room-use flow.
type StaleRoomError struct {
	*RoomError
	VisitorID string
}

func NewStaleRoomError(roomID, visitorID string) *StaleRoomError {
	return &StaleRoomError{
		RoomError: NewRoomError(
			fmt.Sprintf("room %s is no longer held by visitor %s", roomID, visitorID),
			roomID,
		),
		VisitorID: visitorID,
	}
}

// Counter-related errors

type QueueError struct {
	*DomainError
}

func NewQueueError(message string) *QueueError {
	return &QueueError{DomainError: &DomainError{Message: message}}
}

// QueueFullError reports a rejected admission attempt. Not a fault: callers
// resolve it through the retry/backpressure loop.
type QueueFullError struct {
	*QueueError
	Capacity int
}

func NewQueueFullError(capacity int) *QueueFullError {
	return &QueueFullError{
		QueueError: NewQueueError(fmt.Sprintf("service queue is full (capacity %d)", capacity)),
		Capacity:   capacity,
	}
}

// NotInQueueError reports an operation on a visitor that is not enqueued
type NotInQueueError struct {
	*QueueError
	VisitorID string
}

func NewNotInQueueError(visitorID string) *NotInQueueError {
	return &NotInQueueError{
		QueueError: NewQueueError(fmt.Sprintf("visitor %s is not in the queue", visitorID)),
		VisitorID:  visitorID,
	}
}
