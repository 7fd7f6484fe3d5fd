package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/hostelsim-go/internal/domain/lodging"
	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
)

type roomAllocationContext struct {
	allocator *lodging.RoomAllocator
	handles   map[string]*lodging.RoomHandle
	lastOK    bool
}

func (rac *roomAllocationContext) reset() {
	rac.allocator = nil
	rac.handles = make(map[string]*lodging.RoomHandle)
	rac.lastOK = false
}

func (rac *roomAllocationContext) aHostelWithFreeRooms(n int) error {
	rac.allocator = lodging.NewRoomAllocator(nil, shared.NewSeededRandSource(1), nil)

	rooms := make([]lodging.RoomInfo, 0, n)
	for i := 0; i < n; i++ {
		pos := shared.Point{X: float64(10 + i*15), Y: 10}
		rooms = append(rooms, lodging.RoomInfo{
			ID:       lodging.RoomIDFromPosition(pos),
			Position: pos,
			Bounds:   shared.Rect{MinX: pos.X - 5, MinY: pos.Y - 5, MaxX: pos.X + 5, MaxY: pos.Y + 5},
		})
	}
	rac.allocator.UpdateRooms(rooms)
	return nil
}

func (rac *roomAllocationContext) visitorRequestsARoom(name string) error {
	handle, ok := rac.allocator.TryAssign(name)
	rac.lastOK = ok
	if ok {
		rac.handles[name] = handle
	}
	return nil
}

func (rac *roomAllocationContext) theRoomRequestSucceeds() error {
	if !rac.lastOK {
		return fmt.Errorf("expected the room request to succeed")
	}
	return nil
}

func (rac *roomAllocationContext) roomsRemainFree(n int) error {
	if free := rac.allocator.FreeCount(); free != n {
		return fmt.Errorf("expected %d free rooms, got %d", n, free)
	}
	return nil
}

func (rac *roomAllocationContext) visitorHasNoRoom(name string) error {
	if _, held := rac.handles[name]; held && rac.lastOK {
		return fmt.Errorf("expected visitor %q to have no room", name)
	}
	return nil
}

func (rac *roomAllocationContext) visitorStillHoldsHerRoom(name string) error {
	handle, held := rac.handles[name]
	if !held {
		return fmt.Errorf("visitor %q was never assigned a room", name)
	}
	if !rac.allocator.Holds(name, handle.RoomID()) {
		return fmt.Errorf("visitor %q no longer holds room %s", name, handle.RoomID())
	}
	return nil
}

func (rac *roomAllocationContext) visitorReleasesHerRoom(name string) error {
	rac.allocator.Release(name)
	delete(rac.handles, name)
	return nil
}

func (rac *roomAllocationContext) visitorHoldsExactlyOneRoom(name string) error {
	if rac.allocator.OccupiedCount() != 1 {
		return fmt.Errorf("expected exactly one occupied room, got %d", rac.allocator.OccupiedCount())
	}
	handle, held := rac.handles[name]
	if !held || !rac.allocator.Holds(name, handle.RoomID()) {
		return fmt.Errorf("visitor %q does not hold a room", name)
	}
	return nil
}

// InitializeRoomAllocationScenario registers the room allocation steps
func InitializeRoomAllocationScenario(sc *godog.ScenarioContext) {
	rac := &roomAllocationContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		rac.reset()
		return ctx, nil
	})

	sc.Step(`^a hostel with (\d+) free rooms$`, rac.aHostelWithFreeRooms)
	sc.Step(`^visitor "([^"]*)" requests a room$`, rac.visitorRequestsARoom)
	sc.Step(`^the room request succeeds$`, rac.theRoomRequestSucceeds)
	sc.Step(`^(\d+) rooms remain free$`, rac.roomsRemainFree)
	sc.Step(`^visitor "([^"]*)" has no room$`, rac.visitorHasNoRoom)
	sc.Step(`^visitor "([^"]*)" still holds her room$`, rac.visitorStillHoldsHerRoom)
	sc.Step(`^visitor "([^"]*)" releases her room$`, rac.visitorReleasesHerRoom)
	sc.Step(`^visitor "([^"]*)" holds exactly one room$`, rac.visitorHoldsExactlyOneRoom)
}
