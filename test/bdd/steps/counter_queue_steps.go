package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/hostelsim-go/internal/domain/counter"
)

type counterQueueContext struct {
	queue    *counter.ServiceQueue
	admitted int
	refused  int
}

func (cqc *counterQueueContext) reset() {
	cqc.queue = nil
	cqc.admitted = 0
	cqc.refused = 0
}

func (cqc *counterQueueContext) aServiceCounterWithCapacity(capacity int) error {
	cqc.queue = counter.NewServiceQueue(capacity, time.Millisecond)
	return nil
}

func (cqc *counterQueueContext) visitorsTryToJoinTheQueue(n int) error {
	for i := 0; i < n; i++ {
		if cqc.queue.TryJoin(fmt.Sprintf("visitor-%d", i)) {
			cqc.admitted++
		} else {
			cqc.refused++
		}
	}
	return nil
}

func (cqc *counterQueueContext) visitorsAreAdmitted(n int) error {
	if cqc.admitted != n {
		return fmt.Errorf("expected %d admitted, got %d", n, cqc.admitted)
	}
	return nil
}

func (cqc *counterQueueContext) visitorIsRefused(n int) error {
	if cqc.refused != n {
		return fmt.Errorf("expected %d refused, got %d", n, cqc.refused)
	}
	return nil
}

func (cqc *counterQueueContext) visitorsAreWaitingInOrder(names string) error {
	for _, name := range parseNames(names) {
		if !cqc.queue.TryJoin(name) {
			return fmt.Errorf("visitor %q was refused during setup", name)
		}
	}
	return nil
}

func (cqc *counterQueueContext) canStartService(name string) error {
	if !cqc.queue.CanReceiveService(name) {
		return fmt.Errorf("expected %q to be serviceable", name)
	}
	return nil
}

func (cqc *counterQueueContext) cannotStartService(name string) error {
	if cqc.queue.CanReceiveService(name) {
		return fmt.Errorf("expected %q not to be serviceable", name)
	}
	return nil
}

func (cqc *counterQueueContext) isServedToCompletion(name string) error {
	done, err := cqc.queue.StartService(name)
	if err != nil {
		return fmt.Errorf("starting service for %q: %w", name, err)
	}
	select {
	case <-done:
		return nil
	case <-time.After(time.Second):
		return fmt.Errorf("service for %q never completed", name)
	}
}

func (cqc *counterQueueContext) leavesTheQueue(name string) error {
	cqc.queue.Leave(name)
	return nil
}

func (cqc *counterQueueContext) visitorCanJoinTheQueue(name string) error {
	if !cqc.queue.TryJoin(name) {
		return fmt.Errorf("expected %q to be admitted", name)
	}
	return nil
}

// parseNames splits `"alice" and "bob"` style lists into names
func parseNames(s string) []string {
	var names []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '"' }) {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" || trimmed == "and" {
			continue
		}
		names = append(names, trimmed)
	}
	return names
}

// InitializeCounterQueueScenario registers the service counter steps
func InitializeCounterQueueScenario(sc *godog.ScenarioContext) {
	cqc := &counterQueueContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		cqc.reset()
		return ctx, nil
	})

	sc.Step(`^a service counter with capacity (\d+)$`, cqc.aServiceCounterWithCapacity)
	sc.Step(`^(\d+) visitors try to join the queue$`, cqc.visitorsTryToJoinTheQueue)
	sc.Step(`^(\d+) visitors are admitted$`, cqc.visitorsAreAdmitted)
	sc.Step(`^(\d+) visitor is refused$`, cqc.visitorIsRefused)
	sc.Step(`^visitors (.+) are waiting in order$`, cqc.visitorsAreWaitingInOrder)
	sc.Step(`^"([^"]*)" can start service$`, cqc.canStartService)
	sc.Step(`^"([^"]*)" cannot start service$`, cqc.cannotStartService)
	sc.Step(`^"([^"]*)" is served to completion$`, cqc.isServedToCompletion)
	sc.Step(`^"([^"]*)" leaves the queue$`, cqc.leavesTheQueue)
	sc.Step(`^visitor "([^"]*)" can join the queue$`, cqc.visitorCanJoinTheQueue)
}
