package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/hostelsim-go/internal/domain/visitor"
)

type behaviorPolicyContext struct {
	policy         *visitor.Policy
	hour           int
	holdsRoom      bool
	counterPresent bool
	decisions      []visitor.Decision
}

func (bpc *behaviorPolicyContext) reset() {
	bpc.policy = visitor.NewPolicy(visitor.DefaultPolicyConfig())
	bpc.hour = 0
	bpc.holdsRoom = false
	bpc.counterPresent = true
	bpc.decisions = nil
}

func (bpc *behaviorPolicyContext) theSimulatedHourIs(hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("hour %d out of range", hour)
	}
	bpc.hour = hour
	return nil
}

func (bpc *behaviorPolicyContext) theVisitorHoldsARoom(answer string) error {
	bpc.holdsRoom = answer == "yes"
	return nil
}

func (bpc *behaviorPolicyContext) aServiceCounterIsPresent(answer string) error {
	bpc.counterPresent = answer == "yes"
	return nil
}

func (bpc *behaviorPolicyContext) thePolicyIsEvaluatedWithDraw(draw float64) error {
	bpc.decisions = append(bpc.decisions,
		bpc.policy.Decide(bpc.hour, bpc.holdsRoom, bpc.counterPresent, draw))
	return nil
}

func (bpc *behaviorPolicyContext) thePolicyIsEvaluatedTwiceWithDraw(draw float64) error {
	for i := 0; i < 2; i++ {
		if err := bpc.thePolicyIsEvaluatedWithDraw(draw); err != nil {
			return err
		}
	}
	return nil
}

func (bpc *behaviorPolicyContext) theDecisionIs(expected string) error {
	if len(bpc.decisions) == 0 {
		return fmt.Errorf("the policy was never evaluated")
	}
	last := bpc.decisions[len(bpc.decisions)-1]
	if string(last) != expected {
		return fmt.Errorf("expected decision %s, got %s", expected, last)
	}
	return nil
}

func (bpc *behaviorPolicyContext) bothDecisionsMatch() error {
	if len(bpc.decisions) != 2 {
		return fmt.Errorf("expected 2 decisions, got %d", len(bpc.decisions))
	}
	if bpc.decisions[0] != bpc.decisions[1] {
		return fmt.Errorf("decisions differ: %s vs %s", bpc.decisions[0], bpc.decisions[1])
	}
	return nil
}

// InitializeBehaviorPolicyScenario registers the behavior policy steps
func InitializeBehaviorPolicyScenario(sc *godog.ScenarioContext) {
	bpc := &behaviorPolicyContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		bpc.reset()
		return ctx, nil
	})

	sc.Step(`^the simulated hour is (\d+)$`, bpc.theSimulatedHourIs)
	sc.Step(`^the visitor holds a room: (yes|no)$`, bpc.theVisitorHoldsARoom)
	sc.Step(`^a service counter is present: (yes|no)$`, bpc.aServiceCounterIsPresent)
	sc.Step(`^the policy is evaluated with draw ([0-9.]+)$`, bpc.thePolicyIsEvaluatedWithDraw)
	sc.Step(`^the policy is evaluated twice with draw ([0-9.]+)$`, bpc.thePolicyIsEvaluatedTwiceWithDraw)
	sc.Step(`^the decision is (\w+)$`, bpc.theDecisionIs)
	sc.Step(`^both decisions match$`, bpc.bothDecisionsMatch)
}
