package helpers

import (
	"github.com/andrescamacho/hostelsim-go/internal/domain/lodging"
)

// StubPricing returns fixed amounts for every room
type StubPricing struct {
	Charge     float64
	Reputation float64
}

func (p *StubPricing) ComputeCharge(lodging.RoomID) float64     { return p.Charge }
func (p *StubPricing) ComputeReputation(lodging.RoomID) float64 { return p.Reputation }
