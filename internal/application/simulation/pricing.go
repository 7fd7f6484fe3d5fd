package simulation

import (
	"hash/fnv"

	"github.com/andrescamacho/hostelsim-go/internal/domain/lodging"
)

// FlatPricing charges a base nightly rate with a small deterministic
// per-room premium so that different rooms yield distinguishable ledger
// entries. Reputation follows the same spread on a 0..5 scale.
type FlatPricing struct {
	BaseCharge float64
	Spread     float64
}

func NewFlatPricing(baseCharge, spread float64) *FlatPricing {
	return &FlatPricing{BaseCharge: baseCharge, Spread: spread}
}

func (p *FlatPricing) ComputeCharge(roomID lodging.RoomID) float64 {
	return p.BaseCharge + p.Spread*roomFactor(roomID)
}

func (p *FlatPricing) ComputeReputation(roomID lodging.RoomID) float64 {
	return 3.0 + 2.0*roomFactor(roomID)
}

// roomFactor maps a room id to a stable value in [0, 1)
func roomFactor(roomID lodging.RoomID) float64 {
	h := fnv.New32a()
	h.Write([]byte(roomID))
	return float64(h.Sum32()%1000) / 1000.0
}
