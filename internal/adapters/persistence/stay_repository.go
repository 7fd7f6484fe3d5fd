package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/hostelsim-go/internal/application/simulation"
	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
)

// GormStayLedger implements simulation.StayLedger using GORM
type GormStayLedger struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormStayLedger creates a new GORM stay ledger. If clock is nil, uses
// RealClock.
func NewGormStayLedger(db *gorm.DB, clock shared.Clock) *GormStayLedger {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormStayLedger{db: db, clock: clock}
}

// RecordStay persists one completed occupancy
func (r *GormStayLedger) RecordStay(ctx context.Context, rec simulation.StayRecord) error {
	model := &StayModel{
		VisitorID:    rec.VisitorID,
		VisitorName:  rec.VisitorName,
		RoomID:       rec.RoomID.String(),
		Charge:       rec.Charge,
		Reputation:   rec.Reputation,
		SimDay:       rec.SimDay,
		CheckInHour:  rec.CheckInHour,
		CheckOutHour: rec.CheckOutHour,
		Duration:     rec.Duration.Milliseconds(),
		CreatedAt:    r.clock.Now(),
	}

	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return fmt.Errorf("failed to record stay: %w", result.Error)
	}
	return nil
}

// CountStays returns the number of recorded stays
func (r *GormStayLedger) CountStays(ctx context.Context) (int64, error) {
	var count int64
	if result := r.db.WithContext(ctx).Model(&StayModel{}).Count(&count); result.Error != nil {
		return 0, fmt.Errorf("failed to count stays: %w", result.Error)
	}
	return count, nil
}

// TotalRevenue sums the charges across all recorded stays
func (r *GormStayLedger) TotalRevenue(ctx context.Context) (float64, error) {
	var total *float64
	result := r.db.WithContext(ctx).Model(&StayModel{}).Select("SUM(charge)").Scan(&total)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", result.Error)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// ListByDay returns the stays completed on one simulated day, oldest first
func (r *GormStayLedger) ListByDay(ctx context.Context, simDay int) ([]StayModel, error) {
	var models []StayModel
	result := r.db.WithContext(ctx).
		Where("sim_day = ?", simDay).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list stays: %w", result.Error)
	}
	return models, nil
}
