package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/hostelsim-go/internal/application/simulation"
	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
)

// GormEventSink implements simulation.EventSink using GORM
type GormEventSink struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormEventSink creates a new GORM event sink. If clock is nil, uses
// RealClock.
func NewGormEventSink(db *gorm.DB, clock shared.Clock) *GormEventSink {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormEventSink{db: db, clock: clock}
}

// Append persists one simulation event
func (r *GormEventSink) Append(ctx context.Context, ev simulation.Event) error {
	model := &SimEventModel{
		VisitorID: ev.VisitorID,
		Kind:      ev.Kind,
		Detail:    ev.Detail,
		SimDay:    ev.At.Day,
		SimHour:   ev.At.Hour,
		SimMinute: ev.At.Minute,
		CreatedAt: r.clock.Now(),
	}

	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return fmt.Errorf("failed to append event: %w", result.Error)
	}
	return nil
}

// ListByVisitor returns the visitor's events in insertion order
func (r *GormEventSink) ListByVisitor(ctx context.Context, visitorID string) ([]SimEventModel, error) {
	var models []SimEventModel
	result := r.db.WithContext(ctx).
		Where("visitor_id = ?", visitorID).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list events: %w", result.Error)
	}
	return models, nil
}

// CountByKind returns the number of events of one kind
func (r *GormEventSink) CountByKind(ctx context.Context, kind string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&SimEventModel{}).Where("kind = ?", kind).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count events: %w", result.Error)
	}
	return count, nil
}
