package persistence

import "time"

// StayModel represents the stays table: one row per completed room occupancy
type StayModel struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	VisitorID   string    `gorm:"column:visitor_id;not null;index"`
	VisitorName string    `gorm:"column:visitor_name"`
	RoomID      string    `gorm:"column:room_id;not null;index"`
	Charge      float64   `gorm:"column:charge;not null"`
	Reputation  float64   `gorm:"column:reputation;not null"`
	SimDay      int       `gorm:"column:sim_day;not null"`
	CheckInHour int       `gorm:"column:check_in_hour;not null"`
	CheckOutHour int      `gorm:"column:check_out_hour;not null"`
	Duration    int64     `gorm:"column:duration_ms;not null"` // wall milliseconds
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
}

func (StayModel) TableName() string {
	return "stays"
}

// SimEventModel represents the sim_events table: the persisted event stream
// (state transitions, evictions, rejections)
type SimEventModel struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	VisitorID string    `gorm:"column:visitor_id;index"`
	Kind      string    `gorm:"column:kind;not null;index"`
	Detail    string    `gorm:"column:detail;type:text"`
	SimDay    int       `gorm:"column:sim_day;not null"`
	SimHour   int       `gorm:"column:sim_hour;not null"`
	SimMinute int       `gorm:"column:sim_minute;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (SimEventModel) TableName() string {
	return "sim_events"
}
