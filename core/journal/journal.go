package journal

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunEvent is one lifecycle event of a profile's server process.
type RunEvent struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	ProfileID string    `gorm:"column:profile_id;type:varchar(64);index"`
	Event     string    `gorm:"column:event;type:varchar(16)"`
	ExitCode  *int      `gorm:"column:exit_code"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (RunEvent) TableName() string {
	return "run_events"
}

// Journal records run events into the database.
type Journal struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New creates a journal on an established database connection.
func New(db *gorm.DB, logger *zap.Logger) *Journal {
	return &Journal{db: db, logger: logger}
}

// Migrate creates or updates the run_events table.
func (j *Journal) Migrate() error {
	return j.db.AutoMigrate(&RunEvent{})
}

// RecordEvent writes one event row. Errors are logged and swallowed so a
// broken journal never interferes with process supervision.
func (j *Journal) RecordEvent(ctx context.Context, profileID, event string, exitCode *int) {
	row := RunEvent{
		ProfileID: profileID,
		Event:     event,
		ExitCode:  exitCode,
		CreatedAt: time.Now().UTC(),
	}
	if err := j.db.WithContext(ctx).Create(&row).Error; err != nil {
		j.logger.Warn("failed to record run event",
			zap.String("profile_id", profileID),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}

// Recent returns the newest events for a profile, most recent first.
func (j *Journal) Recent(ctx context.Context, profileID string, limit int) ([]RunEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []RunEvent
	err := j.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("id DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
