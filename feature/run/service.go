package run

import (
	"context"

	"armory/core/journal"
	"armory/core/runner"

	"go.uber.org/zap"
)

// EventLog is the service's view of the run journal; nil disables history.
type EventLog interface {
	Recent(ctx context.Context, profileID string, limit int) ([]journal.RunEvent, error)
}

// Service handles run operations.
type Service struct {
	manager *runner.Manager
	events  EventLog
	logger  *zap.Logger
}

// NewService creates a new run service. events may be nil.
func NewService(manager *runner.Manager, events EventLog, logger *zap.Logger) *Service {
	return &Service{manager: manager, events: events, logger: logger}
}

// Start launches the profile's server.
func (s *Service) Start(ctx context.Context, profileID string) (runner.Status, error) {
	return s.manager.Start(ctx, profileID)
}

// Stop terminates the profile's server.
func (s *Service) Stop(ctx context.Context, profileID string) (runner.Status, error) {
	return s.manager.Stop(ctx, profileID)
}

// Status returns the profile's current run state.
func (s *Service) Status(profileID string) runner.Status {
	return s.manager.Status(profileID)
}

// Subscribe attaches a live log subscriber.
func (s *Service) Subscribe(profileID string, backlog int) (<-chan string, func(), error) {
	return s.manager.Subscribe(profileID, backlog)
}

// Tail returns up to n recent log lines.
func (s *Service) Tail(profileID string, n int) []string {
	return s.manager.Tail(profileID, n)
}

// Events returns the persisted run history, newest first. Without a journal
// the history is empty.
func (s *Service) Events(ctx context.Context, profileID string, limit int) ([]journal.RunEvent, error) {
	if s.events == nil {
		return []journal.RunEvent{}, nil
	}
	return s.events.Recent(ctx, profileID, limit)
}
