package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"armory/core/store"

	"go.uber.org/zap"
)

// ProfileSource is the runner's view of the profile store.
type ProfileSource interface {
	Get(id string) (*store.Profile, error)
	CheckDrift(ctx context.Context, id string) (*store.DriftReport, error)
}

// ConfigGenerator synthesizes and persists a profile's server configuration,
// returning the artifact path to launch with.
type ConfigGenerator interface {
	GenerateFor(ctx context.Context, profile *store.Profile) (string, error)
}

// EventRecorder records run lifecycle events. Optional; a nil recorder
// disables journaling.
type EventRecorder interface {
	RecordEvent(ctx context.Context, profileID, event string, exitCode *int)
}

// Journal event names.
const (
	EventStarted = "started"
	EventStopped = "stopped"
	EventCrashed = "crashed"
)

// Manager supervises zero-or-one server process per profile.
type Manager struct {
	cfg       Config
	profiles  ProfileSource
	generator ConfigGenerator
	launcher  Launcher
	recorder  EventRecorder
	logger    *zap.Logger

	mu        sync.Mutex
	instances map[string]*instance
}

// instance is the supervisor state of one profile. All fields are guarded
// by the manager mutex; the state field is the concurrency lock for
// start/stop decisions.
type instance struct {
	profileID     string
	state         State
	process       Process
	hub           *hub
	exitCode      *int
	startedAt     time.Time
	stopRequested bool
	exited        chan struct{}
}

// New creates a supervisor. recorder may be nil.
func New(cfg Config, profiles ProfileSource, generator ConfigGenerator, launcher Launcher, recorder EventRecorder, logger *zap.Logger) *Manager {
	return &Manager{
		cfg:       cfg,
		profiles:  profiles,
		generator: generator,
		launcher:  launcher,
		recorder:  recorder,
		logger:    logger,
		instances: make(map[string]*instance),
	}
}

// Start launches the profile's server process.
//
// Called in any state other than Stopped or Crashed it is a no-op returning
// the current status. For profiles with BlockOnDrift it first re-checks
// drift and refuses with DriftBlockedError while drift exists. The freshly
// synthesized configuration is always used; stale artifacts never are.
func (m *Manager) Start(ctx context.Context, profileID string) (Status, error) {
	profile, err := m.profiles.Get(profileID)
	if err != nil {
		return Status{}, err
	}

	m.mu.Lock()
	if inst, ok := m.instances[profileID]; ok && !inst.state.startable() {
		status := m.statusLocked(inst)
		m.mu.Unlock()
		return status, nil
	}
	// Claim the slot before releasing the lock; concurrent Starts see
	// Starting and no-op.
	inst := &instance{
		profileID: profileID,
		state:     StateStarting,
		hub:       newHub(),
		startedAt: time.Now().UTC(),
		exited:    make(chan struct{}),
	}
	m.instances[profileID] = inst
	m.mu.Unlock()

	status, err := m.launch(ctx, profile, inst)
	if err != nil {
		m.mu.Lock()
		inst.state = StateStopped
		inst.hub.close()
		m.mu.Unlock()
		return Status{ProfileID: profileID, State: StateStopped}, err
	}
	return status, nil
}

func (m *Manager) launch(ctx context.Context, profile *store.Profile, inst *instance) (Status, error) {
	if profile.BlockOnDrift {
		report, err := m.profiles.CheckDrift(ctx, profile.ID)
		if err != nil {
			return Status{}, fmt.Errorf("drift check before start: %w", err)
		}
		if report.HasDrift() {
			return Status{}, &DriftBlockedError{Report: report}
		}
	}

	configPath, err := m.generator.GenerateFor(ctx, profile)
	if err != nil {
		return Status{}, fmt.Errorf("synthesize config: %w", err)
	}

	profileDir := filepath.Join(effective(profile.ProfileDirOverride, m.cfg.ProfileDirBase), profile.ID)
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return Status{}, fmt.Errorf("create profile dir: %w", err)
	}

	args := []string{"-config", configPath, "-profile", profileDir}
	if profile.LoadSessionSave {
		args = append(args, "-loadSessionSave")
	}

	process, err := m.launcher.Launch(LaunchSpec{
		ExePath: effective(profile.ServerExeOverride, m.cfg.ServerExe),
		WorkDir: effective(profile.WorkDirOverride, m.cfg.WorkDir),
		Args:    args,
	})
	if err != nil {
		return Status{}, fmt.Errorf("spawn server: %w", err)
	}

	m.mu.Lock()
	inst.process = process
	m.mu.Unlock()

	go m.pumpLines(inst, process)
	go m.monitor(inst, process)
	m.armGracePeriod(inst)

	m.logger.Info("server starting",
		zap.String("profile_id", profile.ID),
		zap.Int("pid", process.PID()),
		zap.String("config", configPath),
	)
	m.record(profile.ID, EventStarted, nil)

	return m.Status(profile.ID), nil
}

// armGracePeriod promotes Starting to Running once the grace period passes
// without the process dying. No liveness protocol exists, so surviving the
// grace window is the liveness signal.
func (m *Manager) armGracePeriod(inst *instance) {
	grace := time.Duration(m.cfg.StartGraceSeconds) * time.Second
	time.AfterFunc(grace, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if inst.state == StateStarting {
			inst.state = StateRunning
			m.logger.Info("server running", zap.String("profile_id", inst.profileID))
		}
	})
}

// pumpLines forwards child output into the hub in arrival order.
func (m *Manager) pumpLines(inst *instance, process Process) {
	for line := range process.Lines() {
		inst.hub.publish(line)
	}
}

// monitor waits for process exit and settles the final state.
func (m *Manager) monitor(inst *instance, process Process) {
	code := process.Wait()

	m.mu.Lock()
	inst.hub.close()
	close(inst.exited)
	if inst.stopRequested {
		inst.state = StateStopped
		inst.exitCode = nil
		m.mu.Unlock()
		m.logger.Info("server stopped", zap.String("profile_id", inst.profileID))
		m.record(inst.profileID, EventStopped, nil)
		return
	}
	inst.state = StateCrashed
	inst.exitCode = &code
	m.mu.Unlock()

	m.logger.Warn("server crashed",
		zap.String("profile_id", inst.profileID),
		zap.Int("exit_code", code),
	)
	m.record(inst.profileID, EventCrashed, &code)
}

// Stop gracefully terminates the profile's process, escalating to a kill
// after the stop timeout.
func (m *Manager) Stop(ctx context.Context, profileID string) (Status, error) {
	m.mu.Lock()
	inst, ok := m.instances[profileID]
	if !ok || !inst.state.stoppable() {
		state := StateStopped
		if ok {
			state = inst.state
		}
		m.mu.Unlock()
		return Status{ProfileID: profileID, State: state}, &InvalidTransitionError{Op: "stop", State: state}
	}
	if inst.process == nil {
		// Claimed Starting but the spawn has not happened yet; there is
		// nothing to signal. Callers retry once the launch settles.
		state := inst.state
		m.mu.Unlock()
		return Status{ProfileID: profileID, State: state}, &InvalidTransitionError{Op: "stop", State: state}
	}
	inst.state = StateStopping
	inst.stopRequested = true
	process := inst.process
	exited := inst.exited
	m.mu.Unlock()

	if err := process.Terminate(); err != nil {
		m.logger.Warn("graceful termination failed, killing",
			zap.String("profile_id", profileID), zap.Error(err))
		_ = process.Kill()
	}

	timeout := time.Duration(m.cfg.StopTimeoutSeconds) * time.Second
	select {
	case <-exited:
	case <-time.After(timeout):
		m.logger.Warn("stop timeout exceeded, killing", zap.String("profile_id", profileID))
		_ = process.Kill()
		<-exited
	case <-ctx.Done():
		_ = process.Kill()
		<-exited
	}

	return m.Status(profileID), nil
}

// Status returns the profile's current run state. Pure read; never blocks
// on the child process.
func (m *Manager) Status(profileID string) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instances[profileID]
	if !ok {
		return Status{ProfileID: profileID, State: StateStopped}
	}
	return m.statusLocked(inst)
}

func (m *Manager) statusLocked(inst *instance) Status {
	status := Status{
		ProfileID: inst.profileID,
		State:     inst.state,
		ExitCode:  inst.exitCode,
	}
	if inst.process != nil && (inst.state == StateStarting || inst.state == StateRunning || inst.state == StateStopping) {
		status.PID = inst.process.PID()
		startedAt := inst.startedAt
		status.StartedAt = &startedAt
	}
	return status
}

// Subscribe attaches a log subscriber to the profile's running instance.
// backlog > 0 replays up to that many recent lines first. The returned
// cancel must be called when the subscriber goes away.
func (m *Manager) Subscribe(profileID string, backlog int) (<-chan string, func(), error) {
	m.mu.Lock()
	inst, ok := m.instances[profileID]
	m.mu.Unlock()
	if !ok {
		return nil, nil, &InvalidTransitionError{Op: "subscribe", State: StateStopped}
	}
	ch, cancel := inst.hub.subscribe(backlog)
	return ch, cancel, nil
}

// Tail returns up to n of the most recent log lines, also available after
// the process exited.
func (m *Manager) Tail(profileID string, n int) []string {
	m.mu.Lock()
	inst, ok := m.instances[profileID]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return inst.hub.tail(n)
}

// StopAll stops every running instance; used during shutdown and before
// profile deletion cascades.
func (m *Manager) StopAll(ctx context.Context) {
	m.mu.Lock()
	var running []string
	for id, inst := range m.instances {
		if inst.state.stoppable() {
			running = append(running, id)
		}
	}
	m.mu.Unlock()

	for _, id := range running {
		if _, err := m.Stop(ctx, id); err != nil {
			m.logger.Warn("stop during shutdown failed", zap.String("profile_id", id), zap.Error(err))
		}
	}
}

// record writes a journal event when a recorder is configured.
func (m *Manager) record(profileID, event string, exitCode *int) {
	if m.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m.recorder.RecordEvent(ctx, profileID, event, exitCode)
}

// effective returns override when non-empty, fallback otherwise.
func effective(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}
