package runner

import (
	"context"
	"sync"
	"testing"
	"time"

	"armory/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testProfileID = "profile-1"

type fakeProfiles struct {
	profile *store.Profile
	drift   *store.DriftReport
}

func (f *fakeProfiles) Get(id string) (*store.Profile, error) {
	if f.profile == nil || f.profile.ID != id {
		return nil, store.ErrProfileNotFound
	}
	return f.profile, nil
}

func (f *fakeProfiles) CheckDrift(ctx context.Context, id string) (*store.DriftReport, error) {
	if f.drift != nil {
		return f.drift, nil
	}
	return &store.DriftReport{ProfileID: id}, nil
}

type fakeGenerator struct {
	path  string
	calls int
}

func (f *fakeGenerator) GenerateFor(ctx context.Context, profile *store.Profile) (string, error) {
	f.calls++
	return f.path, nil
}

// fakeProcess lets tests drive process lifecycle by hand.
type fakeProcess struct {
	mu         sync.Mutex
	pid        int
	lines      chan string
	exit       chan int
	terminated bool
	killed     bool
	// exitOnTerminate makes Terminate behave like a cooperative process.
	exitOnTerminate bool
}

func newFakeProcess(pid int) *fakeProcess {
	return &fakeProcess{pid: pid, lines: make(chan string, 64), exit: make(chan int, 1)}
}

func (p *fakeProcess) PID() int              { return p.pid }
func (p *fakeProcess) Lines() <-chan string  { return p.lines }
func (p *fakeProcess) Wait() int             { return <-p.exit }

func (p *fakeProcess) Terminate() error {
	p.mu.Lock()
	p.terminated = true
	exitNow := p.exitOnTerminate
	p.mu.Unlock()
	if exitNow {
		p.finish(0)
	}
	return nil
}

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()
	p.finish(137)
	return nil
}

func (p *fakeProcess) finish(code int) {
	select {
	case p.exit <- code:
		close(p.lines)
	default:
	}
}

func (p *fakeProcess) wasKilled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

type fakeLauncher struct {
	mu      sync.Mutex
	process *fakeProcess
	spec    LaunchSpec
	err     error
}

func (f *fakeLauncher) Launch(spec LaunchSpec) (Process, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.spec = spec
	return f.process, nil
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeRecorder) RecordEvent(ctx context.Context, profileID, event string, exitCode *int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeRecorder) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

type runnerFixture struct {
	manager  *Manager
	profiles *fakeProfiles
	launcher *fakeLauncher
	process  *fakeProcess
	recorder *fakeRecorder
}

func newFixture(t *testing.T) *runnerFixture {
	t.Helper()
	process := newFakeProcess(4242)
	launcher := &fakeLauncher{process: process}
	profiles := &fakeProfiles{profile: &store.Profile{ID: testProfileID, DisplayName: "Test"}}
	recorder := &fakeRecorder{}
	cfg := Config{
		ServerExe:          "/opt/server/bin",
		WorkDir:            "/opt/server",
		ProfileDirBase:     t.TempDir(),
		StartGraceSeconds:  0,
		StopTimeoutSeconds: 1,
	}
	manager := New(cfg, profiles, &fakeGenerator{path: "/tmp/gen.json"}, launcher, recorder, zap.NewNop())
	return &runnerFixture{
		manager:  manager,
		profiles: profiles,
		launcher: launcher,
		process:  process,
		recorder: recorder,
	}
}

func waitForState(t *testing.T, m *Manager, want State) {
	t.Helper()
	assert.Eventually(t, func() bool {
		return m.Status(testProfileID).State == want
	}, 2*time.Second, 5*time.Millisecond)
}

func TestStartStopLifecycle(t *testing.T) {
	f := newFixture(t)
	f.process.exitOnTerminate = true

	status, err := f.manager.Start(context.Background(), testProfileID)
	require.NoError(t, err)
	assert.Contains(t, []State{StateStarting, StateRunning}, status.State)
	assert.Equal(t, 4242, status.PID)

	waitForState(t, f.manager, StateRunning)

	// Launch spec carries the synthesized config and the profile dir.
	assert.Equal(t, "/opt/server/bin", f.launcher.spec.ExePath)
	assert.Contains(t, f.launcher.spec.Args, "-config")
	assert.Contains(t, f.launcher.spec.Args, "/tmp/gen.json")

	_, err = f.manager.Stop(context.Background(), testProfileID)
	require.NoError(t, err)
	waitForState(t, f.manager, StateStopped)
	assert.False(t, f.process.wasKilled())

	assert.Eventually(t, func() bool {
		events := f.recorder.recorded()
		return len(events) == 2 && events[0] == EventStarted && events[1] == EventStopped
	}, 2*time.Second, 5*time.Millisecond)
}

func TestStart_NoOpWhileRunning(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Start(context.Background(), testProfileID)
	require.NoError(t, err)
	waitForState(t, f.manager, StateRunning)

	// Not an error: the current state comes back unchanged.
	status, err := f.manager.Start(context.Background(), testProfileID)
	require.NoError(t, err)
	assert.Equal(t, StateRunning, status.State)
}

func TestStart_DriftBlocked(t *testing.T) {
	f := newFixture(t)
	f.profiles.profile.BlockOnDrift = true
	f.profiles.drift = &store.DriftReport{
		ProfileID:  testProfileID,
		AddedIDs:   []string{"AAAAAAAAAAAAAAA1"},
		RemovedIDs: []string{"AAAAAAAAAAAAAAA2"},
	}

	_, err := f.manager.Start(context.Background(), testProfileID)
	var driftErr *DriftBlockedError
	require.ErrorAs(t, err, &driftErr)

	// The error names exactly which mod ids changed.
	assert.Contains(t, err.Error(), "AAAAAAAAAAAAAAA1")
	assert.Contains(t, err.Error(), "AAAAAAAAAAAAAAA2")
	assert.Equal(t, StateStopped, f.manager.Status(testProfileID).State)
}

func TestStart_DriftIgnoredWithoutStrictMode(t *testing.T) {
	f := newFixture(t)
	f.profiles.profile.BlockOnDrift = false
	f.profiles.drift = &store.DriftReport{
		ProfileID: testProfileID,
		AddedIDs:  []string{"AAAAAAAAAAAAAAA1"},
	}

	_, err := f.manager.Start(context.Background(), testProfileID)
	require.NoError(t, err)
	waitForState(t, f.manager, StateRunning)
}

func TestCrashDetection(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Start(context.Background(), testProfileID)
	require.NoError(t, err)
	waitForState(t, f.manager, StateRunning)

	// Process dies without a stop request.
	f.process.finish(3)
	waitForState(t, f.manager, StateCrashed)

	status := f.manager.Status(testProfileID)
	require.NotNil(t, status.ExitCode)
	assert.Equal(t, 3, *status.ExitCode)

	// Crashed is startable again, exactly like Stopped.
	f.launcher.mu.Lock()
	f.launcher.process = newFakeProcess(4243)
	f.launcher.mu.Unlock()
	status, err = f.manager.Start(context.Background(), testProfileID)
	require.NoError(t, err)
	assert.Contains(t, []State{StateStarting, StateRunning}, status.State)
	assert.Nil(t, status.ExitCode)
}

func TestStop_EscalatesToKill(t *testing.T) {
	f := newFixture(t)
	f.process.exitOnTerminate = false // ignores SIGTERM

	_, err := f.manager.Start(context.Background(), testProfileID)
	require.NoError(t, err)
	waitForState(t, f.manager, StateRunning)

	_, err = f.manager.Stop(context.Background(), testProfileID)
	require.NoError(t, err)
	waitForState(t, f.manager, StateStopped)
	assert.True(t, f.process.wasKilled())
}

func TestStop_InvalidState(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Stop(context.Background(), testProfileID)
	var invalid *InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
}

func TestLogStreaming(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Start(context.Background(), testProfileID)
	require.NoError(t, err)

	ch, cancel, err := f.manager.Subscribe(testProfileID, 0)
	require.NoError(t, err)
	defer cancel()

	f.process.lines <- "1"
	f.process.lines <- "2"
	assert.Equal(t, "1", <-ch)
	assert.Equal(t, "2", <-ch)

	// A subscriber attached after line 2 never receives earlier lines.
	late, cancelLate, err := f.manager.Subscribe(testProfileID, 0)
	require.NoError(t, err)
	defer cancelLate()

	f.process.lines <- "3"
	assert.Equal(t, "3", <-ch)
	assert.Equal(t, "3", <-late)
}

func TestTailAfterExit(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Start(context.Background(), testProfileID)
	require.NoError(t, err)

	f.process.lines <- "alpha"
	f.process.lines <- "beta"
	assert.Eventually(t, func() bool {
		return len(f.manager.Tail(testProfileID, 10)) == 2
	}, 2*time.Second, 5*time.Millisecond)

	f.process.finish(0)
	waitForState(t, f.manager, StateCrashed)
	assert.Equal(t, []string{"alpha", "beta"}, f.manager.Tail(testProfileID, 10))
}

func TestStopAll(t *testing.T) {
	f := newFixture(t)
	f.process.exitOnTerminate = true
	_, err := f.manager.Start(context.Background(), testProfileID)
	require.NoError(t, err)
	waitForState(t, f.manager, StateRunning)

	f.manager.StopAll(context.Background())
	waitForState(t, f.manager, StateStopped)
}
