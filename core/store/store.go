package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"armory/core/workshop"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrProfileNotFound means no profile with the given id exists.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrPackageNotFound means no mod package with the given id exists.
	ErrPackageNotFound = errors.New("mod package not found")
)

// Resolver is the store's view of the dependency resolver. Satisfied by
// *workshop.Resolver; tests provide a fake.
type Resolver interface {
	Resolve(ctx context.Context, rootID string, maxDepth int) (*workshop.Graph, error)
}

// Store persists profiles and mod packages as JSON files under a data
// directory.
type Store struct {
	cfg      Config
	resolver Resolver
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	packagesMu sync.Mutex
}

// New creates a store rooted at cfg.DataDir.
func New(cfg Config, resolver Resolver, logger *zap.Logger) *Store {
	return &Store{
		cfg:      cfg,
		resolver: resolver,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing writes for one profile id.
func (s *Store) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *Store) profilesDir() string {
	return filepath.Join(s.cfg.DataDir, "profiles")
}

func (s *Store) configsDir() string {
	return filepath.Join(s.cfg.DataDir, "configs")
}

func (s *Store) profilePath(id string) string {
	return filepath.Join(s.profilesDir(), id+".json")
}

// GeneratedConfigPath returns where the profile's synthesized configuration
// artifact lives.
func (s *Store) GeneratedConfigPath(id string) string {
	return filepath.Join(s.configsDir(), id+".json")
}

// CreateInput carries the fields needed to create a profile.
type CreateInput struct {
	DisplayName string
	WorkshopURL string
	MaxDepth    int
}

// Create builds and persists a new profile. The workshop root id is parsed
// from the URL; resolution happens separately via Refresh.
func (s *Store) Create(in CreateInput) (*Profile, error) {
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		return nil, fmt.Errorf("display name is required")
	}
	rootID, err := workshop.ParseModID(in.WorkshopURL)
	if err != nil {
		return nil, fmt.Errorf("workshop url: %w", err)
	}

	depth := in.MaxDepth
	if depth <= 0 {
		depth = 5
	}

	now := time.Now().UTC()
	profile := &Profile{
		ID:          uuid.NewString(),
		DisplayName: name,
		WorkshopURL: strings.TrimSpace(in.WorkshopURL),
		RootModID:   rootID,
		MaxDepth:    depth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.write(profile); err != nil {
		return nil, err
	}
	s.logger.Info("profile created",
		zap.String("profile_id", profile.ID),
		zap.String("root_mod_id", rootID),
	)
	return profile, nil
}

// Get loads one profile.
func (s *Store) Get(id string) (*Profile, error) {
	data, err := os.ReadFile(s.profilePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
		}
		return nil, fmt.Errorf("read profile %s: %w", id, err)
	}
	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", id, err)
	}
	return &profile, nil
}

// List returns all profiles sorted by display name.
func (s *Store) List() ([]*Profile, error) {
	entries, err := os.ReadDir(s.profilesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	var profiles []*Profile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		profile, err := s.Get(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			s.logger.Warn("skipping unreadable profile", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		profiles = append(profiles, profile)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].DisplayName < profiles[j].DisplayName
	})
	return profiles, nil
}

// Save persists changes to an existing profile and bumps UpdatedAt.
func (s *Store) Save(profile *Profile) error {
	if profile.ID == "" {
		return fmt.Errorf("profile id is empty")
	}
	if _, err := s.Get(profile.ID); err != nil {
		return err
	}
	profile.UpdatedAt = time.Now().UTC()
	return s.write(profile)
}

// Delete removes the persisted record and the generated configuration
// artifact. Stopping a running server process for the profile is the
// caller's responsibility and must happen before Delete.
func (s *Store) Delete(id string) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if err := os.Remove(s.profilePath(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
		}
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	if err := os.Remove(s.GeneratedConfigPath(id)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove generated config", zap.String("profile_id", id), zap.Error(err))
	}
	s.logger.Info("profile deleted", zap.String("profile_id", id))
	return nil
}

// write persists the profile under its per-profile lock.
func (s *Store) write(profile *Profile) error {
	lock := s.lockFor(profile.ID)
	lock.Lock()
	defer lock.Unlock()

	data, err := encodeProfile(profile)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.profilePath(profile.ID), data)
}

// encodeProfile is used both by write and by callers that already hold the
// profile lock (the lock is not reentrant).
func encodeProfile(profile *Profile) ([]byte, error) {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode profile %s: %w", profile.ID, err)
	}
	return append(data, '\n'), nil
}

// WriteGeneratedConfig persists the synthesized configuration artifact for
// a profile atomically.
func (s *Store) WriteGeneratedConfig(id string, data []byte) (string, error) {
	path := s.GeneratedConfigPath(id)
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// ReadGeneratedConfig returns the current generated artifact, or nil when
// none exists yet.
func (s *Store) ReadGeneratedConfig(id string) ([]byte, error) {
	data, err := os.ReadFile(s.GeneratedConfigPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read generated config %s: %w", id, err)
	}
	return data, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place, creating parent directories as needed.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
