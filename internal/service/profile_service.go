package service

import (
	"context"
	"sync"
	"time"

	"profile-service/internal/domain"
	"profile-service/internal/repository"
)

// ProfileService describes the find/create/edit operations over the stored collection.
type ProfileService interface {
	GetByID(ctx context.Context, id int64) (*domain.Profile, error)
	Create(ctx context.Context, req domain.EditRequest) (*domain.Profile, error)
	EditByID(ctx context.Context, id int64, req domain.EditRequest) (*domain.Profile, error)
}

// Option customises a profile service.
type Option func(*profileService)

// WithClock overrides the time source used for created_at.
func WithClock(now func() time.Time) Option {
	return func(s *profileService) { s.now = now }
}

// WithSerializedWrites guards every load-modify-save sequence with a
// process-local mutex. Without it concurrent writers race and the last save wins.
func WithSerializedWrites() Option {
	return func(s *profileService) { s.mu = &sync.Mutex{} }
}

type profileService struct {
	profiles repository.ProfileRepository
	now      func() time.Time
	mu       *sync.Mutex
}

func NewProfileService(profiles repository.ProfileRepository, opts ...Option) ProfileService {
	s := &profileService{
		profiles: profiles,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *profileService) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	profiles, err := s.profiles.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := findByID(profiles, id)
	if idx < 0 {
		return nil, domain.ErrProfileNotFound
	}
	p := profiles[idx]
	return &p, nil
}

func (s *profileService) Create(ctx context.Context, req domain.EditRequest) (*domain.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock := s.lock()
	defer unlock()

	profiles, err := s.profiles.Load(ctx)
	if err != nil {
		return nil, err
	}

	profile := req.Apply(domain.Profile{
		ID:        nextID(profiles),
		CreatedAt: s.now().UTC(),
	})

	if err := s.profiles.Save(ctx, append(profiles, profile)); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *profileService) EditByID(ctx context.Context, id int64, req domain.EditRequest) (*domain.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock := s.lock()
	defer unlock()

	profiles, err := s.profiles.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := findByID(profiles, id)
	if idx < 0 {
		return nil, domain.ErrProfileNotFound
	}

	updated := req.Apply(profiles[idx])
	profiles[idx] = updated

	if err := s.profiles.Save(ctx, profiles); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *profileService) lock() func() {
	if s.mu == nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// findByID returns the index of the first profile with the given id, or -1.
func findByID(profiles []domain.Profile, id int64) int {
	for i := range profiles {
		if profiles[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID is one past the highest stored id, or 1 for an empty collection.
func nextID(profiles []domain.Profile) int64 {
	if len(profiles) == 0 {
		return 1
	}
	highest := profiles[0].ID
	for _, p := range profiles[1:] {
		if p.ID > highest {
			highest = p.ID
		}
	}
	return highest + 1
}
