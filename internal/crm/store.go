package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/models"
	"github.com/rs/zerolog"
)

// Options tune Store behaviour.
type Options struct {
	// RejectDuplicates makes Add fail with ErrAlreadyExists instead of
	// overwriting an existing profile.
	RejectDuplicates bool
}

// Store owns every CustomerProfile. Each mutation re-reads the document,
// applies the change and rewrites the whole document. Writers within one
// process are serialized; separate processes are last-writer-wins.
type Store struct {
	backend Backend
	opts    Options
	logger  zerolog.Logger
	mu      sync.Mutex
}

func NewStore(backend Backend, opts Options, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		opts:    opts,
		logger:  logger.With().Str("component", "crm").Logger(),
	}
}

// Load reads the persisted document. A missing document is initialized to
// an empty one. A corrupt document yields an empty snapshot together with
// an error wrapping ErrCorruptState; the snapshot is always usable.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	snap, missing, err := s.read(ctx)
	if err != nil {
		return newSnapshot(), err
	}
	if missing {
		return s.initialize(ctx)
	}
	return snap, nil
}

// initialize writes an empty document unless a writer created one since
// the caller's read.
func (s *Store) initialize(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, missing, err := s.read(ctx)
	if err != nil {
		return newSnapshot(), err
	}
	if !missing {
		return snap, nil
	}
	s.logger.Info().Msg("no customer data found, initializing empty store")
	if err := s.write(ctx, snap); err != nil {
		return snap, err
	}
	return snap, nil
}

// Names lists customer names in insertion order.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	snap, err := s.Load(ctx)
	return snap.Names(), err
}

// Get returns the named profile, or an empty profile and false when absent.
func (s *Store) Get(ctx context.Context, name string) (models.CustomerProfile, bool, error) {
	snap, err := s.Load(ctx)
	p, ok := snap.Get(name)
	return p, ok, err
}

// Add creates a profile with an empty recommendation history.
func (s *Store) Add(ctx context.Context, name string, pastPurchases, interests []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidArgument)
	}

	return s.mutate(ctx, func(snap *Snapshot) (bool, error) {
		if snap.has(name) {
			if s.opts.RejectDuplicates {
				return false, fmt.Errorf("%w: %s", ErrAlreadyExists, name)
			}
			s.logger.Warn().Str("customer", name).Msg("overwriting existing customer profile")
		}
		purchases := pastPurchases
		if purchases == nil {
			purchases = []string{}
		}
		snap.put(models.CustomerProfile{
			Name:            name,
			PastPurchases:   purchases,
			Interests:       normalizeInterests(interests),
			Recommendations: []string{},
		})
		return true, nil
	})
}

// AppendInterest adds one interest unless it is already present.
func (s *Store) AppendInterest(ctx context.Context, name, interest string) error {
	interest = strings.TrimSpace(interest)
	if interest == "" {
		return fmt.Errorf("%w: interest must not be empty", ErrInvalidArgument)
	}

	return s.mutate(ctx, func(snap *Snapshot) (bool, error) {
		p, ok := snap.Get(name)
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		if p.HasInterest(interest) {
			return false, nil
		}
		p.Interests = append(p.Interests, interest)
		snap.put(p)
		return true, nil
	})
}

// ReplaceInterests swaps the whole interest list.
func (s *Store) ReplaceInterests(ctx context.Context, name string, interests []string) error {
	return s.mutate(ctx, func(snap *Snapshot) (bool, error) {
		p, ok := snap.Get(name)
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		p.Interests = normalizeInterests(interests)
		snap.put(p)
		return true, nil
	})
}

// AppendRecommendation records a suggestion in the profile's history.
func (s *Store) AppendRecommendation(ctx context.Context, name, suggestion string) error {
	suggestion = strings.TrimSpace(suggestion)
	if suggestion == "" {
		return fmt.Errorf("%w: recommendation must not be empty", ErrInvalidArgument)
	}

	return s.mutate(ctx, func(snap *Snapshot) (bool, error) {
		p, ok := snap.Get(name)
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		p.Recommendations = append(p.Recommendations, suggestion)
		snap.put(p)
		return true, nil
	})
}

// mutate runs fn against a fresh copy of the document and persists it when
// fn reports a change. fn errors leave the stored document untouched.
func (s *Store) mutate(ctx context.Context, fn func(*Snapshot) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, _, err := s.read(ctx)
	if err != nil {
		if !errors.Is(err, ErrCorruptState) {
			return err
		}
		s.logger.Warn().Err(err).Msg("customer data unreadable, continuing with an empty store")
		snap = newSnapshot()
	}

	changed, err := fn(snap)
	if err != nil || !changed {
		return err
	}
	return s.write(ctx, snap)
}

func (s *Store) read(ctx context.Context) (*Snapshot, bool, error) {
	data, err := s.backend.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrNoDocument) {
			return newSnapshot(), true, nil
		}
		return nil, false, fmt.Errorf("failed to read customer data: %w", err)
	}
	snap, err := decodeSnapshot(data)
	if err != nil {
		return nil, false, err
	}
	return snap, false, nil
}

func (s *Store) write(ctx context.Context, snap *Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := s.backend.Write(ctx, data); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist customer data")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// normalizeInterests trims entries, drops blanks and removes duplicates
// keeping the first occurrence.
func normalizeInterests(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, interest := range in {
		interest = strings.TrimSpace(interest)
		if interest == "" {
			continue
		}
		if _, dup := seen[interest]; dup {
			continue
		}
		seen[interest] = struct{}{}
		out = append(out, interest)
	}
	return out
}
