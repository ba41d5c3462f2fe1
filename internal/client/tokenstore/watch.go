package tokenstore

import (
	"context"
	"time"
)

const defaultWatchInterval = 2 * time.Second

// Watch polls the storage table until ctx is done and publishes an External
// event for every key another process has changed since the last poll.
// Values present when Watch starts are taken as the baseline.
func (s *Store) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultWatchInterval
	}

	if err := s.seed(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			evs, err := s.Poll(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				s.log.Warn(ctx, "storage poll failed", "error", err)
				continue
			}
			s.publish(evs)
		}
	}
}

func (s *Store) seed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seeded {
		return nil
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	s.seen = make(map[string]string, len(all))
	for k, v := range all {
		s.seen[k] = string(v)
	}
	s.seeded = true
	return nil
}

// Poll compares storage with the last known values and returns the
// differences as External events, without publishing them. The first call
// only records the baseline.
func (s *Store) Poll(ctx context.Context) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	current := make(map[string]string, len(all))
	for k, v := range all {
		current[k] = string(v)
	}

	if !s.seeded {
		s.seen = current
		s.seeded = true
		return nil, nil
	}

	var evs []Event
	for k, v := range current {
		old, ok := s.seen[k]
		if !ok || old != v {
			evs = append(evs, Event{Key: k, Old: old, New: v, External: true})
		}
	}
	for k, old := range s.seen {
		if _, ok := current[k]; !ok {
			evs = append(evs, Event{Key: k, Old: old, Deleted: true, External: true})
		}
	}
	s.seen = current
	return evs, nil
}
