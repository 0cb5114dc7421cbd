package cleanup

import (
	"context"
	"log"
	"sync"
	"time"
)

// Pruner removes stored pages that expired before cutoff
type Pruner interface {
	PruneExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service periodically drops pages that stayed stale longer than the retention
type Service struct {
	pruner          Pruner
	retention       time.Duration
	cleanupInterval time.Duration
	now             func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewService creates a new cleanup service
func NewService(pruner Pruner, retention, cleanupInterval time.Duration) *Service {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Hour
	}
	return &Service{
		pruner:          pruner,
		retention:       retention,
		cleanupInterval: cleanupInterval,
		now:             time.Now,
	}
}

// Start runs one cleanup and then repeats it every interval until ctx ends or Stop
func (s *Service) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	// Run initial cleanup
	s.cleanup(ctx)

	ticker := time.NewTicker(s.cleanupInterval)
	go func() {
		defer close(s.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.cleanup(ctx)
			case <-ctx.Done():
				log.Println("[INFO] Cleanup service stopped")
				return
			}
		}
	}()

	log.Printf("[INFO] Cleanup service started (interval: %v, retention: %v)", s.cleanupInterval, s.retention)
}

// Stop stops the cleanup service and waits for a running pass to finish
func (s *Service) Stop() {
	s.once.Do(func() {
		if s.cancel == nil {
			return
		}
		s.cancel()
		<-s.done
	})
}

// RunOnce prunes expired pages now and reports how many were removed
func (s *Service) RunOnce(ctx context.Context) (int64, error) {
	return s.pruner.PruneExpired(ctx, s.now().Add(-s.retention))
}

func (s *Service) cleanup(ctx context.Context) {
	removed, err := s.RunOnce(ctx)
	if err != nil {
		log.Printf("[ERROR] Cleanup failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("[INFO] Removed %d expired page(s)", removed)
	}
}
