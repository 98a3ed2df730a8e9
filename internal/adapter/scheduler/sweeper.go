// Package scheduler runs the background quorum-timeout sweep.
package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"savings-group-backend/internal/infrastructure/cache"

	"github.com/redis/go-redis/v9"
)

// ExpirySweeper closes pending loan requests whose voting window has run out.
type ExpirySweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

const lockKey = "sweep:loans:expired"

// Sweeper calls SweepExpired on a fixed interval. When a Redis client is
// set, only one replica sweeps per tick.
type Sweeper struct {
	Loans    ExpirySweeper
	Redis    *redis.Client
	Interval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewSweeper(loans ExpirySweeper, rdb *redis.Client, interval time.Duration) *Sweeper {
	return &Sweeper{Loans: loans, Redis: rdb, Interval: interval}
}

// Start launches the loop. A non-positive interval leaves the sweeper off.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Interval <= 0 {
		log.Println("[Sweeper] Disabled, not starting")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.Interval)
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.run()

	log.Printf("[Sweeper] Started with interval: %v", s.Interval)
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	log.Println("[Sweeper] Stopped")
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	s.RunNow(context.Background())
	for {
		select {
		case <-s.ticker.C:
			s.RunNow(context.Background())
		case <-s.stop:
			return
		}
	}
}

// RunNow performs a single sweep and returns how many requests it closed.
func (s *Sweeper) RunNow(ctx context.Context) int {
	if s.Redis != nil {
		ttl := s.Interval
		if ttl <= 0 {
			ttl = time.Minute
		}
		lock, err := cache.Acquire(ctx, s.Redis, lockKey, ttl)
		switch {
		case errors.Is(err, cache.ErrLockHeld):
			return 0
		case err != nil:
			log.Printf("[Sweeper] Lock unavailable: %v", err)
			return 0
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil {
				log.Printf("[Sweeper] Release lock: %v", err)
			}
		}()
	}

	closed, err := s.Loans.SweepExpired(ctx)
	if err != nil {
		log.Printf("[Sweeper] Errors while sweeping: %v", err)
	}
	if closed > 0 {
		log.Printf("[Sweeper] Closed %d expired request(s)", closed)
	}
	return closed
}
