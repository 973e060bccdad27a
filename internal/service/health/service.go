package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/ports"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker checks one dependency.
type Checker func(ctx context.Context) CheckResult

// DBPinger is satisfied by *sql.DB.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// QueueStatus reports whether the event bus connection is up.
type QueueStatus interface {
	IsConnected() bool
}

type Service struct {
	startTime time.Time
	version   string
	checkers  map[string]Checker
	log       *zap.Logger
	mu        sync.RWMutex
}

// Config lists the dependencies checked by Ready. Nil fields are skipped.
type Config struct {
	Version string
	DB      DBPinger
	Cache   ports.Cache
	Queue   QueueStatus
	// Degraded marks checkers whose failure only degrades the service.
	Degraded map[string]bool
}

func NewService(config *Config, log *zap.Logger) *Service {
	s := &Service{
		startTime: time.Now(),
		version:   config.Version,
		checkers:  make(map[string]Checker),
		log:       log,
	}

	if config.DB != nil {
		s.RegisterChecker("database", pingCheck("database", config.DB.PingContext, false))
	}
	if config.Cache != nil {
		s.RegisterChecker("cache", pingCheck("cache", func(context.Context) error { return config.Cache.Ping() }, config.Degraded["cache"]))
	}
	if config.Queue != nil {
		q := config.Queue
		s.RegisterChecker("queue", pingCheck("queue", func(context.Context) error {
			if !q.IsConnected() {
				return fmt.Errorf("not connected")
			}
			return nil
		}, config.Degraded["queue"]))
	}

	return s
}

func (s *Service) RegisterChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
	s.log.Info("Registered health checker", zap.String("name", name))
}

// Health reports liveness. It never touches dependencies.
func (s *Service) Health(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Truncate(time.Second).String(),
		Timestamp: time.Now(),
	}
}

// Ready runs every checker concurrently with a 5s budget each.
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	names := make([]string, 0, len(s.checkers))
	for name := range s.checkers {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)

	results := make(map[string]CheckResult, len(names))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, name := range names {
		s.mu.RLock()
		checker := s.checkers[name]
		s.mu.RUnlock()

		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			result := checker(checkCtx)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, checker)
	}
	wg.Wait()

	overall := StatusHealthy
	ready := true
	for _, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
			ready = false
		case StatusDegraded:
			if overall != StatusUnhealthy {
				overall = StatusDegraded
			}
		}
	}

	return &ReadyResponse{
		Ready:     ready,
		Status:    overall,
		Timestamp: time.Now(),
		Checks:    results,
	}
}

func pingCheck(name string, ping func(ctx context.Context) error, degradeOnly bool) Checker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		err := ping(ctx)
		result := CheckResult{
			Name:      name,
			Duration:  time.Since(start),
			Timestamp: start,
			Status:    StatusHealthy,
			Message:   "connection ok",
		}
		if err != nil {
			result.Status = StatusUnhealthy
			if degradeOnly {
				result.Status = StatusDegraded
			}
			result.Message = fmt.Sprintf("ping failed: %v", err)
		}
		return result
	}
}
