package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/axsec/backend/internal/infrastructure/history"
)

// Monitor periodically probes the configured stores. Postgres and Redis are
// optional drivers; a nil handle means the dependency is not part of this
// deployment and is excluded from the online verdict.
type Monitor struct {
	pg      *pgxpool.Pool
	redis   *redislib.Client
	db      *bolt.DB
	history *history.Store

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

func New(db *bolt.DB, hist *history.Store, pg *pgxpool.Pool, redis *redislib.Client, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pg:       pg,
		redis:    redis,
		db:       db,
		history:  hist,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.status.Bolt {
		return false
	}
	if m.status.PostgreSQL != nil && !*m.status.PostgreSQL {
		return false
	}
	if m.status.Redis != nil && !*m.status.Redis {
		return false
	}
	return true
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	status := Status{
		Bolt:        m.checkBolt(),
		HistorySize: m.historySize(),
		LastCheck:   time.Now(),
	}
	if m.pg != nil {
		ok := m.checkPostgres()
		status.PostgreSQL = &ok
	}
	if m.redis != nil {
		ok := m.checkRedis()
		status.Redis = &ok
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) checkBolt() bool {
	if m.db == nil {
		return false
	}
	return m.db.View(func(tx *bolt.Tx) error { return nil }) == nil
}

func (m *Monitor) checkPostgres() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return m.pg.Ping(ctx) == nil
}

func (m *Monitor) checkRedis() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return m.redis.Ping(ctx).Err() == nil
}

func (m *Monitor) historySize() int {
	if m.history == nil {
		return 0
	}
	size, err := m.history.Size()
	if err != nil {
		m.logger.Warn("history size check failed", zap.Error(err))
		return 0
	}
	return size
}
