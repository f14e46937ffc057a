// Package cache provides caching infrastructure with PostgreSQL LISTEN/NOTIFY support
// and the Redis draft store.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/domain/catalogs/status"
	"billing/pkg/logger"
)

// StatusChannel is the NOTIFY channel raised by the statuses trigger.
const StatusChannel = "statuses_changed"

// StatusSource loads statuses from storage.
type StatusSource interface {
	ListAll(ctx context.Context) ([]*status.Status, error)
	GetByID(ctx context.Context, statusID id.ID) (*status.Status, error)
	FindByName(ctx context.Context, name string) (*status.Status, error)
}

// StatusCache keeps every status in memory and reloads the set whenever the
// statuses table changes. Misses fall through to the source.
type StatusCache struct {
	pool   *pgxpool.Pool
	source StatusSource

	mu     sync.RWMutex
	byID   map[id.ID]status.Status
	byName map[string]status.Status

	// Lifecycle
	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewStatusCache creates a status cache. A nil pool disables LISTEN.
func NewStatusCache(pool *pgxpool.Pool, source StatusSource) *StatusCache {
	return &StatusCache{
		pool:   pool,
		source: source,
		byID:   make(map[id.ID]status.Status),
		byName: make(map[string]status.Status),
	}
}

// Start loads the statuses and begins listening for NOTIFY events.
func (c *StatusCache) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.lifecycleMu.Lock()
	if c.started {
		c.lifecycleMu.Unlock()
		return nil
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.started = true
	c.lifecycleMu.Unlock()

	if err := c.Reload(c.ctx); err != nil {
		c.Stop()
		return fmt.Errorf("load statuses: %w", err)
	}

	if c.pool != nil {
		c.wg.Add(1)
		go c.listenLoop()
	}
	logger.Info(c.ctx, "status cache started")
	return nil
}

// Stop gracefully stops the cache listener.
func (c *StatusCache) Stop() {
	c.lifecycleMu.Lock()
	if !c.started {
		c.lifecycleMu.Unlock()
		return
	}
	cancel := c.cancel
	c.started = false
	c.cancel = nil
	c.lifecycleMu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
	logger.Info(context.Background(), "status cache stopped")
}

// listenLoop listens for PostgreSQL NOTIFY events.
func (c *StatusCache) listenLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		// Acquire dedicated connection for LISTEN
		conn, err := c.pool.Acquire(c.ctx)
		if err != nil {
			logger.Error(c.ctx, "failed to acquire connection for LISTEN", "error", err)
			time.Sleep(time.Second)
			continue
		}

		if _, err = conn.Exec(c.ctx, "LISTEN "+StatusChannel); err != nil {
			logger.Error(c.ctx, "failed to LISTEN", "error", err)
			conn.Release()
			time.Sleep(time.Second)
			continue
		}

		// Changes made while no connection was listening are picked up here.
		if err := c.Reload(c.ctx); err != nil {
			logger.Error(c.ctx, "failed to reload statuses", "error", err)
		}

		c.waitForNotifications(conn)
		conn.Release()
	}
}

// waitForNotifications blocks waiting for NOTIFY events.
func (c *StatusCache) waitForNotifications(conn *pgxpool.Conn) {
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		// Wait for notification with timeout for graceful shutdown
		ctx, cancel := context.WithTimeout(c.ctx, 30*time.Second)
		notification, err := conn.Conn().WaitForNotification(ctx)
		cancel()

		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			if conn.Conn().IsClosed() {
				return
			}
			continue
		}

		logger.Debug(c.ctx, "received notification",
			"channel", notification.Channel,
			"payload", notification.Payload)
		c.handleNotification(notification.Channel)
	}
}

func (c *StatusCache) handleNotification(channel string) {
	if channel != StatusChannel {
		return
	}
	if err := c.Reload(c.ctx); err != nil {
		logger.Error(c.ctx, "failed to reload statuses", "error", err)
	}
}

// Reload replaces the cached set with the current statuses.
func (c *StatusCache) Reload(ctx context.Context) error {
	list, err := c.source.ListAll(ctx)
	if err != nil {
		return err
	}

	byID := make(map[id.ID]status.Status, len(list))
	byName := make(map[string]status.Status, len(list))
	for _, st := range list {
		byID[st.ID] = *st
		byName[status.Fold(st.Name)] = *st
	}

	c.mu.Lock()
	c.byID = byID
	c.byName = byName
	c.mu.Unlock()

	logger.Debug(ctx, "loaded statuses", "count", len(list))
	return nil
}

// GetByID implements documents.StatusReader.
func (c *StatusCache) GetByID(ctx context.Context, statusID id.ID) (*status.Status, error) {
	c.mu.RLock()
	st, ok := c.byID[statusID]
	c.mu.RUnlock()
	if ok {
		return &st, nil
	}
	return c.source.GetByID(ctx, statusID)
}

// FindByName implements documents.StatusReader. Names match case-insensitively.
func (c *StatusCache) FindByName(ctx context.Context, name string) (*status.Status, error) {
	c.mu.RLock()
	st, ok := c.byName[status.Fold(name)]
	c.mu.RUnlock()
	if ok {
		return &st, nil
	}
	found, err := c.source.FindByName(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("status", name)
		}
		return nil, err
	}
	return found, nil
}

// Len returns the number of cached statuses.
func (c *StatusCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}
