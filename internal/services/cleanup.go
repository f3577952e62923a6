package services

import (
	"context"
	"sync"
	"time"

	"github.com/amaumene/gostreamfr/internal/constants"
	"github.com/amaumene/gostreamfr/pkg/logger"
)

const (
	// Default cleanup settings
	defaultCleanupInterval = 1 * time.Hour
	defaultRetentionPeriod = constants.ResponseRetention
)

// Purger drops cached responses older than a retention period.
type Purger interface {
	Purge(retention time.Duration)
}

// CleanupService periodically purges the response cache.
type CleanupService struct {
	target          Purger
	logger          logger.Logger
	interval        time.Duration
	retentionPeriod time.Duration
	mu              sync.Mutex
	running         bool
	stopChan        chan struct{}
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(target Purger, log logger.Logger) *CleanupService {
	return &CleanupService{
		target:          target,
		logger:          log,
		interval:        defaultCleanupInterval,
		retentionPeriod: defaultRetentionPeriod,
		stopChan:        make(chan struct{}),
	}
}

// SetRetentionPeriod sets how long stored responses are kept
func (c *CleanupService) SetRetentionPeriod(duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retentionPeriod = duration
}

// SetInterval sets how often cleanup runs
func (c *CleanupService) SetInterval(duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interval = duration
}

// Start begins the cleanup service
func (c *CleanupService) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = true
	interval := c.interval
	c.mu.Unlock()

	c.logger.Infof("[Cleanup] starting with interval: %v, retention: %v", interval, c.retention())

	// Run initial cleanup
	c.performCleanup()

	go c.cleanupLoop(ctx, interval)

	return nil
}

// Stop stops the cleanup service
func (c *CleanupService) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}

	c.running = false
	close(c.stopChan)
	c.logger.Infof("[Cleanup] stopped")
}

func (c *CleanupService) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.Stop()
			return
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.performCleanup()
		}
	}
}

func (c *CleanupService) retention() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retentionPeriod
}

func (c *CleanupService) performCleanup() {
	c.logger.Debugf("[Cleanup] purging responses older than %v", c.retention())
	c.target.Purge(c.retention())
}

// CleanupNow performs immediate cleanup (useful for testing or manual trigger)
func (c *CleanupService) CleanupNow() {
	c.performCleanup()
}
