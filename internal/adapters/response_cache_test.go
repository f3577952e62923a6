package adapters

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/amaumene/gostreamfr/internal/cache"
	"github.com/amaumene/gostreamfr/internal/database"
	"github.com/amaumene/gostreamfr/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseCache_MemoryOnly(t *testing.T) {
	rc := NewResponseCache(cache.New(10, time.Minute), nil, time.Minute, logger.Discard())

	_, ok := rc.Get("/home")
	assert.False(t, ok)

	rc.Set("/home", []byte("body"))
	body, ok := rc.Get("/home")
	assert.True(t, ok)
	assert.Equal(t, "body", string(body))
}

func TestResponseCache_FallsBackToDisk(t *testing.T) {
	db, err := database.NewBolt(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer db.Close()

	first := NewResponseCache(cache.New(10, time.Minute), db, time.Minute, logger.Discard())
	first.Set("/series?slug=x", []byte("persisted"))

	// A fresh memory tier simulates a restart
	second := NewResponseCache(cache.New(10, time.Minute), db, time.Minute, logger.Discard())
	body, ok := second.Get("/series?slug=x")
	require.True(t, ok)
	assert.Equal(t, "persisted", string(body))
}

func TestResponseCache_IgnoresStaleDiskEntries(t *testing.T) {
	db, err := database.NewBolt(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.StoreResponse("/movie?slug=y", []byte("old")))

	rc := NewResponseCache(cache.New(10, time.Minute), db, time.Minute, logger.Discard())
	rc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, ok := rc.Get("/movie?slug=y")
	assert.False(t, ok)
}
