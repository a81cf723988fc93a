package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alarm-clock-backend/config"
	"alarm-clock-backend/internal/db"
	"alarm-clock-backend/internal/kv"
	"alarm-clock-backend/internal/model"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DSN = "file:" + filepath.Join(t.TempDir(), "alarms.db")
	return cfg
}

func seed(t *testing.T, cfg *config.Config, payload string) {
	t.Helper()
	gormDB, err := db.Init(&cfg.Storage, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, kv.NewGormStore(gormDB).Set(context.Background(), cfg.Storage.SlotKey, payload))
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestList(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, `[
		{"id":2,"title":"Gym","description":"lift","time":"18:00"},
		{"id":1,"title":"Alpha","description":"wake","time":"06:00"}
	]`)

	t.Run("stored order", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, list(context.Background(), cfg, zap.NewNop(), "", &out))
		assert.Equal(t, ""+
			"ID  TIME   TITLE  DESCRIPTION\n"+
			"2   18:00  Gym    lift\n"+
			"1   06:00  Alpha  wake\n", out.String())
	})

	t.Run("sorted by time", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, list(context.Background(), cfg, zap.NewNop(), "time", &out))
		assert.Equal(t, ""+
			"ID  TIME   TITLE  DESCRIPTION\n"+
			"1   06:00  Alpha  wake\n"+
			"2   18:00  Gym    lift\n", out.String())
	})

	t.Run("unknown sort key", func(t *testing.T) {
		var out bytes.Buffer
		assert.Error(t, list(context.Background(), cfg, zap.NewNop(), "colour", &out))
	})
}

func TestList_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, list(context.Background(), testConfig(t), zap.NewNop(), "", &out))
	assert.Equal(t, "no alarms\n", out.String())
}

func TestPrintAlarms(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printAlarms(&out, []model.Alarm{{ID: 10, Title: "A", Description: "b", Time: "00:00"}}))
	assert.Contains(t, out.String(), "10  00:00  A      b")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), true)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduler:\n  ring_mode: queue\n"), 0o600))
	cfg, err = loadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, config.RingModeQueue, cfg.Scheduler.RingMode)
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestServe_ShutsDownWithOpenEventStream(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Port = freePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, zap.NewNop()) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/api/events", cfg.Server.Port)
	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get(url)
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 5*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	start := time.Now()
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
		assert.Less(t, time.Since(start), time.Second)
	case <-time.After(shutdownTimeout + 2*time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
