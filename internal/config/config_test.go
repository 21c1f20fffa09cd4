package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/appengine-ltd/under-the-shadow/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, StoreFile, cfg.Store)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Compress)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", SettingsFileName)
	want := Default()
	want.DataDir = "/tmp/shadow"
	want.Store = StoreSQLite
	want.Compress = false
	want.ListenAddr = "127.0.0.1:9000"

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("store: redis\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SHADOW_DATA_DIR", "/srv/shadow")
	t.Setenv("SHADOW_STORE", "SQLITE")
	t.Setenv("SHADOW_COMPRESS", "false")
	t.Setenv("SHADOW_LOG_LEVEL", "debug")
	t.Setenv("SHADOW_LISTEN", ":8080")
	t.Setenv("SHADOW_CONTENT", "pack.yaml")
	t.Setenv("SHADOW_BALANCE", "balance.yaml")

	cfg := FromEnv(Default())
	assert.Equal(t, "/srv/shadow", cfg.DataDir)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.False(t, cfg.Compress)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "pack.yaml", cfg.ContentPath)
	assert.Equal(t, "balance.yaml", cfg.BalancePath)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvIgnoresBadBool(t *testing.T) {
	t.Setenv("SHADOW_COMPRESS", "maybe")
	cfg := FromEnv(Default())
	assert.True(t, cfg.Compress)
}

func TestParseBalanceOverlaysDefaults(t *testing.T) {
	raw := []byte(`
stamina_reset: 80
unlocks:
  suburb_week: 3
  city_combat: 30
  city_week: 12
  mall_combat: 60
  mall_week: 25
explore_bonus_chance: 0.5
`)
	b, err := ParseBalance(raw)
	require.NoError(t, err)

	def := game.DefaultBalance()
	assert.Equal(t, 80, b.StaminaReset)
	assert.Equal(t, 3, b.Unlocks.SuburbWeek)
	assert.InDelta(t, 0.5, b.ExploreBonusChance, 1e-9)
	assert.Equal(t, def.Start, b.Start)
	assert.Equal(t, def.Endings, b.Endings)
	assert.Equal(t, def.Explore[game.TierCity], b.Explore[game.TierCity])
}

func TestParseBalanceRejectsInvalid(t *testing.T) {
	_, err := ParseBalance([]byte("explore_bonus_chance: 2\n"))
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = ParseBalance([]byte("stamina_reset: [1, 2]\n"))
	assert.Error(t, err)
}

func TestLoadBalanceEmptyPath(t *testing.T) {
	b, err := LoadBalance("")
	require.NoError(t, err)
	assert.Equal(t, game.DefaultBalance().StaminaReset, b.StaminaReset)
}

func TestNewLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "slot", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "slot=2")

	_, err := ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidSettings)
}
