package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-finder/internal/config"
	"image-finder/internal/logger"
)

func clearEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "")
	t.Setenv("IMAGE_FINDER_CONFIG", "")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, path, resolved)
	assert.Equal(t, 10, cfg.MatchLimit)
	assert.Equal(t, 6, cfg.ConfirmThreshold)
	assert.False(t, cfg.CaseInsensitive)
	assert.Equal(t, "IMAGE FINDER", cfg.Window.Title)
	assert.Equal(t, logger.InfoLevel, cfg.LogLevel())
}

func TestLoadReadsFileAndNormalizes(t *testing.T) {
	clearEnv(t)
	custom := config.Default()
	custom.MatchLimit = 25
	custom.CaseInsensitive = true
	custom.Window.Width = 0
	custom.Window.Title = "  "
	custom.Logging.Level = "WARN"

	data, err := toml.Marshal(custom)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, _, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 25, cfg.MatchLimit)
	assert.True(t, cfg.CaseInsensitive)
	assert.Equal(t, float32(600), cfg.Window.Width)
	assert.Equal(t, "IMAGE FINDER", cfg.Window.Title)
	assert.Equal(t, logger.WarnLevel, cfg.LogLevel())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	t.Run("DEBUG=1 selects debug", func(t *testing.T) {
		t.Setenv("DEBUG", "1")
		cfg, _, _, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, logger.DebugLevel, cfg.LogLevel())
	})

	t.Run("LOG_LEVEL wins over DEBUG", func(t *testing.T) {
		t.Setenv("DEBUG", "1")
		t.Setenv("LOG_LEVEL", "error")
		cfg, _, _, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, logger.ErrorLevel, cfg.LogLevel())
	})

	t.Run("IMAGE_FINDER_CONFIG supplies the path", func(t *testing.T) {
		t.Setenv("IMAGE_FINDER_CONFIG", path)
		_, resolved, _, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, path, resolved)
	})
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cases := map[string]string{
		"negative limit":  "match_limit = -1\n",
		"negative thresh": "confirm_threshold = -2\n",
		"bad level":       "[logging]\nlevel = \"loud\"\n",
		"malformed":       "match_limit = \n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".toml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, _, _, err := config.Load(path)
			assert.Error(t, err)
		})
	}
}
