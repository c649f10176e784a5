package config_test

import (
	"testing"
	"time"

	"github.com/alkime/passthru/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env here

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.EnvDevelopment, cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "passthru.log", cfg.LogFile)
	assert.Empty(t, cfg.AudioBackend)
	assert.Equal(t, 48000, cfg.SampleRate)
	assert.Equal(t, 256, cfg.BufferSize)
	assert.Equal(t, 2, cfg.InputChannels)
	assert.Equal(t, 2, cfg.OutputChannels)
	assert.Zero(t, cfg.NoiseSeed)
	assert.Equal(t, 50*time.Millisecond, cfg.CPUPollInterval)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Empty(t, cfg.AllowedHosts)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUDIO_BACKEND", "jack")
	t.Setenv("SAMPLE_RATE", "44100")
	t.Setenv("INPUT_CHANNELS", "0")
	t.Setenv("NOISE_SEED", "1234")
	t.Setenv("CPU_POLL_INTERVAL", "100ms")
	t.Setenv("ALLOWED_HOSTS", "localhost,127.0.0.1")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "jack", cfg.AudioBackend)
	assert.Equal(t, 44100, cfg.SampleRate)
	assert.Equal(t, 0, cfg.InputChannels)
	assert.Equal(t, uint64(1234), cfg.NoiseSeed)
	assert.Equal(t, 100*time.Millisecond, cfg.CPUPollInterval)
	assert.Equal(t, []string{"localhost", "127.0.0.1"}, cfg.AllowedHosts)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OUTPUT_CHANNELS", "0")
	t.Setenv("BUFFER_SIZE", "-1")

	_, err := config.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OUTPUT_CHANNELS")
	assert.Contains(t, err.Error(), "BUFFER_SIZE")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := config.Config{
		SampleRate:      48000,
		BufferSize:      128,
		InputChannels:   config.MaxChannels,
		OutputChannels:  1,
		CPUPollInterval: time.Millisecond,
	}
	require.NoError(t, valid.Validate())

	tooMany := valid
	tooMany.InputChannels = config.MaxChannels + 1
	assert.Error(t, tooMany.Validate())

	noPoll := valid
	noPoll.CPUPollInterval = 0
	assert.Error(t, noPoll.Validate())
}
