package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_BaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "host without scheme",
			cfg:  Config{ServerAddress: "localhost:1337", APIPrefix: "/api"},
			want: "http://localhost:1337/api",
		},
		{
			name: "tls enabled",
			cfg:  Config{ServerAddress: "cms.example.mx", APIPrefix: "api", EnableTLS: true},
			want: "https://cms.example.mx/api",
		},
		{
			name: "explicit scheme wins",
			cfg:  Config{ServerAddress: "http://127.0.0.1:8080/", APIPrefix: "/api/", EnableTLS: true},
			want: "http://127.0.0.1:8080/api",
		},
		{
			name: "no prefix",
			cfg:  Config{ServerAddress: "localhost:1337"},
			want: "http://localhost:1337",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.BaseURL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_BaseURLEmpty(t *testing.T) {
	_, err := (&Config{}).BaseURL()
	assert.Error(t, err)
}

func TestLoad_FromEnvironment(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("SERVER_ADDRESS", "cms.local:9000")
	t.Setenv("PROBE_INTERVAL_SECONDS", "3")
	t.Setenv("FOLLOW_UP_ON_MISSED_SIGNAL", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "cms.local:9000", cfg.ServerAddress)
	assert.Equal(t, 3, cfg.ProbeInterval)
	assert.False(t, cfg.FollowUpOnMissedSignal)
	assert.Equal(t, filepath.Join(dir, "data.db"), cfg.DataPath)
	assert.Equal(t, filepath.Join(dir, "token"), cfg.TokenPath)
	assert.Equal(t, "local", cfg.Env)
}
