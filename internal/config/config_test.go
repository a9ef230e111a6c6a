package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeepsDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[mainConfig]
port = 8080

[databaseConfig]
driver = "mysql"
host = "db"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := Default()
	_, err := toml.DecodeFile(path, cfg)
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.MainConfig.Port)
	require.Equal(t, "mysql", cfg.DatabaseConfig.Driver)
	require.Equal(t, "db", cfg.DatabaseConfig.Host)
	require.Equal(t, "session_id", cfg.SessionConfig.CookieName)
	require.Equal(t, "channel", cfg.KafkaConfig.MessageMode)
}

func TestWebsocketDurations(t *testing.T) {
	ws := WebsocketConfig{WriteWait: 10, PongWait: 60}
	require.Equal(t, 10*time.Second, ws.WriteWaitDuration())
	require.Equal(t, 54*time.Second, ws.PingPeriod())
	require.Less(t, ws.PingPeriod(), ws.PongWaitDuration())
}

func TestSessionExpiry(t *testing.T) {
	require.Equal(t, 168*time.Hour, Default().SessionConfig.SessionExpiry())
}

func TestOriginAllowed(t *testing.T) {
	require.True(t, MainConfig{}.OriginAllowed("http://evil.example"))

	m := MainConfig{AllowOrigins: []string{"http://localhost:5173"}}
	require.True(t, m.OriginAllowed("http://localhost:5173"))
	require.False(t, m.OriginAllowed("http://evil.example"))
}
