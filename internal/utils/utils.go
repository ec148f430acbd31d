package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ochronus/qbreannounce/internal/services/qbittorrent"
)

const configTemplate = `# Optional log level, default "info"
loglevel = "info"

# Optional delay in seconds between pause, reannounce and resume, default 3
delay = 3

# Optional bind address for 'qbreannounce serve', default "0.0.0.0"
bind_address = "0.0.0.0"

# Optional TCP port for 'qbreannounce serve', default 9092
port = 9092

# Optional. When both are set, POST /reannounce requires HTTP basic auth
# username = "myusername"
# password = "mypassword"

[qbittorrent]
# Required. Address of the qBittorrent WebUI
url = "http://localhost:8080"
# Required. WebUI credentials (Tools -> Options -> Web UI)
username = "admin"
password = "adminadmin"
`

// GenerateConfig writes a commented configuration template to configPath,
// backing up any existing file.
func GenerateConfig(configPath string, out io.Writer) error {
	fmt.Fprintf(out, "Generating config %s\n", configPath)

	if _, err := os.Stat(configPath); err == nil {
		backupPath := configPath + ".bak"
		fmt.Fprintf(out, "Backing up config %s\n", configPath)
		if err := os.Rename(configPath, backupPath); err != nil {
			return fmt.Errorf("failed to backup config: %w", err)
		}
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file holds WebUI credentials.
	fmt.Fprintf(out, "Writing %s\n", configPath)
	if err := os.WriteFile(configPath, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Check logs in to qBittorrent, prints its version and torrent count, then logs out.
func Check(ctx context.Context, client qbittorrent.ClientAPI, out io.Writer) error {
	if err := client.Login(ctx); err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}

	version, err := client.Version(ctx)
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}

	torrents, err := client.ListTorrents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list torrents: %w", err)
	}

	paused := 0
	for _, t := range torrents {
		if t.State.IsPaused() {
			paused++
		}
	}

	fmt.Fprintf(out, "qBittorrent %s: %d torrents (%d paused)\n", version, len(torrents), paused)

	return client.Logout(ctx)
}
