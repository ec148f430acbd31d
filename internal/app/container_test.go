package app

import (
	"context"
	"testing"

	"github.com/ochronus/qbreannounce/internal/config"
	"github.com/ochronus/qbreannounce/internal/services/qbittorrent"
	"github.com/sirupsen/logrus"
)

type mockQbitClient struct{}

func (m *mockQbitClient) Login(context.Context) error                  { return nil }
func (m *mockQbitClient) Logout(context.Context) error                 { return nil }
func (m *mockQbitClient) Version(context.Context) (string, error)      { return "v5.0.0", nil }
func (m *mockQbitClient) Pause(context.Context, []string) error        { return nil }
func (m *mockQbitClient) Reannounce(context.Context, []string) error   { return nil }
func (m *mockQbitClient) Resume(context.Context, []string) error       { return nil }
func (m *mockQbitClient) ListTorrents(context.Context) ([]qbittorrent.Torrent, error) {
	return []qbittorrent.Torrent{}, nil
}

func baseConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.QBittorrent = config.QBittorrentConfig{
		URL:      "http://localhost:8080",
		Username: "admin",
		Password: "adminadmin",
	}
	return cfg
}

func TestNewContainerDefaults(t *testing.T) {
	cfg := baseConfig()

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if container.Logger == nil {
		t.Fatal("expected logger to be initialized")
	}
	if container.Logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info level, got %s", container.Logger.GetLevel())
	}
	if _, ok := container.QbitClient.(*qbittorrent.Client); !ok {
		t.Errorf("expected default qbittorrent client, got %T", container.QbitClient)
	}
	if container.Config != cfg {
		t.Error("expected config to be retained")
	}
}

func TestContainerOverrides(t *testing.T) {
	cfg := baseConfig()
	mockQbit := &mockQbitClient{}
	customLogger := buildDefaultLogger("debug")

	container, err := NewContainer(
		cfg,
		WithLogger(customLogger),
		WithQbitClient(mockQbit),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if container.Logger != customLogger {
		t.Error("expected custom logger to be used")
	}
	if container.QbitClient != mockQbit {
		t.Error("expected custom qbittorrent client to be used")
	}
}

func TestNewContainerNilConfigError(t *testing.T) {
	if _, err := NewContainer(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestWithLoggerNilError(t *testing.T) {
	if _, err := NewContainer(baseConfig(), WithLogger(nil)); err == nil {
		t.Fatal("expected error when logger is nil")
	}
}

func TestWithQbitClientNilError(t *testing.T) {
	if _, err := NewContainer(baseConfig(), WithQbitClient(nil)); err == nil {
		t.Fatal("expected error when qbittorrent client is nil")
	}
}

func TestBuildDefaultLoggerInvalidLevel(t *testing.T) {
	logger := buildDefaultLogger("nonsense")
	if logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected fallback to info level, got %s", logger.GetLevel())
	}
}
