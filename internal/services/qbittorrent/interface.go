package qbittorrent

import "context"

// ClientAPI defines the methods required to drive a qBittorrent WebUI.
// It mirrors the concrete client so it can be mocked in tests.
type ClientAPI interface {
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Version(ctx context.Context) (string, error)
	ListTorrents(ctx context.Context) ([]Torrent, error)
	Pause(ctx context.Context, hashes []string) error
	Reannounce(ctx context.Context, hashes []string) error
	Resume(ctx context.Context, hashes []string) error
}
