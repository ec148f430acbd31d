package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ochronus/qbreannounce/internal/reannounce"
)

// webUI answers like a qBittorrent WebUI and records the endpoints hit.
type webUI struct {
	mu       sync.Mutex
	password string
	paths    []string
}

func (w *webUI) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	w.mu.Lock()
	w.paths = append(w.paths, r.URL.Path)
	w.mu.Unlock()

	switch r.URL.Path {
	case "/api/v2/auth/login":
		if r.FormValue("password") != w.password {
			rw.Write([]byte("Fails."))
			return
		}
		rw.Write([]byte("Ok."))
	case "/api/v2/torrents/info":
		rw.Write([]byte(`[{"hash":"aaa","name":"one","state":"uploading"}]`))
	case "/api/v2/app/version":
		rw.Write([]byte("v4.6.7"))
	}
}

func writeConfig(t *testing.T, url, password string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	content := fmt.Sprintf(`
loglevel = "panic"
delay = 0

[qbittorrent]
url = %q
username = "admin"
password = %q
`, url, password)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func execute(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunLoginFailure(t *testing.T) {
	ui := &webUI{password: "secret"}
	server := httptest.NewServer(ui)
	defer server.Close()

	_, err := execute("run", "-c", writeConfig(t, server.URL, "wrong"))
	if !errors.Is(err, reannounce.ErrLogin) {
		t.Fatalf("expected ErrLogin, got %v", err)
	}
	if len(ui.paths) != 1 || ui.paths[0] != "/api/v2/auth/login" {
		t.Errorf("expected only the login call, got %v", ui.paths)
	}
}

func TestRunCycle(t *testing.T) {
	ui := &webUI{password: "secret"}
	server := httptest.NewServer(ui)
	defer server.Close()

	if _, err := execute("run", "-c", writeConfig(t, server.URL, "secret")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"/api/v2/auth/login",
		"/api/v2/torrents/info",
		"/api/v2/torrents/pause",
		"/api/v2/torrents/reannounce",
		"/api/v2/torrents/resume",
		"/api/v2/auth/logout",
	}
	if strings.Join(ui.paths, ",") != strings.Join(want, ",") {
		t.Errorf("expected calls %v, got %v", want, ui.paths)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	_, err := execute("run", "-c", filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "failed to load config") {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	ui := &webUI{password: "secret"}
	server := httptest.NewServer(ui)
	defer server.Close()

	out, err := execute("check", "-c", writeConfig(t, server.URL, "secret"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "qBittorrent v4.6.7: 1 torrents (0 paused)\n" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute("version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "qbreannounce version "+version+"\n" {
		t.Errorf("unexpected output: %q", out)
	}
}
