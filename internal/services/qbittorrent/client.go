package qbittorrent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const (
	apiPrefix = "/api/v2"
	timeout   = 10 * time.Second
)

var (
	// ErrInvalidCredentials is returned when the WebUI rejects the username or password.
	ErrInvalidCredentials = errors.New("invalid qbittorrent credentials")
	// ErrBanned is returned when the WebUI has banned the client IP after too many failed logins.
	ErrBanned = errors.New("client IP is banned by qbittorrent")
)

// Client represents a qBittorrent WebUI API client
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

var _ ClientAPI = (*Client)(nil)

// NewClient creates a new qBittorrent client. The session cookie returned by
// Login is kept in the client's cookie jar.
func NewClient(baseURL, username, password string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}
}

// doRequest executes an HTTP request against the WebUI API
func (c *Client) doRequest(ctx context.Context, method, endpoint string, form url.Values) (*http.Response, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+endpoint, body)
	if err != nil {
		return nil, err
	}

	// The WebUI rejects requests whose Referer does not match its host.
	req.Header.Set("Referer", c.baseURL)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	return c.httpClient.Do(req)
}

// Login opens a WebUI session
func (c *Client) Login(ctx context.Context) error {
	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)

	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/login", form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return ErrBanned
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error logging in to qbittorrent: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(data)) != "Ok." {
		return ErrInvalidCredentials
	}

	return nil
}

// Logout closes the WebUI session
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/logout", url.Values{})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error logging out of qbittorrent: %s", resp.Status)
	}

	return nil
}

// Version returns the qBittorrent application version
func (c *Client) Version(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/app/version", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("error getting qbittorrent version: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}

// ListTorrents returns every torrent known to the client
func (c *Client) ListTorrents(ctx context.Context) ([]Torrent, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/torrents/info", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error getting qbittorrent torrents: %s", resp.Status)
	}

	var result []Torrent
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding qbittorrent torrents: %w", err)
	}

	return result, nil
}

// Pause pauses the given torrents. qBittorrent 5 renamed the endpoint to
// "stop", which is used when "pause" is not found.
func (c *Client) Pause(ctx context.Context, hashes []string) error {
	return c.postHashes(ctx, "pause", "stop", hashes)
}

// Reannounce forces the given torrents to contact their trackers
func (c *Client) Reannounce(ctx context.Context, hashes []string) error {
	return c.postHashes(ctx, "reannounce", "", hashes)
}

// Resume resumes the given torrents. qBittorrent 5 renamed the endpoint to
// "start", which is used when "resume" is not found.
func (c *Client) Resume(ctx context.Context, hashes []string) error {
	return c.postHashes(ctx, "resume", "start", hashes)
}

func (c *Client) postHashes(ctx context.Context, action, fallback string, hashes []string) error {
	form := url.Values{}
	form.Set("hashes", strings.Join(hashes, "|"))

	resp, err := c.doRequest(ctx, http.MethodPost, "/torrents/"+action, form)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && fallback != "" {
		return c.postHashes(ctx, fallback, "", hashes)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error calling qbittorrent torrents/%s for %d torrents: %s", action, len(hashes), resp.Status)
	}

	return nil
}
