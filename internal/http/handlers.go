package http

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/ochronus/qbreannounce/internal/app"
	"github.com/ochronus/qbreannounce/internal/config"
	"github.com/ochronus/qbreannounce/internal/reannounce"
	"github.com/sirupsen/logrus"
)

// Cycle runs one reannounce cycle. Implemented by *reannounce.Runner.
type Cycle interface {
	Run(ctx context.Context) (*reannounce.Result, error)
}

// ReannounceResponse is returned by POST /reannounce
type ReannounceResponse struct {
	RunID    string   `json:"run_id"`
	Torrents int      `json:"torrents"`
	Hashes   []string `json:"hashes"`
	Duration string   `json:"duration"`
}

// Handler contains the HTTP handlers for the trigger API.
type Handler struct {
	config *config.Config
	cycle  Cycle
	logger *logrus.Logger

	// Held for reading by every running cycle; Drain takes it for writing.
	inflight sync.RWMutex
	draining bool
}

// NewHandler creates a new HTTP handler.
func NewHandler(container *app.Container, cycle Cycle) *Handler {
	return &Handler{
		config: container.Config,
		cycle:  cycle,
		logger: container.Logger,
	}
}

// Reannounce runs a full cycle and reports the torrents it touched.
func (h *Handler) Reannounce(c *gin.Context) {
	if h.config.AuthEnabled() && !h.validateUser(c) {
		c.Header("WWW-Authenticate", `Basic realm="qbreannounce"`)
		c.Status(http.StatusUnauthorized)
		return
	}

	h.inflight.RLock()
	defer h.inflight.RUnlock()
	if h.draining {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server is shutting down"})
		return
	}

	h.logger.Infof("reannounce requested by %s", c.ClientIP())

	// A client hanging up must not leave torrents paused.
	result, err := h.cycle.Run(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		if errors.Is(err, reannounce.ErrBusy) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ReannounceResponse{
		RunID:    result.RunID.String(),
		Torrents: len(result.Hashes),
		Hashes:   result.Hashes,
		Duration: result.Duration.String(),
	})
}

// Drain blocks until running cycles have finished and refuses new ones.
func (h *Handler) Drain() {
	h.inflight.Lock()
	defer h.inflight.Unlock()
	h.draining = true
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// validateUser validates the Basic Auth credentials.
func (h *Handler) validateUser(c *gin.Context) bool {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Basic ") {
		return false
	}

	encoded := strings.TrimPrefix(authHeader, "Basic ")
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.config.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.config.Password)) == 1
	return userOK && passOK
}
