package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

const healthPingTimeout = 2 * time.Second

var errNoDatabase = errors.New("database not configured")

type HealthHandler struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewHealthHandler(db *gorm.DB, log *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: logger.OrNop(log).With("handler", "HealthHandler"), now: time.Now}
}

// GET /healthz. Always 200 so load balancers read the body; a failed ping
// reports degraded.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status, database := "ok", "connected"
	if err := h.ping(c.Request.Context()); err != nil {
		h.log.Warn("health ping failed", "error", err)
		status, database = "degraded", "disconnected"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"database":  database,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) ping(ctx context.Context) error {
	if h.db == nil {
		return errNoDatabase
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
