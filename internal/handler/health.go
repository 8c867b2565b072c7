package handler

import (
	"net/http"

	"github.com/dmbruno/Ananda/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db     *gorm.DB
	rdb    *redis.Client
	mailer *infra.Mailer
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, mailer: mailer}
}

// Check reports dependency status. Degraded dependencies flip the overall
// status and the HTTP code to 503.
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}

	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}
	checks["database"] = dbStatus

	redisStatus := "ok"
	if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
		redisStatus = "down"
		status = http.StatusServiceUnavailable
	}
	checks["redis"] = redisStatus

	checks["smtp_breaker"] = h.mailer.BreakerState()

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "checks": checks})
}
