package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports liveness of the two backends the engine cannot run without:
// Postgres (order/inventory state) and Redis (audit + notification queues).
// A degraded dependency turns the whole check 503 so orchestrators restart or
// drain the instance; the body never exposes connection details.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgresStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			postgresStatus = "error"
		}

		queueStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			queueStatus = "error"
		}

		status := http.StatusOK
		if postgresStatus != "connected" || queueStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":       status == http.StatusOK,
			"database": postgresStatus,
			"queue":    queueStatus,
		})
	}
}
