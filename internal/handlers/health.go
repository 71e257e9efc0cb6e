package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status      string `json:"status"`
	LeadStore   string `json:"leadStore"`
	Cache       string `json:"cache"`
	Environment string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"

	storeStatus := "ok"
	if _, err := h.leads.List(ctx); err != nil {
		storeStatus = "error"
		status = "degraded"
		h.log.Error().Err(err).Msg("lead store check failed")
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "ok"
		if err := h.cache.Ping(ctx).Err(); err != nil {
			cacheStatus = "error"
			status = "degraded"
			h.log.Error().Err(err).Msg("redis ping failed")
		}
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, healthResponse{
		Status:      status,
		LeadStore:   storeStatus,
		Cache:       cacheStatus,
		Environment: h.cfg.Environment,
	})
}
