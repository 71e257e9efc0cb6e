package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"vastusite/internal/service"
)

// flexString accepts a JSON string or number. Intake forms send plot sizes and
// room counts either way.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

func (f *flexString) ptr() *string {
	if f == nil {
		return nil
	}
	s := string(*f)
	return &s
}

type captureLeadRequest struct {
	Name      string     `json:"name"`
	Phone     flexString `json:"phone"`
	City      string     `json:"city"`
	PlotSize  flexString `json:"plotSize"`
	Direction string     `json:"direction"`
	Rooms     flexString `json:"rooms"`
	AIStatus  string     `json:"aiStatus"`
	Notes     string     `json:"notes"`
}

func (h HandlerSet) CaptureLead(c *gin.Context) {
	var req captureLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	lead, err := h.leadService.Capture(c.Request.Context(), service.CaptureInput{
		Name:      req.Name,
		Phone:     string(req.Phone),
		City:      req.City,
		PlotSize:  string(req.PlotSize),
		Direction: req.Direction,
		Rooms:     string(req.Rooms),
		AIStatus:  req.AIStatus,
		Notes:     req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"leadId":  lead.ID,
		"message": "Thank you! Our Vastu consultant will contact you shortly.",
	})
}

func (h HandlerSet) ListLeads(c *gin.Context) {
	result, err := h.leadService.Query(c.Request.Context(), service.QueryInput{
		Q:      c.Query("q"),
		Status: c.Query("status"),
		Source: c.Query("source"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
		All:    queryBool(c, "all"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type updateLeadRequest struct {
	LeadID    string      `json:"leadId"`
	Status    *string     `json:"status"`
	Notes     *string     `json:"notes"`
	Name      *string     `json:"name"`
	Phone     *flexString `json:"phone"`
	City      *string     `json:"city"`
	PlotSize  *flexString `json:"plotSize"`
	Direction *string     `json:"direction"`
	Rooms     *flexString `json:"rooms"`
}

func (h HandlerSet) UpdateLead(c *gin.Context) {
	var req updateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	lead, err := h.leadService.Update(c.Request.Context(), service.UpdateInput{
		ID:        req.LeadID,
		Status:    req.Status,
		Notes:     req.Notes,
		Name:      req.Name,
		Phone:     req.Phone.ptr(),
		City:      req.City,
		PlotSize:  req.PlotSize.ptr(),
		Direction: req.Direction,
		Rooms:     req.Rooms.ptr(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"lead":    lead,
	})
}

func (h HandlerSet) DeleteLead(c *gin.Context) {
	if err := h.leadService.Delete(c.Request.Context(), c.Query("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// queryInt returns 0 for absent or malformed values so the service defaults apply.
func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return v
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.Query(key)))
	return err == nil && v
}
