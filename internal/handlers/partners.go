package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vastusite/internal/service"
)

type registerPartnerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Company    string `json:"company"`
	City       string `json:"city"`
	Experience string `json:"experience"`
	Message    string `json:"message"`
}

func (h HandlerSet) RegisterPartner(c *gin.Context) {
	var req registerPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	app, err := h.partnerService.Register(c.Request.Context(), service.PartnerInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Company:    req.Company,
		City:       req.City,
		Experience: req.Experience,
		Message:    req.Message,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"applicationId": app.ApplicationID,
		"referralCode":  app.ReferralCode,
		"message":       "Application received. Our partnerships team will reach out soon.",
	})
}
