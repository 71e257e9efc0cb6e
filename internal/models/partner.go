package models

import "time"

type PartnerApplication struct {
	ApplicationID string    `json:"applicationId"`
	ReferralCode  string    `json:"referralCode"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Company       string    `json:"company,omitempty"`
	City          string    `json:"city,omitempty"`
	Experience    string    `json:"experience,omitempty"`
	Message       string    `json:"message,omitempty"`
	SubmittedAt   time.Time `json:"submittedAt"`
}
