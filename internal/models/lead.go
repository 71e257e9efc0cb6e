package models

import "time"

type LeadStatus string

const (
	LeadStatusPending   LeadStatus = "pending"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusCompleted LeadStatus = "completed"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusPending, LeadStatusContacted, LeadStatusCompleted:
		return true
	}
	return false
}

type LeadSource string

const (
	LeadSourceAIGenerated LeadSource = "ai_generated"
	LeadSourceAIFailed    LeadSource = "ai_failed"
	LeadSourceDirect      LeadSource = "direct"
)

func (s LeadSource) Valid() bool {
	switch s {
	case LeadSourceAIGenerated, LeadSourceAIFailed, LeadSourceDirect:
		return true
	}
	return false
}

type Lead struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	City      string     `json:"city"`
	PlotSize  string     `json:"plotSize"`
	Direction string     `json:"direction"`
	Rooms     string     `json:"rooms"`
	Status    LeadStatus `json:"status"`
	Source    LeadSource `json:"source"`
	CreatedAt time.Time  `json:"createdAt"`
	Notes     string     `json:"notes,omitempty"`
}

// NeedsFollowUp reports whether AI classification failed and nobody has
// contacted the lead yet.
func (l Lead) NeedsFollowUp() bool {
	return l.Source == LeadSourceAIFailed && l.Status == LeadStatusPending
}

type LeadStats struct {
	Total         int `json:"total"`
	Pending       int `json:"pending"`
	AIGenerated   int `json:"aiGenerated"`
	NeedsFollowUp int `json:"needsFollowUp"`
}

type Pagination struct {
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
}

// LeadDigest is the periodic summary of the lead collection.
type LeadDigest struct {
	Stats       LeadStats `json:"stats"`
	GeneratedAt time.Time `json:"generatedAt"`
}
