package model

import "time"

// Evaluation is a persisted evaluation record: the submitted profile and
// the recommendation it produced, snapshotted at evaluation time.
type Evaluation struct {
	ID             string         `json:"id"`
	Profile        SiteProfile    `json:"profile"`
	Recommendation Recommendation `json:"recommendation"`
	Category       Category       `json:"category"`
	CreatedAt      time.Time      `json:"created_at"`
}
