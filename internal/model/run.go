package model

import "time"

// RunStatus tracks a search run through its lifecycle.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one persisted search execution.
type Run struct {
	ID         string           `json:"id"`
	Parameters SearchParameters `json:"parameters"`
	Status     RunStatus        `json:"status"`
	Result     *SearchResult    `json:"result,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
