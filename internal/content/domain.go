// Package content runs the generation queue and the draft review
// workflow: requests are queued, a worker turns them into drafts, and
// reviewers approve, reject, or publish the drafts.
package content

import (
	"time"

	"github.com/royalcarriage/platform/internal/genai"
)

// Draft review states.
const (
	StatusQueued        = "queued"
	StatusPendingReview = "pending_review"
	StatusApproved      = "approved"
	StatusRejected      = "rejected"
	StatusPublished     = "published"
)

// reviewStatusForAction maps a review route action to the resulting status.
var reviewStatusForAction = map[string]string{
	"approve": StatusApproved,
	"reject":  StatusRejected,
	"publish": StatusPublished,
}

// Job is one queued generation request awaiting processing.
type Job struct {
	ID        string        `json:"id"`
	Status    string        `json:"status"`
	Request   genai.Request `json:"request"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Draft is generated copy waiting for (or past) review.
type Draft struct {
	ID          string                 `json:"id"`
	Status      string                 `json:"status"`
	Request     genai.Request          `json:"request"`
	Result      genai.GeneratedContent `json:"result"`
	ReviewedBy  string                 `json:"reviewedBy,omitempty"`
	ReviewNotes string                 `json:"reviewNotes,omitempty"`
	ReviewedAt  *time.Time             `json:"reviewedAt,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// JobFailure records a generation job whose retries were exhausted.
type JobFailure struct {
	ID        string        `json:"id"`
	Request   genai.Request `json:"request"`
	Reason    string        `json:"reason"`
	FailedAt  time.Time     `json:"failedAt"`
	CreatedAt time.Time     `json:"createdAt"`
}
