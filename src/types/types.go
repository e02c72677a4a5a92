package types

import "time"

// Submission statuses. A submission enters as pending, is decided by a
// moderator (approved or rejected), and approved submissions are moved to
// published by the background publisher. Rejected and published are terminal.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusPublished = "published"
)

// Submission is an anonymous text entry moving through the moderation queue.
type Submission struct {
	ID       uint64 `gorm:"primaryKey"`
	PublicID string `gorm:"size:36;uniqueIndex;not null"`
	Text     string `gorm:"type:text;not null"`
	Lang     string `gorm:"size:8;not null;default:en"`
	Status   string `gorm:"size:16;not null;index:idx_status_created,priority:1"`
	// Fingerprint is a truncated one-way hash of the submitter network
	// address, empty when no address was available. Never a raw identity.
	Fingerprint     string    `gorm:"size:16"`
	ClientSignature string    `gorm:"size:180"`
	CreatedAt       time.Time `gorm:"index:idx_status_created,priority:2;index"`
}
