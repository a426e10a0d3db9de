package models

import (
	"time"
)

type InteractionKind string

const (
	InteractionSaved   InteractionKind = "saved"
	InteractionApplied InteractionKind = "applied"
)

// Interaction is a durable marker that a user saved or applied to a
// scholarship. The composite primary key (email, scholarship_id, kind) is the
// document identity, so creation is a single idempotent upsert: repeated marks
// can never produce a duplicate row, and no lock or read-then-write is needed.
type Interaction struct {
	Email         string          `json:"email" gorm:"primaryKey;size:255"`
	ScholarshipID string          `json:"scholarship_id" gorm:"primaryKey;size:64"`
	Kind          InteractionKind `json:"kind" gorm:"primaryKey;size:16"`

	CreatedAt time.Time `json:"created_at"`
}

func (Interaction) TableName() string {
	return "interactions"
}
