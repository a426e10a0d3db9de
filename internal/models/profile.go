package models

import (
	"time"
)

// Profile holds a user's eligibility attributes. One profile per account:
// Email is the primary key, resubmission overwrites in place (no history).
type Profile struct {
	Email      string `json:"email" gorm:"primaryKey;size:255"`
	Gender     string `json:"gender" gorm:"size:16"`
	Education  string `json:"education" gorm:"size:64"`
	Category   string `json:"category" gorm:"size:64"`
	Income     int64  `json:"income"`
	State      string `json:"state" gorm:"size:64"`
	DOB        string `json:"dob" gorm:"size:10"`
	Religion   string `json:"religion" gorm:"size:64"`
	Disability string `json:"disability" gorm:"size:64"`
	Course     string `json:"course" gorm:"size:128"`
	Percentage int    `json:"percentage"`

	SubmittedAt time.Time `json:"submitted_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
