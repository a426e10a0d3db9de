package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Restriction defaults. A zero-value field on a stored scholarship means
// "no restriction" for that criterion.
const (
	RestrictionAny = "Any"
	RestrictionAll = "All"
)

// Scholarship is an administrator-owned award document. Restriction fields
// default to their permissive value; MaxIncome <= 0 means unbounded.
type Scholarship struct {
	ID            string `json:"id" gorm:"primaryKey;size:64"`
	Name          string `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Gender        string `json:"gender" gorm:"size:16;default:Any"`
	Education     string `json:"education" gorm:"size:64;index"`
	Category      string `json:"category" gorm:"size:64;default:Any;index"`
	State         string `json:"state" gorm:"size:64;default:All"`
	MaxIncome     int64  `json:"max_income"`
	MinPercentage int    `json:"min_percentage"`
	Religion      string `json:"religion" gorm:"size:64;default:Any"`
	Disability    string `json:"disability" gorm:"size:64;default:Any"`

	// Deadline is a calendar date in YYYY-MM-DD form. Kept as a string on
	// purpose: a malformed date must never make the record unreadable.
	Deadline string `json:"deadline" gorm:"size:10"`

	// Amount is a display string and may carry currency formatting
	// ("₹1,80,000"). Numeric comparisons go through matching.NormalizeAmount.
	Amount    string `json:"amount" gorm:"size:64"`
	ApplyLink string `json:"apply_link" gorm:"size:500"`

	// Extras carries free-form criteria text and any fields the admin import
	// supplies beyond the schema.
	Extras datatypes.JSON `json:"extras,omitempty"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Scholarship) TableName() string {
	return "scholarships"
}
