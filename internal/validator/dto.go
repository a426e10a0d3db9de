package validator

// SignupRequest registers a new account
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest authenticates an existing account
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileSubmitRequest carries a full eligibility profile. Submitting again
// replaces the previous profile.
type ProfileSubmitRequest struct {
	Gender     string `json:"gender" validate:"required"`
	Education  string `json:"education" validate:"required"`
	Category   string `json:"category"`
	Income     int64  `json:"income" validate:"min=0"`
	State      string `json:"state"`
	DOB        string `json:"dob" validate:"omitempty,dateymd"`
	Religion   string `json:"religion"`
	Disability string `json:"disability"`
	Course     string `json:"course"`
	Percentage int    `json:"percentage" validate:"min=0,max=100"`
}

// ScholarshipCreateRequest adds a catalog entry. Empty restriction fields fall
// back to their permissive defaults.
type ScholarshipCreateRequest struct {
	Name          string                 `json:"name" validate:"required,max=500"`
	Gender        string                 `json:"gender"`
	Education     string                 `json:"education"`
	Category      string                 `json:"category"`
	State         string                 `json:"state"`
	MaxIncome     int64                  `json:"max_income" validate:"min=0"`
	MinPercentage int                    `json:"min_percentage"`
	Religion      string                 `json:"religion"`
	Disability    string                 `json:"disability"`
	Deadline      string                 `json:"deadline" validate:"omitempty,dateymd"`
	Amount        string                 `json:"amount"`
	ApplyLink     string                 `json:"apply_link" validate:"omitempty,url"`
	Extras        map[string]interface{} `json:"extras"`
}

// ScholarshipUpdateRequest updates a catalog entry. Nil fields keep their
// current values.
type ScholarshipUpdateRequest struct {
	Name          *string                `json:"name" validate:"omitempty,max=500"`
	Gender        *string                `json:"gender"`
	Education     *string                `json:"education"`
	Category      *string                `json:"category"`
	State         *string                `json:"state"`
	MaxIncome     *int64                 `json:"max_income" validate:"omitempty,min=0"`
	MinPercentage *int                   `json:"min_percentage" validate:"omitempty,min=0,max=100"`
	Religion      *string                `json:"religion"`
	Disability    *string                `json:"disability"`
	Deadline      *string                `json:"deadline" validate:"omitempty,dateymd"`
	Amount        *string                `json:"amount"`
	ApplyLink     *string                `json:"apply_link" validate:"omitempty,url"`
	Extras        map[string]interface{} `json:"extras"`
}
