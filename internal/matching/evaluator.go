// Package matching holds the pure eligibility core: the rule evaluator that
// decides whether a scholarship matches a profile, the deadline classifier,
// and the amount normalizer. Nothing in here touches storage or I/O.
package matching

import (
	"strings"

	"github.com/scholarmatch/scholarship-service/internal/models"
)

// Matches reports whether a profile satisfies every eligibility criterion of
// a scholarship. A missing restriction on the scholarship side falls back to
// its permissive default ("Any"/"All", unbounded income, zero percentage
// floor). The evaluation is total: nil inputs yield false, no criterion ever
// panics.
//
// Case rules follow the stored data conventions: gender, religion and
// disability compare exactly; education, category and state compare
// case-insensitively.
func Matches(s *models.Scholarship, p *models.Profile) bool {
	if s == nil || p == nil {
		return false
	}

	return genderOK(s, p) &&
		educationOK(s, p) &&
		categoryOK(s, p) &&
		stateOK(s, p) &&
		incomeOK(s, p) &&
		religionOK(s, p) &&
		disabilityOK(s, p) &&
		percentageOK(s, p)
}

func genderOK(s *models.Scholarship, p *models.Profile) bool {
	g := orDefault(s.Gender, models.RestrictionAny)
	return g == models.RestrictionAny || g == p.Gender
}

func educationOK(s *models.Scholarship, p *models.Profile) bool {
	return strings.EqualFold(s.Education, p.Education)
}

func categoryOK(s *models.Scholarship, p *models.Profile) bool {
	c := strings.ToLower(orDefault(s.Category, models.RestrictionAny))
	return c == "any" || c == strings.ToLower(p.Category)
}

func stateOK(s *models.Scholarship, p *models.Profile) bool {
	st := strings.ToLower(orDefault(s.State, models.RestrictionAll))
	return st == "all" || st == strings.ToLower(p.State)
}

func incomeOK(s *models.Scholarship, p *models.Profile) bool {
	if s.MaxIncome <= 0 {
		// No ceiling recorded: unbounded.
		return true
	}
	return p.Income <= s.MaxIncome
}

func religionOK(s *models.Scholarship, p *models.Profile) bool {
	r := orDefault(s.Religion, models.RestrictionAny)
	return r == models.RestrictionAny || r == p.Religion
}

func disabilityOK(s *models.Scholarship, p *models.Profile) bool {
	d := orDefault(s.Disability, models.RestrictionAny)
	return d == models.RestrictionAny || d == p.Disability
}

func percentageOK(s *models.Scholarship, p *models.Profile) bool {
	return p.Percentage >= s.MinPercentage
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
