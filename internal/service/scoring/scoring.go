package scoring

// Lead score categories.
const (
	CategoryHot  = "hot"
	CategoryWarm = "warm"
	CategoryCold = "cold"
)

const maxScore = 100

// Input captures the lead attributes evaluated by the scoring function.
// Empty strings mean the attribute is absent.
type Input struct {
	Email         string
	EmailVerified string
	Phone         string
	FirstName     string
	LastName      string
	CompanyName   string
	SIREN         string
	SIRET         string
	Website       string
	LinkedInURL   string
	Enriched      bool
	Sector        string
	City          string
}

// Detail is one scored criterion with its point value.
type Detail struct {
	Criterion string `json:"criterion"`
	Points    int    `json:"points"`
}

// Breakdown reports the ordered criteria, the capped total and the derived category.
type Breakdown struct {
	Details  []Detail `json:"details"`
	Total    int      `json:"total"`
	Category string   `json:"category"`
}

// Score computes the completeness score for a lead. It is pure: identical
// inputs always yield identical output, and the total stays within [0,100].
func Score(input Input) Breakdown {
	var details []Detail

	if input.Email != "" {
		if input.EmailVerified == "valid" {
			details = append(details, Detail{Criterion: "Email vérifié", Points: 20})
		} else {
			details = append(details, Detail{Criterion: "Email présent", Points: 10})
		}
	}
	if input.Phone != "" {
		details = append(details, Detail{Criterion: "Téléphone", Points: 10})
	}
	if input.FirstName != "" && input.LastName != "" {
		details = append(details, Detail{Criterion: "Nom complet", Points: 10})
	}
	if input.CompanyName != "" {
		details = append(details, Detail{Criterion: "Entreprise", Points: 10})
	}
	if input.SIREN != "" || input.SIRET != "" {
		details = append(details, Detail{Criterion: "SIREN/SIRET", Points: 10})
	}
	if input.Website != "" {
		details = append(details, Detail{Criterion: "Site web", Points: 5})
	}
	if input.LinkedInURL != "" {
		details = append(details, Detail{Criterion: "LinkedIn", Points: 5})
	}
	if input.Enriched {
		details = append(details, Detail{Criterion: "Enrichi Pappers", Points: 10})
	}
	if input.Sector != "" {
		details = append(details, Detail{Criterion: "Secteur", Points: 5})
	}
	if input.City != "" {
		details = append(details, Detail{Criterion: "Ville", Points: 5})
	}

	total := 0
	for _, d := range details {
		total += d.Points
	}
	// The weights sum to 90, so the cap should never bind; kept as an invariant.
	if total > maxScore {
		total = maxScore
	}

	return Breakdown{
		Details:  details,
		Total:    total,
		Category: categorize(total),
	}
}

func categorize(total int) string {
	switch {
	case total > 70:
		return CategoryHot
	case total >= 40:
		return CategoryWarm
	default:
		return CategoryCold
	}
}
