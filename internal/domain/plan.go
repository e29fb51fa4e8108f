package domain

// CandidatePlan is a catalog plan the agent can pitch as an alternative.
type CandidatePlan struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Premium  float64    `json:"premium"`
	Coverage float64    `json:"coverage"`
	Type     PolicyType `json:"type"`
	Pros     []string   `json:"pros"`
	Cons     []string   `json:"cons"`
}

// DefaultCatalog returns a fresh copy of the built-in plan catalog.
func DefaultCatalog() []CandidatePlan {
	return []CandidatePlan{
		{ID: "RX1", Name: "Health Plus", Premium: 18000, Coverage: 500000, Type: PolicyTypeHealth,
			Pros: []string{"Cashless network", "Wellness benefits"}, Cons: []string{"Room rent cap"}},
		{ID: "RX2", Name: "Secure Life", Premium: 22000, Coverage: 2500000, Type: PolicyTypeLife,
			Pros: []string{"High cover"}, Cons: []string{"Medical tests required"}},
		{ID: "RX3", Name: "Auto Shield", Premium: 7000, Coverage: 500000, Type: PolicyTypeMotor,
			Pros: []string{"Zero dep add-on"}, Cons: []string{"Garage network limited"}},
		{ID: "RX4", Name: "Critical Care", Premium: 12000, Coverage: 1000000, Type: PolicyTypeHealth,
			Pros: []string{"36 illnesses covered", "Lump sum payout"}, Cons: []string{"Survival period clause"}},
		{ID: "RX5", Name: "Pension Plus", Premium: 50000, Coverage: 0, Type: PolicyTypePension,
			Pros: []string{"Guaranteed returns", "Tax benefits"}, Cons: []string{"Long lock-in period"}},
		{ID: "RX6", Name: "Drive Assure", Premium: 9500, Coverage: 750000, Type: PolicyTypeMotor,
			Pros: []string{"Engine protection", "Roadside assistance"}, Cons: []string{"Higher premium"}},
		{ID: "RX7", Name: "Max Term", Premium: 15000, Coverage: 5000000, Type: PolicyTypeLife,
			Pros: []string{"Very high cover", "Low cost"}, Cons: []string{"No maturity benefit"}},
		{ID: "RX8", Name: "Global Trotter", Premium: 4500, Coverage: 100000, Type: PolicyTypeTravel,
			Pros: []string{"Multi-trip option", "Adventure sports"}, Cons: []string{"Pre-existing disease cover extra"}},
		{ID: "RX9", Name: "Super Top-up", Premium: 5000, Coverage: 2000000, Type: PolicyTypeHealth,
			Pros: []string{"High cover, low cost", "Covers existing plan"}, Cons: []string{"Deductible applies"}},
	}
}
