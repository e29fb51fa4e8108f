package domain

import "time"

// Customer is a policy holder managed by the agent.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CustomerSummary is the slim shape used by pickers.
type CustomerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Summary returns the picker shape of c.
func (c Customer) Summary() CustomerSummary {
	return CustomerSummary{ID: c.ID, Name: c.Name, Email: c.Email}
}
