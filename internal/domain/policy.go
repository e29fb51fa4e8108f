package domain

import (
	"strings"
	"time"
)

// PolicyType is the line of business a policy belongs to.
type PolicyType string

const (
	PolicyTypeHealth  PolicyType = "Health"
	PolicyTypeLife    PolicyType = "Life"
	PolicyTypeMotor   PolicyType = "Motor"
	PolicyTypeTravel  PolicyType = "Travel"
	PolicyTypePension PolicyType = "Pension"
)

var policyTypes = []PolicyType{
	PolicyTypeHealth,
	PolicyTypeLife,
	PolicyTypeMotor,
	PolicyTypeTravel,
	PolicyTypePension,
}

// ParsePolicyType matches s case-insensitively against the known types.
func ParsePolicyType(s string) (PolicyType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range policyTypes {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	// insurers often write "Motor Insurance", "Term Life" and so on
	lower := strings.ToLower(s)
	for _, t := range policyTypes {
		if strings.Contains(lower, strings.ToLower(string(t))) {
			return t, true
		}
	}
	return "", false
}

// PolicyStatus tracks where a policy is in its payment lifecycle.
type PolicyStatus string

const (
	StatusActive     PolicyStatus = "Active"
	StatusRenewalDue PolicyStatus = "Renewal Due"
	StatusLapsed     PolicyStatus = "Lapsed"
)

// ParsePolicyStatus accepts the display form ("Renewal Due") and the
// snake form ("renewal_due").
func ParsePolicyStatus(s string) (PolicyStatus, bool) {
	norm := strings.ReplaceAll(strings.TrimSpace(s), "_", " ")
	for _, st := range []PolicyStatus{StatusActive, StatusRenewalDue, StatusLapsed} {
		if strings.EqualFold(norm, string(st)) {
			return st, true
		}
	}
	return "", false
}

// Policy is an insurance contract tracked by the agent. CustomerID is nil
// while the policy is unassigned.
type Policy struct {
	ID            string       `json:"id"`
	PolicyNumber  string       `json:"policyNumber,omitempty"`
	CustomerID    *string      `json:"customerId"`
	Type          PolicyType   `json:"type"`
	Insurer       string       `json:"insurer"`
	Status        PolicyStatus `json:"status"`
	StartDate     *time.Time   `json:"startDate,omitempty"`
	DueDate       *time.Time   `json:"dueDate,omitempty"`
	Premium       *float64     `json:"premium"`
	Coverage      *float64     `json:"coverage"`
	LastContacted *time.Time   `json:"lastContacted,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// PremiumValue returns the premium or 0 when unknown.
func (p Policy) PremiumValue() float64 {
	if p.Premium == nil {
		return 0
	}
	return *p.Premium
}

// CoverageValue returns the coverage or 0 when unknown.
func (p Policy) CoverageValue() float64 {
	if p.Coverage == nil {
		return 0
	}
	return *p.Coverage
}

// Assigned reports whether the policy belongs to a customer.
func (p Policy) Assigned() bool {
	return p.CustomerID != nil && *p.CustomerID != ""
}

const (
	// NoDueDate is shown in place of a missing due date.
	NoDueDate = "—"
	// UnassignedCustomer is shown in place of a missing customer name.
	UnassignedCustomer = "Unassigned"
	// NoPhone is shown in place of a missing phone number.
	NoPhone = "N/A"

	DateLayout = "2006-01-02"
)

// PolicyView is the flattened row rendered by the policy table.
type PolicyView struct {
	ID            string       `json:"id"`
	PolicyNumber  string       `json:"policyNumber,omitempty"`
	CustomerID    string       `json:"customerId,omitempty"`
	Customer      string       `json:"customer"`
	Phone         string       `json:"phone"`
	Type          PolicyType   `json:"type"`
	Insurer       string       `json:"insurer"`
	Status        PolicyStatus `json:"status"`
	DueDate       string       `json:"dueDate"`
	Amount        *float64     `json:"amount"`
	Coverage      *float64     `json:"coverage"`
	LastContacted *time.Time   `json:"lastContacted,omitempty"`
}

// NewPolicyView joins p with its customer, which may be nil.
func NewPolicyView(p Policy, c *Customer) PolicyView {
	v := PolicyView{
		ID:            p.ID,
		PolicyNumber:  p.PolicyNumber,
		Customer:      UnassignedCustomer,
		Phone:         NoPhone,
		Type:          p.Type,
		Insurer:       p.Insurer,
		Status:        p.Status,
		DueDate:       NoDueDate,
		Amount:        p.Premium,
		Coverage:      p.Coverage,
		LastContacted: p.LastContacted,
	}
	if p.CustomerID != nil {
		v.CustomerID = *p.CustomerID
	}
	if c != nil {
		if c.Name != "" {
			v.Customer = c.Name
		}
		if c.Phone != "" {
			v.Phone = c.Phone
		}
	}
	if p.DueDate != nil && !p.DueDate.IsZero() {
		v.DueDate = p.DueDate.UTC().Format(DateLayout)
	}
	return v
}

// HasPhone reports whether the view carries a reachable number.
func (v PolicyView) HasPhone() bool {
	return v.Phone != "" && v.Phone != NoPhone
}
