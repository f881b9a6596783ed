package domain

import "time"

type RenewalStatus string

const (
	RenewalStatusPending  RenewalStatus = "pending"
	RenewalStatusApproved RenewalStatus = "approved"
	RenewalStatusRejected RenewalStatus = "rejected"
)

type RenewalRequest struct {
	ID               int32         `json:"id"`
	MemberID         int32         `json:"member_id"`
	Status           RenewalStatus `json:"status"`
	RequestDate      time.Time     `json:"request_date"`
	PaymentProofPath string        `json:"payment_proof_path"`
	Reason           string        `json:"reason,omitempty"`
	ApprovedAt       *time.Time    `json:"approved_at,omitempty"`
	NewExpiryDate    *time.Time    `json:"new_expiry_date,omitempty"`
	RejectionReason  string        `json:"rejection_reason,omitempty"`
}

// RenewalListItem is a renewal request joined with the owning member's
// identity, as shown on the admin renewal list.
type RenewalListItem struct {
	RenewalRequest
	MemberName   string `json:"name"`
	MemberNIM    string `json:"nim"`
	MemberNumber string `json:"member_number"`
}

// Eligibility is the outcome of the renewal eligibility check. Days counts
// calendar days until the expiry date: positive while the membership is still
// valid, zero when it expires today, negative once it has lapsed.
type Eligibility struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Days    int    `json:"days"`
}
