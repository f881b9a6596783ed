package domain

import "time"

type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusApproved MemberStatus = "approved"
	MemberStatusRejected MemberStatus = "rejected"
)

// Professions counted in the dashboard breakdown. Members may carry other
// values, but only these two are reported.
const (
	ProfessionMahasiswa = "Mahasiswa"
	ProfessionUmum      = "Umum"
)

type Member struct {
	ID                   int32        `json:"id"`
	MemberNumber         string       `json:"member_number"`
	Name                 string       `json:"name"`
	NIM                  string       `json:"nim"`
	Email                string       `json:"email"`
	BirthPlace           string       `json:"birth_place,omitempty"`
	BirthDate            *time.Time   `json:"birth_date,omitempty"`
	Gender               string       `json:"gender,omitempty"`
	Address              string       `json:"address,omitempty"`
	Phone                string       `json:"phone,omitempty"`
	Institution          string       `json:"institution"`
	Profession           string       `json:"profession,omitempty"`
	Program              string       `json:"program,omitempty"`
	PhotoPath            string       `json:"photo_path,omitempty"`
	SignaturePath        string       `json:"signature_path,omitempty"`
	PaymentProofPath     string       `json:"payment_proof_path,omitempty"`
	Status               MemberStatus `json:"status"`
	RegistrationDate     time.Time    `json:"registration_date"`
	ApprovedAt           *time.Time   `json:"approved_at,omitempty"`
	RejectedAt           *time.Time   `json:"rejected_at,omitempty"`
	RejectionReason      string       `json:"rejection_reason,omitempty"`
	MembershipExpiryDate *time.Time   `json:"membership_expiry_date,omitempty"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// IsActive reports whether the member counts as active on the given day:
// approved and not yet past the expiry date. An approved member without an
// expiry date is treated as active.
func (m *Member) IsActive(today time.Time) bool {
	if m.Status != MemberStatusApproved {
		return false
	}
	if m.MembershipExpiryDate == nil {
		return true
	}
	return !m.MembershipExpiryDate.Before(today)
}
