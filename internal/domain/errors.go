package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced member or renewal request does not exist.
	ErrNotFound = errors.New("tidak ditemukan")

	// ErrConflict covers state conflicts: a member that is already decided,
	// a duplicate NIM/email, or a renewal that is no longer pending.
	ErrConflict = errors.New("konflik data")

	// ErrDuplicateMemberNumber is returned by the member repository when an
	// insert or update violates the unique index on member_number. The
	// registration flow retries allocation on this error.
	ErrDuplicateMemberNumber = errors.New("nomor anggota sudah digunakan")

	// ErrSequenceExhausted is returned by the allocator when more than 9999
	// members register on a single calendar day.
	ErrSequenceExhausted = errors.New("nomor urut anggota untuk tanggal ini sudah habis")

	// ErrInvalidCredentials is returned on a failed admin login.
	ErrInvalidCredentials = errors.New("email atau password salah")
)

// ValidationError carries per-field messages for caller errors, mirroring the
// {"errors": {...}} shape of the validation response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validasi gagal: %d field", len(e.Fields))
}

// RuleDenialError is a business-rule denial, not a system failure. It carries
// the human-readable reason and the computed day count from the eligibility
// check so the API layer can surface both.
type RuleDenialError struct {
	Reason string
	Days   int
}

func (e *RuleDenialError) Error() string { return e.Reason }
