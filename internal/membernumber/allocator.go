// Package membernumber generates the human-facing member identifiers in the
// format UM-YYYYMMDD-NNNN: a fixed prefix, the registration date, and a
// 4-digit per-day sequence. Lexicographic ordering over the full number
// matches numeric ordering because the sequence width is fixed.
package membernumber

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"perpusum-backend/internal/domain"
)

const (
	prefix      = "UM"
	maxSequence = 9999
)

// Sequencer is the slice of the member repository the allocator needs.
type Sequencer interface {
	LastNumberForPrefix(ctx context.Context, prefix string) (string, error)
	CountByNumber(ctx context.Context, memberNumber string, excludeID int32) (int, error)
}

type Allocator struct {
	repo Sequencer
}

func NewAllocator(repo Sequencer) *Allocator {
	return &Allocator{repo: repo}
}

// Format builds a member number for the given date and sequence.
func Format(registrationDate time.Time, sequence int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, registrationDate.Format("20060102"), sequence)
}

// Allocate returns the next member number for the registration date: the
// highest existing sequence for that day plus one, starting at 1. The result
// is not reserved; the caller must insert it under the unique index on
// member_number and retry allocation on a duplicate-key conflict.
func (a *Allocator) Allocate(ctx context.Context, registrationDate time.Time) (string, error) {
	datePrefix := fmt.Sprintf("%s-%s-", prefix, registrationDate.Format("20060102"))

	last, err := a.repo.LastNumberForPrefix(ctx, datePrefix)
	if err != nil {
		return "", fmt.Errorf("failed to find last member number: %w", err)
	}

	sequence := 1
	if last != "" {
		lastSeq, err := parseSequence(last)
		if err != nil {
			return "", err
		}
		sequence = lastSeq + 1
	}

	if sequence > maxSequence {
		return "", domain.ErrSequenceExhausted
	}
	return Format(registrationDate, sequence), nil
}

// IsUnique reports whether no member other than excludeID holds the exact
// number. Used when an admin edits a member number by hand; pass 0 to check
// against all members.
func (a *Allocator) IsUnique(ctx context.Context, memberNumber string, excludeID int32) (bool, error) {
	count, err := a.repo.CountByNumber(ctx, memberNumber, excludeID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func parseSequence(memberNumber string) (int, error) {
	parts := strings.Split(memberNumber, "-")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed member number %q", memberNumber)
	}
	seq, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("malformed member number %q: %w", memberNumber, err)
	}
	return seq, nil
}
