// Package subscription tracks the trial/premium essay allowance and keeps it
// in durable storage.
package subscription

import "time"

const (
	// TrialLimit is the allowance granted on first launch.
	TrialLimit = 5
	// YearlyLimit is the allowance granted by a subscription.
	YearlyLimit = 200
	// PriceUSD is display-only; no payment is taken.
	PriceUSD = 10
	// Term is how long a subscription stays premium.
	Term = 365 * 24 * time.Hour
)

// Status is the persisted allowance record. The JSON shape matches the
// record stored under the "subscription" key.
type Status struct {
	IsPremium       bool       `json:"isPremium"`
	EssaysRemaining int        `json:"essaysRemaining"`
	EssaysUsed      int        `json:"essaysUsed"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
}

// Trial returns the first-launch record.
func Trial() Status {
	return Status{EssaysRemaining: TrialLimit}
}

// CanGrade reports whether another essay may be graded.
func (s Status) CanGrade() bool {
	return s.EssaysRemaining > 0
}

// ConsumeOne records one successful grading. It does not check the
// allowance; callers gate on CanGrade before grading.
func (s *Status) ConsumeOne() {
	s.EssaysRemaining--
	s.EssaysUsed++
}

// Subscribe replaces the record with a fresh yearly allowance. Unused essays
// are not carried over.
func (s *Status) Subscribe(now time.Time) {
	expires := now.Add(Term).UTC()
	*s = Status{
		IsPremium:       true,
		EssaysRemaining: YearlyLimit,
		EssaysUsed:      0,
		ExpiresAt:       &expires,
	}
}

// Expire drops a lapsed premium record back to an empty free allowance and
// reports whether anything changed. Records without an expiry never lapse.
func (s *Status) Expire(now time.Time) bool {
	if !s.IsPremium || s.ExpiresAt == nil || now.Before(*s.ExpiresAt) {
		return false
	}
	s.IsPremium = false
	s.EssaysRemaining = 0
	s.ExpiresAt = nil
	return true
}

// Total is remaining plus used, which stays constant between subscriptions.
func (s Status) Total() int {
	return s.EssaysRemaining + s.EssaysUsed
}
