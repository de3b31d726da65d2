// Package alliance manages the alliance lifecycle and the shared key
// material: generation, password-wrapping for bootstrap, identity-wrapping
// for durable per-member storage. The plaintext key exists only in memory;
// every persisted copy is ciphertext keyed by something the storing party
// does not otherwise hold.
package alliance

import "time"

// Alliance is the stored group record. Name and universe are immutable
// after creation. WrappedKey is the key material sealed under the founding
// password — written once, never changed in this design.
type Alliance struct {
	ID         string
	Name       string
	Universe   string
	WrappedKey string
	CreatedAt  time.Time
}

// MembershipRow is a persisted (member, universe) binding. WrappedKey is
// the alliance key sealed under the member's durable identity; re-joining
// overwrites the row.
type MembershipRow struct {
	IdentityID string
	Universe   string
	AllianceID string
	WrappedKey string
	UpdatedAt  time.Time
}

// Membership is the in-memory, unwrapped view a caller works with. Key is
// the plaintext alliance key and must never be persisted or serialized
// out of process.
type Membership struct {
	AllianceID string
	Name       string
	Universe   string
	Key        string
}
