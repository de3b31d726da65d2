package radar

import "time"

// Entry is the decrypted scanner record a caller works with. Range is
// derived from Level via RangeForLevel and never stored independently.
type Entry struct {
	Universe string `json:"universe"`
	Galaxy   int    `json:"galaxy"`
	System   int    `json:"system"`
	Track    Track  `json:"track"`
	Level    int    `json:"level"`
	Range    int    `json:"range"`
}

// Key is the composite idempotency key of a scanner row. AllianceHash is
// the pseudonymous alliance label, so the store never learns which
// alliance a row belongs to in plaintext.
type Key struct {
	AllianceHash string
	Universe     string
	Galaxy       int
	System       int
	Track        Track
}

// CipherRow is the persisted shape: the composite key plus an opaque blob
// holding the sensitive fields (track, level, range).
type CipherRow struct {
	Key        Key
	Ciphertext string
	UpdatedAt  time.Time
}

// payload is what actually gets sealed into the ciphertext.
type payload struct {
	Track Track `json:"track"`
	Level int   `json:"level"`
	Range int   `json:"range"`
}
