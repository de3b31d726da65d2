// Package intel ingests free-form scan reports, pseudonymizes and encrypts
// them under the alliance key, and synchronizes the decrypted view back for
// display. The report store only ever sees {alliance id, ciphertext}.
package intel

import "time"

// Report is the logical record as it exists inside the ciphertext payload.
// Immutable once written; there is no update path.
type Report struct {
	Timestamp   int64  `json:"timestamp"`
	Label       string `json:"label"`
	DisplayName string `json:"display_name"`
	Coords      string `json:"coords"`
	Universe    string `json:"universe"`
	RawText     string `json:"raw_text"`
}

// CipherRow is the persisted shape: row id, alliance scoping, and an
// opaque blob.
type CipherRow struct {
	ID         string
	AllianceID string
	Ciphertext string
	CreatedAt  time.Time
}

// UnitCount is a named tally extracted from a structured scan.
type UnitCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Snapshot is the best-effort structured view of a raw scan. Parsed marks
// whether the primary structured decode succeeded; when it did not, the
// snapshot is zeroed except for any coordinate scraped from the raw text.
type Snapshot struct {
	Parsed     bool        `json:"parsed"`
	PlanetName string      `json:"planet_name,omitempty"`
	Coords     string      `json:"coords,omitempty"`
	Resources  [4]int64    `json:"resources"`
	Buildings  []UnitCount `json:"buildings,omitempty"`
	Fleet      []UnitCount `json:"fleet,omitempty"`
	Defense    []UnitCount `json:"defense,omitempty"`
}
