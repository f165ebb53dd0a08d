package db

import "time"

// Credential binds an externally issued subject id to a locally issued secret.
// The plaintext secret itself is never stored; only its salted digest.
type Credential struct {
	SubjectID  string    `json:"subject_id"`
	Salt       string    `json:"-"`
	SecretHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DailyRecord is one (subject, calendar day) row of the presence ledger.
// Start, End and Counter are written only by the heartbeat engine; the adj_*
// fields and Validated are written only by manual edit operations.
type DailyRecord struct {
	SubjectID string `json:"-"`
	Date      string `json:"-"`
	Start     int64  `json:"start"`
	End       int64  `json:"end"`
	Counter   int64  `json:"counter"`
	AdjStart  int64  `json:"adj_start"`
	AdjEnd    int64  `json:"adj_end"`
	AdjGaps   int64  `json:"adj_gaps"`
	Validated bool   `json:"validated"`
}
