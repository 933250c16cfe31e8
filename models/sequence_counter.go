package models

import "time"

// Entity prefixes recognized by the ID allocator. Every persisted entity
// type owns exactly one 3-letter code.
const (
	PrefixUser         = "USR"
	PrefixTask         = "TSK"
	PrefixTicket       = "TKT"
	PrefixDepartment   = "DEP"
	PrefixComment      = "CMT"
	PrefixAttachment   = "FIL"
	PrefixSession      = "SES"
	PrefixNotification = "NOT"
	PrefixReport       = "RPT"
)

// KnownPrefixes is the fixed registry of entity codes in use.
var KnownPrefixes = map[string]struct{}{
	PrefixUser:         {},
	PrefixTask:         {},
	PrefixTicket:       {},
	PrefixDepartment:   {},
	PrefixComment:      {},
	PrefixAttachment:   {},
	PrefixSession:      {},
	PrefixNotification: {},
	PrefixReport:       {},
}

// MaxSequence is the per-prefix-per-day capacity, bounded by the 5-digit
// field in the identifier format.
const MaxSequence = 99999

// SequenceCounter holds the last sequence number issued for a (prefix, date)
// pair. One row per prefix per calendar day, created lazily on first
// allocation and retained indefinitely as an issuance audit trail. Rows are
// mutated exclusively through SequenceCounterRepository.Allocate.
type SequenceCounter struct {
	Prefix   string `gorm:"primaryKey;size:3" json:"prefix"`
	Date     string `gorm:"primaryKey;size:8" json:"date"`
	Sequence int    `gorm:"not null" json:"sequence"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (SequenceCounter) TableName() string { return "sequence_counters" }

// SequenceCounterFilter represents filter criteria for counter queries
// (used by issuance reports only; the allocator never reads counters).
type SequenceCounterFilter struct {
	Prefix     *string `json:"prefix,omitempty"`
	Date       *string `json:"date,omitempty"`
	DateAfter  *string `json:"date_after,omitempty"`
	DateBefore *string `json:"date_before,omitempty"`
}
