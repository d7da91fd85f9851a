package types

import (
	"errors"
	"time"
)

// Validation errors
var (
	ErrEmptyPartyID   = errors.New("party_id cannot be empty")
	ErrEmptyRelatedID = errors.New("related_id cannot be empty")
	ErrNegativeLine   = errors.New("line must be positive")
)

// Record represents one relationship row from the tabular input.
// A record relates a primary party to another party, optionally carrying
// demographic and temporal fields used by the audit rules.
type Record struct {
	PartyID          string     `json:"party_id"`
	RelatedID        string     `json:"related_id"`
	RelationshipType string     `json:"relationship_type,omitempty"`
	PartyAge         *int       `json:"party_age,omitempty"`
	RelatedAge       *int       `json:"related_age,omitempty"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	DiscontinueDate  *time.Time `json:"discontinue_date,omitempty"`
	PartyDeceased    *time.Time `json:"party_deceased,omitempty"`
	RelatedDeceased  *time.Time `json:"related_deceased,omitempty"`

	// Line is the 1-based row number in the source file, kept so audit
	// flags can point back at the offending input row.
	Line int `json:"line,omitempty"`
}

// Validate checks that the Record carries both endpoint identifiers.
// Self-references (PartyID == RelatedID) are legal and become self-loops.
func (r *Record) Validate() error {
	if r.PartyID == "" {
		return ErrEmptyPartyID
	}
	if r.RelatedID == "" {
		return ErrEmptyRelatedID
	}
	return nil
}

// Node represents a party in the relationship graph together with the
// metrics computed for it.
type Node struct {
	ID        string `json:"id"`
	Degree    int    `json:"degree"`
	Component int    `json:"component"`
}

// Edge represents the relationship between two parties. Records that repeat
// the same (source, target, relationship type) triple accumulate Count
// instead of producing parallel edge entries.
type Edge struct {
	Source           string `json:"source"`
	Target           string `json:"target"`
	RelationshipType string `json:"relationship_type,omitempty"`
	Count            int    `json:"count"`
}

// FlagRule identifies which audit predicate produced a Flag.
type FlagRule string

const (
	// FlagAgeOutOfRange marks rows whose party or related age falls
	// outside the configured bounds.
	FlagAgeOutOfRange FlagRule = "age_out_of_range"
	// FlagNegativeDuration marks rows discontinued before they started.
	FlagNegativeDuration FlagRule = "negative_duration"
	// FlagDeceasedPrimary marks active rows whose primary party is deceased.
	FlagDeceasedPrimary FlagRule = "deceased_primary"
	// FlagDeceasedRelated marks active rows whose related party is deceased.
	FlagDeceasedRelated FlagRule = "deceased_related"
	// FlagDuplicateRelationship marks parties appearing in more rows than
	// the configured maximum.
	FlagDuplicateRelationship FlagRule = "duplicate_relationship"
)

// contextKey is the private type for context values set by the server and
// CLI layers.
type contextKey string

const (
	// ContextKeyRunID carries the analysis run id through a request.
	ContextKeyRunID contextKey = "run_id"
	// ContextKeyRequestID carries the HTTP request id.
	ContextKeyRequestID contextKey = "request_id"
)

// Flag is a single audit finding tied back to an input row.
type Flag struct {
	Rule    FlagRule `json:"rule"`
	Line    int      `json:"line"`
	PartyID string   `json:"party_id"`
	Detail  string   `json:"detail,omitempty"`
}
