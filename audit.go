package relgraph

import (
	"fmt"
	"sort"

	"github.com/soundprediction/relgraph/pkg/types"
)

// AuditConfig holds the thresholds applied by the audit rules.
type AuditConfig struct {
	// MinAge and MaxAge bound the plausible age range; ages outside
	// [MinAge, MaxAge] are flagged. Negative ages are always flagged.
	MinAge int
	MaxAge int
	// MaxRelationships is the number of rows a single party may appear in
	// before being flagged. Zero disables the rule.
	MaxRelationships int
}

// DefaultAuditConfig returns the thresholds used when none are configured.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		MinAge:           0,
		MaxAge:           120,
		MaxRelationships: 10,
	}
}

// PartyCount is the number of relationship rows a party appears in, as
// either endpoint.
type PartyCount struct {
	PartyID string `json:"party_id"`
	Count   int    `json:"count"`
}

// Auditor applies threshold predicates to a record set. It holds no state
// beyond the records and configuration; every method is a pure projection.
type Auditor struct {
	records []types.Record
	config  AuditConfig
}

// NewAuditor creates an auditor over the given records.
func NewAuditor(records []types.Record, config AuditConfig) *Auditor {
	if config.MaxAge == 0 && config.MinAge == 0 && config.MaxRelationships == 0 {
		config = DefaultAuditConfig()
	}
	return &Auditor{records: records, config: config}
}

func (a *Auditor) line(i int) int {
	if a.records[i].Line > 0 {
		return a.records[i].Line
	}
	return i + 1
}

// AgeFlags returns one flag per age field outside the configured range.
func (a *Auditor) AgeFlags() []types.Flag {
	var flags []types.Flag
	for i := range a.records {
		r := &a.records[i]
		if r.PartyAge != nil && (*r.PartyAge < a.config.MinAge || *r.PartyAge > a.config.MaxAge) {
			flags = append(flags, types.Flag{
				Rule:    types.FlagAgeOutOfRange,
				Line:    a.line(i),
				PartyID: r.PartyID,
				Detail:  fmt.Sprintf("party age %d outside [%d, %d]", *r.PartyAge, a.config.MinAge, a.config.MaxAge),
			})
		}
		if r.RelatedAge != nil && (*r.RelatedAge < a.config.MinAge || *r.RelatedAge > a.config.MaxAge) {
			flags = append(flags, types.Flag{
				Rule:    types.FlagAgeOutOfRange,
				Line:    a.line(i),
				PartyID: r.RelatedID,
				Detail:  fmt.Sprintf("related age %d outside [%d, %d]", *r.RelatedAge, a.config.MinAge, a.config.MaxAge),
			})
		}
	}
	return flags
}

// DurationFlags returns one flag per row whose discontinue date precedes
// its start date.
func (a *Auditor) DurationFlags() []types.Flag {
	var flags []types.Flag
	for i := range a.records {
		r := &a.records[i]
		if r.StartDate == nil || r.DiscontinueDate == nil {
			continue
		}
		if r.DiscontinueDate.Before(*r.StartDate) {
			flags = append(flags, types.Flag{
				Rule:    types.FlagNegativeDuration,
				Line:    a.line(i),
				PartyID: r.PartyID,
				Detail: fmt.Sprintf("discontinued %s before start %s",
					r.DiscontinueDate.Format("2006-01-02"), r.StartDate.Format("2006-01-02")),
			})
		}
	}
	return flags
}

// DeceasedPrimary returns flags for rows whose primary party carries a
// deceased date while the relationship remains active.
func (a *Auditor) DeceasedPrimary() []types.Flag {
	var flags []types.Flag
	for i := range a.records {
		r := &a.records[i]
		if r.PartyDeceased == nil {
			continue
		}
		if r.DiscontinueDate == nil || r.DiscontinueDate.After(*r.PartyDeceased) {
			flags = append(flags, types.Flag{
				Rule:    types.FlagDeceasedPrimary,
				Line:    a.line(i),
				PartyID: r.PartyID,
				Detail:  fmt.Sprintf("party deceased %s with active relationship", r.PartyDeceased.Format("2006-01-02")),
			})
		}
	}
	return flags
}

// DeceasedRelated returns flags for rows whose related party carries a
// deceased date while the relationship remains active.
func (a *Auditor) DeceasedRelated() []types.Flag {
	var flags []types.Flag
	for i := range a.records {
		r := &a.records[i]
		if r.RelatedDeceased == nil {
			continue
		}
		if r.DiscontinueDate == nil || r.DiscontinueDate.After(*r.RelatedDeceased) {
			flags = append(flags, types.Flag{
				Rule:    types.FlagDeceasedRelated,
				Line:    a.line(i),
				PartyID: r.RelatedID,
				Detail:  fmt.Sprintf("related party deceased %s with active relationship", r.RelatedDeceased.Format("2006-01-02")),
			})
		}
	}
	return flags
}

// RelationshipCounts returns the number of rows each party appears in,
// sorted by count descending then party id.
func (a *Auditor) RelationshipCounts() []PartyCount {
	counts := make(map[string]int)
	for i := range a.records {
		r := &a.records[i]
		counts[r.PartyID]++
		if r.RelatedID != r.PartyID {
			counts[r.RelatedID]++
		}
	}

	result := make([]PartyCount, 0, len(counts))
	for id, count := range counts {
		result = append(result, PartyCount{PartyID: id, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].PartyID < result[j].PartyID
	})
	return result
}

// CountFlags flags parties appearing in more rows than MaxRelationships.
func (a *Auditor) CountFlags() []types.Flag {
	if a.config.MaxRelationships <= 0 {
		return nil
	}
	var flags []types.Flag
	for _, pc := range a.RelationshipCounts() {
		if pc.Count > a.config.MaxRelationships {
			flags = append(flags, types.Flag{
				Rule:    types.FlagDuplicateRelationship,
				PartyID: pc.PartyID,
				Detail:  fmt.Sprintf("appears in %d rows, maximum is %d", pc.Count, a.config.MaxRelationships),
			})
		}
	}
	return flags
}

// Run applies every audit rule and returns the combined flags.
func (a *Auditor) Run() []types.Flag {
	var flags []types.Flag
	flags = append(flags, a.AgeFlags()...)
	flags = append(flags, a.DurationFlags()...)
	flags = append(flags, a.DeceasedPrimary()...)
	flags = append(flags, a.DeceasedRelated()...)
	flags = append(flags, a.CountFlags()...)
	return flags
}
