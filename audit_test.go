package relgraph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/relgraph/pkg/types"
)

func intPtr(v int) *int { return &v }

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAgeFlags(t *testing.T) {
	records := []types.Record{
		{PartyID: "P1", RelatedID: "P2", PartyAge: intPtr(45), RelatedAge: intPtr(40), Line: 1},
		{PartyID: "P3", RelatedID: "P4", PartyAge: intPtr(-3), Line: 2},
		{PartyID: "P5", RelatedID: "P6", RelatedAge: intPtr(150), Line: 3},
	}

	auditor := NewAuditor(records, AuditConfig{MinAge: 0, MaxAge: 120, MaxRelationships: 10})
	flags := auditor.AgeFlags()

	require.Len(t, flags, 2)
	assert.Equal(t, types.FlagAgeOutOfRange, flags[0].Rule)
	assert.Equal(t, "P3", flags[0].PartyID)
	assert.Equal(t, 2, flags[0].Line)
	assert.Equal(t, "P6", flags[1].PartyID)
	assert.Equal(t, 3, flags[1].Line)
}

func TestDurationFlags(t *testing.T) {
	records := []types.Record{
		{
			PartyID: "P1", RelatedID: "P2", Line: 1,
			StartDate:       datePtr(2020, 1, 1),
			DiscontinueDate: datePtr(2021, 1, 1),
		},
		{
			PartyID: "P3", RelatedID: "P4", Line: 2,
			StartDate:       datePtr(2021, 6, 1),
			DiscontinueDate: datePtr(2020, 6, 1),
		},
		{
			// Missing either date is not a duration violation.
			PartyID: "P5", RelatedID: "P6", Line: 3,
			StartDate: datePtr(2022, 1, 1),
		},
	}

	flags := NewAuditor(records, DefaultAuditConfig()).DurationFlags()
	require.Len(t, flags, 1)
	assert.Equal(t, types.FlagNegativeDuration, flags[0].Rule)
	assert.Equal(t, "P3", flags[0].PartyID)
	assert.Equal(t, 2, flags[0].Line)
}

func TestDeceasedFlags(t *testing.T) {
	records := []types.Record{
		{
			// Deceased with no discontinue date: still active, flagged.
			PartyID: "P1", RelatedID: "P2", Line: 1,
			PartyDeceased: datePtr(2019, 5, 5),
		},
		{
			// Discontinued before death: not flagged.
			PartyID: "P3", RelatedID: "P4", Line: 2,
			PartyDeceased:   datePtr(2020, 1, 1),
			DiscontinueDate: datePtr(2019, 1, 1),
		},
		{
			// Related party deceased, relationship discontinued after death.
			PartyID: "P5", RelatedID: "P6", Line: 3,
			RelatedDeceased: datePtr(2020, 1, 1),
			DiscontinueDate: datePtr(2021, 1, 1),
		},
	}

	auditor := NewAuditor(records, DefaultAuditConfig())

	primary := auditor.DeceasedPrimary()
	require.Len(t, primary, 1)
	assert.Equal(t, types.FlagDeceasedPrimary, primary[0].Rule)
	assert.Equal(t, "P1", primary[0].PartyID)

	related := auditor.DeceasedRelated()
	require.Len(t, related, 1)
	assert.Equal(t, types.FlagDeceasedRelated, related[0].Rule)
	assert.Equal(t, "P6", related[0].PartyID)
	assert.Equal(t, 3, related[0].Line)
}

func TestRelationshipCounts(t *testing.T) {
	records := []types.Record{
		{PartyID: "hub", RelatedID: "A"},
		{PartyID: "hub", RelatedID: "B"},
		{PartyID: "C", RelatedID: "hub"},
		{PartyID: "A", RelatedID: "B"},
		{PartyID: "loop", RelatedID: "loop"},
	}

	counts := NewAuditor(records, DefaultAuditConfig()).RelationshipCounts()
	require.NotEmpty(t, counts)
	assert.Equal(t, PartyCount{PartyID: "hub", Count: 3}, counts[0])

	byParty := make(map[string]int)
	for _, pc := range counts {
		byParty[pc.PartyID] = pc.Count
	}
	assert.Equal(t, 2, byParty["A"])
	assert.Equal(t, 2, byParty["B"])
	assert.Equal(t, 1, byParty["C"])
	assert.Equal(t, 1, byParty["loop"], "self reference counts once")
}

func TestCountFlags(t *testing.T) {
	var records []types.Record
	for _, other := range []string{"A", "B", "C", "D"} {
		records = append(records, types.Record{PartyID: "hub", RelatedID: other})
	}

	flags := NewAuditor(records, AuditConfig{MinAge: 0, MaxAge: 120, MaxRelationships: 3}).CountFlags()
	require.Len(t, flags, 1)
	assert.Equal(t, types.FlagDuplicateRelationship, flags[0].Rule)
	assert.Equal(t, "hub", flags[0].PartyID)

	assert.Nil(t, NewAuditor(records, AuditConfig{MinAge: 0, MaxAge: 120, MaxRelationships: 0}).CountFlags())
}

func TestAuditRunCombinesAllRules(t *testing.T) {
	records := []types.Record{
		{
			PartyID: "P1", RelatedID: "P2", Line: 1,
			PartyAge:        intPtr(200),
			StartDate:       datePtr(2024, 1, 1),
			DiscontinueDate: datePtr(2023, 1, 1),
			PartyDeceased:   datePtr(2022, 1, 1),
		},
	}

	flags := NewAuditor(records, DefaultAuditConfig()).Run()

	rules := make(map[types.FlagRule]bool)
	for _, f := range flags {
		rules[f.Rule] = true
	}
	assert.True(t, rules[types.FlagAgeOutOfRange])
	assert.True(t, rules[types.FlagNegativeDuration])
	assert.True(t, rules[types.FlagDeceasedPrimary])
}
