package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanAutoState() WizardState {
	s := NewWizardState(2026)
	s = Reduce(s, SelectProduct{Code: ProductAuto})
	return s
}

func findRule(t *testing.T, rules []UnderwritingRule, id string) UnderwritingRule {
	t.Helper()
	for _, r := range rules {
		if r.RuleID == id {
			return r
		}
	}
	t.Fatalf("rule %s not in verdict", id)
	return UnderwritingRule{}
}

func hasRule(rules []UnderwritingRule, id string) bool {
	for _, r := range rules {
		if r.RuleID == id {
			return true
		}
	}
	return false
}

func TestEvaluateUnderwritingRulesAllGreen(t *testing.T) {
	rules := EvaluateUnderwritingRules(cleanAutoState())

	require.Len(t, rules, 3, "conditional rules absent when inapplicable")
	for _, r := range rules {
		assert.Equal(t, RuleGreen, r.Status, "rule %s", r.RuleID)
		assert.False(t, r.RequiresEscalation)
	}
	assert.Equal(t, RuleGreen, AggregateStatus(rules))
	assert.True(t, CanValidate(rules, nil))
}

func TestEvaluateUnderwritingRulesClaimsHistory(t *testing.T) {
	s := cleanAutoState()
	s.NeedsAnalysis.HasClaimHistory = true

	rules := EvaluateUnderwritingRules(s)
	claims := findRule(t, rules, RuleClaimsHistory)

	assert.Equal(t, RuleYellow, claims.Status)
	assert.NotEmpty(t, claims.RequiresDocument)
	assert.Equal(t, RuleYellow, AggregateStatus(rules))

	assert.False(t, CanValidate(rules, nil), "yellow needs its document")
	assert.True(t, CanValidate(rules, map[string]bool{RuleClaimsHistory: true}))
}

func TestEvaluateUnderwritingRulesVehicleValueThresholds(t *testing.T) {
	s := cleanAutoState()

	s.NeedsAnalysis.ValeurVenale = 30_000_000
	assert.Equal(t, RuleGreen, findRule(t, EvaluateUnderwritingRules(s), RuleVehicleValue).Status,
		"threshold itself stays green")

	s.NeedsAnalysis.ValeurVenale = 35_000_000
	yellow := findRule(t, EvaluateUnderwritingRules(s), RuleVehicleValue)
	assert.Equal(t, RuleYellow, yellow.Status)
	assert.NotEmpty(t, yellow.RequiresDocument)

	s.NeedsAnalysis.ValeurVenale = 55_000_000
	red := findRule(t, EvaluateUnderwritingRules(s), RuleVehicleValue)
	assert.Equal(t, RuleRed, red.Status)
	assert.True(t, red.RequiresEscalation)
}

func TestEvaluateUnderwritingRulesValueUsesHigherOfVenalAndNeuve(t *testing.T) {
	s := cleanAutoState()
	s.NeedsAnalysis.ValeurVenale = 10_000_000
	s.NeedsAnalysis.ValeurNeuve = 52_000_000

	rule := findRule(t, EvaluateUnderwritingRules(s), RuleVehicleValue)
	assert.Equal(t, RuleRed, rule.Status)
}

func TestEvaluateUnderwritingRulesMalusEscalation(t *testing.T) {
	s := cleanAutoState()

	s.NeedsAnalysis.BonusMalus = "malus_25"
	bns := findRule(t, EvaluateUnderwritingRules(s), RuleBonusMalus)
	assert.Equal(t, RuleYellow, bns.Status)
	assert.NotEmpty(t, bns.RequiresDocument)

	s.NeedsAnalysis.BonusMalus = "malus_50"
	bns = findRule(t, EvaluateUnderwritingRules(s), RuleBonusMalus)
	assert.Equal(t, RuleRed, bns.Status)
	assert.True(t, bns.RequiresEscalation)
}

func TestEvaluateUnderwritingRulesConditionalRules(t *testing.T) {
	s := cleanAutoState()
	assert.False(t, hasRule(EvaluateUnderwritingRules(s), RuleProfessionalUsage))
	assert.False(t, hasRule(EvaluateUnderwritingRules(s), RuleOldVehiclePremium))

	s.NeedsAnalysis.Usage = UsageProfessionnel
	pro := findRule(t, EvaluateUnderwritingRules(s), RuleProfessionalUsage)
	assert.Equal(t, RuleYellow, pro.Status)

	s.Coverage.PlanTier = PlanPremium
	s.NeedsAnalysis.AnneeCirculation = 2010 // 16 years at the 2026 reference
	old := findRule(t, EvaluateUnderwritingRules(s), RuleOldVehiclePremium)
	assert.Equal(t, RuleYellow, old.Status)

	// Exactly at the age bound the rule stays silent.
	s.NeedsAnalysis.AnneeCirculation = 2016
	assert.False(t, hasRule(EvaluateUnderwritingRules(s), RuleOldVehiclePremium))
}

func TestCanValidateRedBlocksRegardlessOfDocuments(t *testing.T) {
	s := cleanAutoState()
	s.NeedsAnalysis.BonusMalus = "malus_100"

	rules := EvaluateUnderwritingRules(s)
	docs := map[string]bool{}
	for _, r := range rules {
		docs[r.RuleID] = true
	}

	assert.False(t, CanValidate(rules, docs))
}

func TestEvaluateUnderwritingRulesIsPure(t *testing.T) {
	s := cleanAutoState()
	s.NeedsAnalysis.ValeurVenale = 35_000_000
	s.NeedsAnalysis.HasClaimHistory = true

	first := EvaluateUnderwritingRules(s)
	second := EvaluateUnderwritingRules(s)
	assert.Equal(t, first, second)
}
