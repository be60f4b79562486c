package core

import "fmt"

type RuleStatus string

const (
	RuleGreen  RuleStatus = "green"
	RuleYellow RuleStatus = "yellow"
	RuleRed    RuleStatus = "red"
)

// Escalation thresholds for the vehicle-value rule, FCFA.
const (
	vehicleValueRedThreshold    = 50_000_000
	vehicleValueYellowThreshold = 30_000_000
)

// Vehicle age beyond which a premium plan requires a prior expertise.
const oldVehicleAgeYears = 10

// UnderwritingRule is one evaluated rule with its verdict.
type UnderwritingRule struct {
	RuleID             string     `json:"ruleId"`
	Status             RuleStatus `json:"status"`
	Message            string     `json:"message"`
	RequiresDocument   string     `json:"requiresDocument,omitempty"` // document label, empty when none
	RequiresEscalation bool       `json:"requiresEscalation"`
}

const (
	RuleClaimsHistory     = "claims_history"
	RuleVehicleValue      = "vehicle_value"
	RuleBonusMalus        = "bonus_malus"
	RuleProfessionalUsage = "professional_usage"
	RuleOldVehiclePremium = "old_vehicle_premium_plan"
)

// EvaluateUnderwritingRules inspects the accumulated wizard state and returns
// the rule verdicts in display order. Stateless and pure: it is re-evaluated
// in full every time the underwriting step is entered. Conditional rules
// (professional usage, old vehicle on premium plan) are absent from the list
// when they do not apply.
func EvaluateUnderwritingRules(s WizardState) []UnderwritingRule {
	risk := s.NeedsAnalysis
	rules := make([]UnderwritingRule, 0, 5)

	// 1. Claims history
	claims := UnderwritingRule{
		RuleID:  RuleClaimsHistory,
		Status:  RuleGreen,
		Message: "Aucun sinistre déclaré",
	}
	if risk.HasClaimHistory {
		claims.Status = RuleYellow
		claims.Message = "Sinistres déclarés sur les 36 derniers mois"
		claims.RequiresDocument = "Attestation de l'assureur précédent"
	}
	rules = append(rules, claims)

	// 2. Vehicle value
	value := risk.ValeurVenale
	if risk.ValeurNeuve > value {
		value = risk.ValeurNeuve
	}
	vehicle := UnderwritingRule{
		RuleID:  RuleVehicleValue,
		Status:  RuleGreen,
		Message: "Valeur du véhicule dans les normes",
	}
	switch {
	case value > vehicleValueRedThreshold:
		vehicle.Status = RuleRed
		vehicle.Message = fmt.Sprintf("Valeur du véhicule supérieure à %d FCFA : validation direction requise", int64(vehicleValueRedThreshold))
		vehicle.RequiresEscalation = true
	case value > vehicleValueYellowThreshold:
		vehicle.Status = RuleYellow
		vehicle.Message = fmt.Sprintf("Valeur du véhicule supérieure à %d FCFA", int64(vehicleValueYellowThreshold))
		vehicle.RequiresDocument = "Photos du véhicule et carte grise"
	}
	rules = append(rules, vehicle)

	// 3. Bonus / malus
	bns := UnderwritingRule{
		RuleID:  RuleBonusMalus,
		Status:  RuleGreen,
		Message: "Coefficient bonus/malus favorable",
	}
	if malus, pct := IsMalus(risk.BonusMalus); malus {
		if pct >= 50 {
			bns.Status = RuleRed
			bns.Message = fmt.Sprintf("Malus de %d%% : escalade obligatoire", pct)
			bns.RequiresEscalation = true
		} else {
			bns.Status = RuleYellow
			bns.Message = fmt.Sprintf("Malus de %d%% : relevé d'informations requis", pct)
			bns.RequiresDocument = "Relevé d'informations de conduite"
		}
	}
	rules = append(rules, bns)

	// 4. Professional usage. Only emitted when it applies.
	if risk.Usage == UsageProfessionnel {
		rules = append(rules, UnderwritingRule{
			RuleID:           RuleProfessionalUsage,
			Status:           RuleYellow,
			Message:          "Usage professionnel déclaré",
			RequiresDocument: "Justificatif d'activité professionnelle",
		})
	}

	// 5. Premium plan on an old vehicle. Only emitted when it applies.
	if s.Coverage.PlanTier == PlanPremium && risk.AnneeCirculation > 0 {
		age := s.ReferenceYear - risk.AnneeCirculation
		if age > oldVehicleAgeYears {
			rules = append(rules, UnderwritingRule{
				RuleID:           RuleOldVehiclePremium,
				Status:           RuleYellow,
				Message:          fmt.Sprintf("Formule premium sur un véhicule de %d ans", age),
				RequiresDocument: "Rapport d'expertise préalable",
			})
		}
	}

	return rules
}

// AggregateStatus folds the individual verdicts: red dominates, then yellow.
func AggregateStatus(rules []UnderwritingRule) RuleStatus {
	status := RuleGreen
	for _, r := range rules {
		switch r.Status {
		case RuleRed:
			return RuleRed
		case RuleYellow:
			status = RuleYellow
		}
	}
	return status
}

// CanValidate reports whether progression to signature is allowed: no red
// rule, and every rule that requires a document has a satisfied entry in
// docs (keyed by rule id). Red blocks regardless of uploaded documents.
func CanValidate(rules []UnderwritingRule, docs map[string]bool) bool {
	for _, r := range rules {
		if r.Status == RuleRed {
			return false
		}
		if r.RequiresDocument != "" && !docs[r.RuleID] {
			return false
		}
	}
	return true
}
