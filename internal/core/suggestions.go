package core

// Assistant suggestions are a closed set: each id maps 1:1 to a deterministic
// state patch, applied through the reducer and followed by a recalculation.
// An id outside the registry is a no-op at this level; the transport layer
// rejects it before it reaches the reducer.

type SuggestionID string

const (
	SuggestionIncreaseFranchise     SuggestionID = "increase_franchise"
	SuggestionDowngradeToStandard   SuggestionID = "downgrade_to_standard"
	SuggestionAddAvantageAssistance SuggestionID = "add_avantage_assistance"
	SuggestionCheckBNS              SuggestionID = "check_bns"
)

// franchiseIncrement is the deductible bump applied per increase_franchise.
const franchiseIncrement = 100000

var suggestionPatches = map[SuggestionID]func(WizardState) WizardState{
	SuggestionIncreaseFranchise: func(s WizardState) WizardState {
		s.Coverage.Franchise += franchiseIncrement
		return s
	},
	SuggestionDowngradeToStandard: func(s WizardState) WizardState {
		s.Coverage.PlanTier = PlanStandard
		return s
	},
	SuggestionAddAvantageAssistance: func(s WizardState) WizardState {
		s.Coverage.AdditionalOptions = addOption(s.Coverage.AdditionalOptions, "assistance_0km")
		s.Coverage.AssistanceLevel = "0km"
		return s
	},
	SuggestionCheckBNS: func(s WizardState) WizardState {
		s.NeedsAnalysis.BonusMalus = "bonus_20"
		return s
	},
}

// KnownSuggestion reports whether id belongs to the closed suggestion set.
func KnownSuggestion(id SuggestionID) bool {
	_, ok := suggestionPatches[id]
	return ok
}
