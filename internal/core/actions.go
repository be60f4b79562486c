package core

// Every wizard mutation is a value of the closed Action union applied through
// Reduce. Reduce is a pure (state, action) -> state transition: it never
// errors, invalid moves leave the state unchanged, and any action touching a
// rating-relevant field recomputes the premium from scratch through the single
// pricing entry point.

type Action interface {
	isAction()
}

// SelectProduct picks the product for this sale; the category derives from
// the code.
type SelectProduct struct {
	Code ProductCode
}

// PatchClient merges client identification fields. Set pointers win; nil
// pointers leave the field untouched. OCR extraction and contact seeding
// both funnel through this same patch shape.
type PatchClient struct {
	FirstName              *string
	LastName               *string
	Phone                  *string
	Email                  *string
	IdentityDocumentType   *string
	IdentityDocumentNumber *string
}

// PatchNeeds merges auto needs-analysis fields.
type PatchNeeds struct {
	Marque               *string
	Modele               *string
	Immatriculation      *string
	AnneeCirculation     *int
	PuissanceFiscale     *int
	NombrePlaces         *int
	Energie              *EnergyType
	Usage                *VehicleUsage
	ValeurVenale         *int64
	ValeurNeuve          *int64
	BonusMalus           *string
	HasClaimHistory      *bool
	AgeConducteur        *int
	AnneesPermis         *int
	EquipementAntivol    *bool
	EquipementRemorquage *bool
}

// PatchCoverage merges coverage fields. AddOption/RemoveOption edit the
// option set; adding an already-present option is a no-op.
type PatchCoverage struct {
	PlanTier        *PlanTier
	AddOption       *string
	RemoveOption    *string
	AssistanceLevel *string
	Franchise       *int64
	Duration        *ContractDuration
}

// PatchObseques merges pack-obsèques fields. A non-nil Beneficiaires slice
// replaces the whole list; SetQuestion records one questionnaire answer.
type PatchObseques struct {
	Formule          *Formule
	AdhesionType     *AdhesionType
	Periodicite      *Periodicite
	EtatCivil        *string
	AddConjoint      *bool
	NombreEnfants    *int
	NombreAscendants *int
	Souscripteur     *PersonneCouverte
	Conjoint         *PersonneCouverte
	ModeDeduction    *string
	Beneficiaires    []Beneficiaire
	SetQuestion      *QuestionAnswer
}

type QuestionAnswer struct {
	ID     string
	Answer bool
}

// SetDocumentProvided flags an underwriting rule's required document as
// uploaded (or retracts it). The file itself lives in an external store.
type SetDocumentProvided struct {
	RuleID   string
	Provided bool
}

// RequestManualReview toggles the operator's escalation request.
type RequestManualReview struct {
	Requested bool
}

// MarkSigned records the signature capture at the signature step.
type MarkSigned struct {
	SignatureRef string
}

// RecordIssuance stores the issued policy number and document references for
// display on the terminal step.
type RecordIssuance struct {
	PolicyNumber string
	Documents    []string
}

// NextStep advances by one when the current step is valid.
type NextStep struct{}

// PrevStep retreats by one.
type PrevStep struct{}

// GoToStep jumps backwards to an already-reached step. Forward jumps are
// no-ops.
type GoToStep struct {
	Step int
}

// SubNextStep and SubPrevStep move the obsèques subscription sub-cursor,
// skipping the Conjoint sub-step when the subscriber is not married.
type SubNextStep struct{}
type SubPrevStep struct{}

// ApplySuggestion applies one of the closed assistant suggestions
// (suggestions.go) and recalculates.
type ApplySuggestion struct {
	ID SuggestionID
}

// SeedFromContact patches client identification from an external contact
// lookup. Generation must match the state's current generation; a seed that
// arrives after a reset is stale and discarded.
type SeedFromContact struct {
	Generation  uint64
	ContactID   string
	ContactType ContactType
	FirstName   string
	LastName    string
	Phone       string
	Email       string
}

// ResetFlow returns to the initial defaults and bumps the generation so
// in-flight seeds for the previous sale cannot land on the new one.
type ResetFlow struct{}

func (SelectProduct) isAction()       {}
func (PatchClient) isAction()         {}
func (PatchNeeds) isAction()          {}
func (PatchCoverage) isAction()       {}
func (PatchObseques) isAction()       {}
func (SetDocumentProvided) isAction() {}
func (RequestManualReview) isAction() {}
func (MarkSigned) isAction()          {}
func (RecordIssuance) isAction()      {}
func (NextStep) isAction()            {}
func (PrevStep) isAction()            {}
func (GoToStep) isAction()            {}
func (SubNextStep) isAction()         {}
func (SubPrevStep) isAction()         {}
func (ApplySuggestion) isAction()     {}
func (SeedFromContact) isAction()     {}
func (ResetFlow) isAction()           {}

// Reduce applies one action and returns the next state.
func Reduce(s WizardState, a Action) WizardState {
	switch act := a.(type) {
	case SelectProduct:
		s.ProductSelection = ProductSelection{
			Category:        CategoryOf(act.Code),
			SelectedProduct: act.Code,
		}
		return recalculate(s)

	case PatchClient:
		s.ClientIdentification = mergeClient(s.ClientIdentification, act)
		return s

	case PatchNeeds:
		s.NeedsAnalysis = mergeNeeds(s.NeedsAnalysis, act)
		return recalculate(s)

	case PatchCoverage:
		s.Coverage = mergeCoverage(s.Coverage, act)
		return recalculate(s)

	case PatchObseques:
		s.PackObseques = mergeObseques(s.PackObseques, act)
		return recalculate(s)

	case SetDocumentProvided:
		docs := cloneBoolMap(s.Underwriting.DocumentsProvided)
		if docs == nil {
			docs = map[string]bool{}
		}
		docs[act.RuleID] = act.Provided
		s.Underwriting.DocumentsProvided = docs
		return s

	case RequestManualReview:
		s.Underwriting.ManualReviewRequested = act.Requested
		return s

	case MarkSigned:
		s.Subscription.Signed = true
		s.Subscription.SignatureRef = act.SignatureRef
		return s

	case RecordIssuance:
		s.Issuance = Issuance{
			PolicyNumber: act.PolicyNumber,
			Documents:    cloneStrings(act.Documents),
		}
		return s

	case NextStep:
		if s.IsTerminal() || !s.StepValid() {
			return s
		}
		s.CurrentStep++
		return s

	case PrevStep:
		if s.CurrentStep > 0 {
			s.CurrentStep--
		}
		return s

	case GoToStep:
		// Backward navigation only: jumping past the furthest reached step
		// is a no-op.
		if act.Step >= 0 && act.Step <= s.CurrentStep {
			s.CurrentStep = act.Step
		}
		return s

	case SubNextStep:
		s.SubStep = nextSubStep(s.SubStep, s.married())
		return s

	case SubPrevStep:
		s.SubStep = prevSubStep(s.SubStep, s.married())
		return s

	case ApplySuggestion:
		mutate, ok := suggestionPatches[act.ID]
		if !ok {
			return s
		}
		return recalculate(mutate(s))

	case SeedFromContact:
		if act.Generation != s.Generation {
			return s
		}
		s.ClientIdentification.FirstName = act.FirstName
		s.ClientIdentification.LastName = act.LastName
		s.ClientIdentification.Phone = act.Phone
		s.ClientIdentification.Email = act.Email
		s.ClientIdentification.LinkedContactID = act.ContactID
		s.ClientIdentification.LinkedContactType = act.ContactType
		return s

	case ResetFlow:
		next := NewWizardState(s.ReferenceYear)
		next.Generation = s.Generation + 1
		return next

	default:
		return s
	}
}

// recalculate refreshes the derived premium fields after a rating-relevant
// mutation. Full recompute, not incremental: the calculators are cheap pure
// functions, so recomputing on every keystroke keeps the premium and its
// inputs trivially consistent.
func recalculate(s WizardState) WizardState {
	s.CalculatedPremium = CalculateAutoPremium(s.NeedsAnalysis, s.Coverage)
	s.ObsequesPremium = CalculatePackObsequesPremium(s.PackObseques)
	return s
}

func (s WizardState) married() bool {
	return s.PackObseques.EtatCivil == "marie"
}

func nextSubStep(cur int, married bool) int {
	n := cur + 1
	if n == SubStepConjoint && !married {
		n++
	}
	if n > subStepCount-1 {
		return subStepCount - 1
	}
	return n
}

func prevSubStep(cur int, married bool) int {
	n := cur - 1
	if n == SubStepConjoint && !married {
		n--
	}
	if n < 0 {
		return 0
	}
	return n
}

func mergeClient(c ClientIdentification, p PatchClient) ClientIdentification {
	if p.FirstName != nil {
		c.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		c.LastName = *p.LastName
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.IdentityDocumentType != nil {
		c.IdentityDocumentType = *p.IdentityDocumentType
	}
	if p.IdentityDocumentNumber != nil {
		c.IdentityDocumentNumber = *p.IdentityDocumentNumber
	}
	return c
}

func mergeNeeds(r AutoRiskProfile, p PatchNeeds) AutoRiskProfile {
	if p.Marque != nil {
		r.Marque = *p.Marque
	}
	if p.Modele != nil {
		r.Modele = *p.Modele
	}
	if p.Immatriculation != nil {
		r.Immatriculation = *p.Immatriculation
	}
	if p.AnneeCirculation != nil {
		r.AnneeCirculation = *p.AnneeCirculation
	}
	if p.PuissanceFiscale != nil {
		r.PuissanceFiscale = *p.PuissanceFiscale
	}
	if p.NombrePlaces != nil {
		r.NombrePlaces = *p.NombrePlaces
	}
	if p.Energie != nil {
		r.Energie = *p.Energie
	}
	if p.Usage != nil {
		r.Usage = *p.Usage
	}
	if p.ValeurVenale != nil {
		r.ValeurVenale = *p.ValeurVenale
	}
	if p.ValeurNeuve != nil {
		r.ValeurNeuve = *p.ValeurNeuve
	}
	if p.BonusMalus != nil {
		r.BonusMalus = *p.BonusMalus
	}
	if p.HasClaimHistory != nil {
		r.HasClaimHistory = *p.HasClaimHistory
	}
	if p.AgeConducteur != nil {
		r.AgeConducteur = *p.AgeConducteur
	}
	if p.AnneesPermis != nil {
		r.AnneesPermis = *p.AnneesPermis
	}
	if p.EquipementAntivol != nil {
		r.EquipementAntivol = *p.EquipementAntivol
	}
	if p.EquipementRemorquage != nil {
		r.EquipementRemorquage = *p.EquipementRemorquage
	}
	return r
}

func mergeCoverage(c Coverage, p PatchCoverage) Coverage {
	if p.PlanTier != nil {
		c.PlanTier = *p.PlanTier
	}
	if p.AddOption != nil {
		c.AdditionalOptions = addOption(c.AdditionalOptions, *p.AddOption)
	}
	if p.RemoveOption != nil {
		c.AdditionalOptions = removeOption(c.AdditionalOptions, *p.RemoveOption)
	}
	if p.AssistanceLevel != nil {
		c.AssistanceLevel = *p.AssistanceLevel
	}
	if p.Franchise != nil {
		c.Franchise = *p.Franchise
	}
	if p.Duration != nil {
		c.Duration = *p.Duration
	}
	return c
}

func mergeObseques(d PackObsequesData, p PatchObseques) PackObsequesData {
	if p.Formule != nil {
		d.Formule = *p.Formule
	}
	if p.AdhesionType != nil {
		d.AdhesionType = *p.AdhesionType
	}
	if p.Periodicite != nil {
		d.Periodicite = *p.Periodicite
	}
	if p.EtatCivil != nil {
		d.EtatCivil = *p.EtatCivil
	}
	if p.AddConjoint != nil {
		d.AddConjoint = *p.AddConjoint
	}
	if p.NombreEnfants != nil {
		d.NombreEnfants = *p.NombreEnfants
	}
	if p.NombreAscendants != nil {
		d.NombreAscendants = *p.NombreAscendants
	}
	if p.Souscripteur != nil {
		d.Souscripteur = *p.Souscripteur
	}
	if p.Conjoint != nil {
		d.Conjoint = *p.Conjoint
	}
	if p.ModeDeduction != nil {
		d.ModeDeduction = *p.ModeDeduction
	}
	if p.Beneficiaires != nil {
		d.Beneficiaires = append([]Beneficiaire(nil), p.Beneficiaires...)
	}
	if p.SetQuestion != nil {
		q := cloneBoolMap(d.Questionnaire)
		if q == nil {
			q = map[string]bool{}
		}
		q[p.SetQuestion.ID] = p.SetQuestion.Answer
		d.Questionnaire = q
	}
	return d
}

func addOption(options []string, opt string) []string {
	for _, o := range options {
		if o == opt {
			return options
		}
	}
	out := append(cloneStrings(options), opt)
	return out
}

func removeOption(options []string, opt string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		if o != opt {
			out = append(out, o)
		}
	}
	return out
}
