package core

// The guided-sales wizard is a linear step sequence per product, grouped into
// coarse phases. All of the per-step form data lives in one WizardState value;
// every mutation goes through Reduce (actions.go) so a sale can be replayed
// deterministically from its action log.

type Phase string

const (
	PhasePreparation  Phase = "preparation"
	PhaseConstruction Phase = "construction"
	PhaseSouscription Phase = "souscription"
	PhaseFinalisation Phase = "finalisation"
)

// Auto flow steps, in order.
const (
	StepProduit      = 0
	StepClient       = 1
	StepBesoins      = 2
	StepCouverture   = 3
	StepSouscription = 4 // underwriting gate
	StepSignature    = 5
	StepEmission     = 6 // terminal

	stepCount = 7
)

// Obsèques subscription sub-steps. Conjoint is skipped entirely when the
// subscriber is not married.
const (
	SubStepSouscripteur  = 0
	SubStepAssure        = 1
	SubStepConjoint      = 2
	SubStepQuestionnaire = 3
	SubStepBeneficiaires = 4
	SubStepRecapitulatif = 5

	subStepCount = 6
)

type ContactType string

const (
	ContactProspect ContactType = "prospect"
	ContactClient   ContactType = "client"
)

// ProductSelection is the outcome of the very first wizard step.
type ProductSelection struct {
	Category        ProductCategory `json:"category"`
	SelectedProduct ProductCode     `json:"selectedProduct"`
}

// ClientIdentification holds the KYC fields collected in step 1, whether
// typed, extracted by OCR, or seeded from an existing contact record.
type ClientIdentification struct {
	FirstName              string      `json:"firstName"`
	LastName               string      `json:"lastName"`
	Phone                  string      `json:"phone"`
	Email                  string      `json:"email"`
	IdentityDocumentType   string      `json:"identityDocumentType"`
	IdentityDocumentNumber string      `json:"identityDocumentNumber"`
	LinkedContactID        string      `json:"linkedContactId,omitempty"`
	LinkedContactType      ContactType `json:"linkedContactType,omitempty"`
}

// Underwriting tracks what the operator has provided at the underwriting
// step. Document storage itself is external; only the satisfied flag per
// rule id lives here.
type Underwriting struct {
	DocumentsProvided     map[string]bool `json:"documentsProvided"`
	ManualReviewRequested bool            `json:"manualReviewRequested"`
}

// Later-phase records. Opaque to the pricing and underwriting core; captured
// for display and for the issuance snapshot.
type Subscription struct {
	PaymentMethod string `json:"paymentMethod,omitempty"`
	MobileWallet  string `json:"mobileWallet,omitempty"`
	Signed        bool   `json:"signed"`
	SignatureRef  string `json:"signatureRef,omitempty"`
}

type Issuance struct {
	PolicyNumber string   `json:"policyNumber,omitempty"`
	Documents    []string `json:"documents,omitempty"`
}

// WizardState is the aggregate root for one in-progress sale. One sales
// session owns exactly one WizardState; nothing outside Reduce mutates it.
type WizardState struct {
	CurrentStep int `json:"currentStep"`
	SubStep     int `json:"subStep"`

	// ReferenceYear anchors vehicle-age rules so evaluation stays a pure
	// function of the state. Set once at session creation.
	ReferenceYear int `json:"referenceYear"`

	// Generation increments on every reset. A SeedFromContact carrying a
	// stale generation is discarded, so a lookup started for a previous
	// sale can never patch the next one.
	Generation uint64 `json:"generation"`

	ProductSelection     ProductSelection             `json:"productSelection"`
	ClientIdentification ClientIdentification         `json:"clientIdentification"`
	NeedsAnalysis        AutoRiskProfile              `json:"needsAnalysis"`
	Coverage             Coverage                     `json:"coverage"`
	CalculatedPremium    PremiumBreakdown             `json:"calculatedPremium"`
	ObsequesPremium      PackObsequesPremiumBreakdown `json:"obsequesPremium"`
	Underwriting         Underwriting                 `json:"underwriting"`
	Subscription         Subscription                 `json:"subscription"`
	Issuance             Issuance                     `json:"issuance"`
	PackObseques         PackObsequesData             `json:"packObsequesData"`
}

// NewWizardState returns the initial default state. This is the valid
// starting point; no construction-time validation occurs.
func NewWizardState(referenceYear int) WizardState {
	s := WizardState{
		ReferenceYear: referenceYear,
		Coverage: Coverage{
			PlanTier: PlanStandard,
			Duration: Duration1An,
		},
		Underwriting: Underwriting{
			DocumentsProvided: map[string]bool{},
		},
		PackObseques: PackObsequesData{
			AdhesionType: AdhesionIndividuelle,
			Periodicite:  PeriodiciteMensuelle,
		},
	}
	s.CalculatedPremium = CalculateAutoPremium(s.NeedsAnalysis, s.Coverage)
	return s
}

// CurrentPhase derives the coarse phase from the step cursor.
func (s WizardState) CurrentPhase() Phase {
	switch {
	case s.CurrentStep <= StepClient:
		return PhasePreparation
	case s.CurrentStep <= StepCouverture:
		return PhaseConstruction
	case s.CurrentStep <= StepSignature:
		return PhaseSouscription
	default:
		return PhaseFinalisation
	}
}

// IsTerminal reports whether the wizard reached the émission step; from there
// the only transition left is a reset.
func (s WizardState) IsTerminal() bool {
	return s.CurrentStep == StepEmission
}

// StepValid is the per-step gating predicate: Next is a no-op until the
// current step's required fields are filled. Errors never surface here;
// an incomplete step simply cannot be advanced past.
func (s WizardState) StepValid() bool {
	switch s.CurrentStep {
	case StepProduit:
		return s.ProductSelection.SelectedProduct != ""
	case StepClient:
		ci := s.ClientIdentification
		return ci.FirstName != "" && ci.LastName != "" && ci.Phone != ""
	case StepBesoins:
		if s.ProductSelection.SelectedProduct == ProductPackObseques {
			return s.PackObseques.Formule != ""
		}
		return s.NeedsAnalysis.PuissanceFiscale > 0 && s.NeedsAnalysis.Usage != ""
	case StepCouverture:
		return s.Coverage.PlanTier != ""
	case StepSouscription:
		rules := EvaluateUnderwritingRules(s)
		return CanValidate(rules, s.Underwriting.DocumentsProvided)
	case StepSignature:
		return s.Subscription.Signed
	default:
		return false
	}
}

// Snapshot returns a deep copy of the state, detaching the maps and slices
// shared with the receiver. Used when persisting a quote so later edits to
// the live session cannot leak into the stored snapshot.
func (s WizardState) Snapshot() WizardState {
	out := s
	out.Underwriting.DocumentsProvided = cloneBoolMap(s.Underwriting.DocumentsProvided)
	out.Coverage.AdditionalOptions = cloneStrings(s.Coverage.AdditionalOptions)
	out.PackObseques.Questionnaire = cloneBoolMap(s.PackObseques.Questionnaire)
	out.PackObseques.Beneficiaires = append([]Beneficiaire(nil), s.PackObseques.Beneficiaires...)
	out.Issuance.Documents = cloneStrings(s.Issuance.Documents)
	return out
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	if m == nil {
		return nil
	}
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
