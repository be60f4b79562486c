package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/sahelassur/courtage/internal/core"
	"github.com/sahelassur/courtage/internal/platform/phone"
)

// Wizard actions travel as a tagged envelope: {"type": "...", "payload": {...}}.
// The set of types is closed; an unknown type is rejected before anything
// reaches the reducer.

type actionEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type patchClientPayload struct {
	FirstName              *string `json:"firstName"`
	LastName               *string `json:"lastName"`
	Phone                  *string `json:"phone"`
	Email                  *string `json:"email"`
	IdentityDocumentType   *string `json:"identityDocumentType"`
	IdentityDocumentNumber *string `json:"identityDocumentNumber"`
}

type patchNeedsPayload struct {
	Marque               *string            `json:"marque"`
	Modele               *string            `json:"modele"`
	Immatriculation      *string            `json:"immatriculation"`
	AnneeCirculation     *int               `json:"anneeCirculation"`
	PuissanceFiscale     *int               `json:"puissanceFiscale"`
	NombrePlaces         *int               `json:"nombrePlaces"`
	Energie              *core.EnergyType   `json:"energie"`
	Usage                *core.VehicleUsage `json:"usage"`
	ValeurVenale         *int64             `json:"valeurVenale"`
	ValeurNeuve          *int64             `json:"valeurNeuve"`
	BonusMalus           *string            `json:"bonusMalus"`
	HasClaimHistory      *bool              `json:"hasClaimHistory"`
	AgeConducteur        *int               `json:"ageConducteur"`
	AnneesPermis         *int               `json:"anneesPermis"`
	EquipementAntivol    *bool              `json:"equipementAntivol"`
	EquipementRemorquage *bool              `json:"equipementRemorquage"`
}

type patchCoveragePayload struct {
	PlanTier        *core.PlanTier         `json:"planTier"`
	AddOption       *string                `json:"addOption"`
	RemoveOption    *string                `json:"removeOption"`
	AssistanceLevel *string                `json:"assistanceLevel"`
	Franchise       *int64                 `json:"franchise"`
	Duration        *core.ContractDuration `json:"duration"`
}

type patchObsequesPayload struct {
	Formule          *core.Formule          `json:"formule"`
	AdhesionType     *core.AdhesionType     `json:"adhesionType"`
	Periodicite      *core.Periodicite      `json:"periodicite"`
	EtatCivil        *string                `json:"etatCivil"`
	AddConjoint      *bool                  `json:"addConjoint"`
	NombreEnfants    *int                   `json:"nombreEnfants"`
	NombreAscendants *int                   `json:"nombreAscendants"`
	Souscripteur     *core.PersonneCouverte `json:"souscripteur"`
	Conjoint         *core.PersonneCouverte `json:"conjoint"`
	ModeDeduction    *string                `json:"modeDeduction"`
	Beneficiaires    []core.Beneficiaire    `json:"beneficiaires"`
	SetQuestion      *questionPayload       `json:"setQuestion"`
}

type questionPayload struct {
	ID     string `json:"id"`
	Answer bool   `json:"answer"`
}

type selectProductPayload struct {
	Code core.ProductCode `json:"code"`
}

type documentPayload struct {
	RuleID   string `json:"ruleId"`
	Provided bool   `json:"provided"`
}

type manualReviewPayload struct {
	Requested bool `json:"requested"`
}

type markSignedPayload struct {
	SignatureRef string `json:"signatureRef"`
}

type goToStepPayload struct {
	Step int `json:"step"`
}

type applySuggestionPayload struct {
	ID core.SuggestionID `json:"id"`
}

// decodeAction maps one envelope to its core action. phoneRegion is the
// default region for phone fields typed without a country prefix.
func decodeAction(env actionEnvelope, phoneRegion string) (core.Action, error) {
	switch env.Type {
	case "select_product":
		var p selectProductPayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return nil, err
		}
		if p.Code != core.ProductAuto && p.Code != core.ProductPackObseques {
			return nil, fmt.Errorf("%w: unknown product code %q", core.ErrValidation, p.Code)
		}
		return core.SelectProduct{Code: p.Code}, nil

	case "patch_client":
		var p patchClientPayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return nil, err
		}
		// Best-effort normalization: a half-typed number is kept as-is so it
		// never blocks the wizard's keystroke updates.
		if p.Phone != nil {
			normalized := phone.NormalizeOrKeep(*p.Phone, phoneRegion)
			p.Phone = &normalized
		}
		return core.PatchClient{
			FirstName:              p.FirstName,
			LastName:               p.LastName,
			Phone:                  p.Phone,
			Email:                  p.Email,
			IdentityDocumentType:   p.IdentityDocumentType,
			IdentityDocumentNumber: p.IdentityDocumentNumber,
		}, nil

	case "patch_needs":
		var p patchNeedsPayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return nil, err
		}
		return core.PatchNeeds{
			Marque:               p.Marque,
			Modele:               p.Modele,
			Immatriculation:      p.Immatriculation,
			AnneeCirculation:     p.AnneeCirculation,
			PuissanceFiscale:     p.PuissanceFiscale,
			NombrePlaces:         p.NombrePlaces,
			Energie:              p.Energie,
			Usage:                p.Usage,
			ValeurVenale:         p.ValeurVenale,
			ValeurNeuve:          p.ValeurNeuve,
			BonusMalus:           p.BonusMalus,
			HasClaimHistory:      p.HasClaimHistory,
			AgeConducteur:        p.AgeConducteur,
			AnneesPermis:         p.AnneesPermis,
			EquipementAntivol:    p.EquipementAntivol,
			EquipementRemorquage: p.EquipementRemorquage,
		}, nil

	case "patch_coverage":
		var p patchCoveragePayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return nil, err
		}
		return core.PatchCoverage{
			PlanTier:        p.PlanTier,
			AddOption:       p.AddOption,
			RemoveOption:    p.RemoveOption,
			AssistanceLevel: p.AssistanceLevel,
			Franchise:       p.Franchise,
			Duration:        p.Duration,
		}, nil

	case "patch_obseques":
		var p patchObsequesPayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return nil, err
		}
		act := core.PatchObseques{
			Formule:          p.Formule,
			AdhesionType:     p.AdhesionType,
			Periodicite:      p.Periodicite,
			EtatCivil:        p.EtatCivil,
			AddConjoint:      p.AddConjoint,
			NombreEnfants:    p.NombreEnfants,
			NombreAscendants: p.NombreAscendants,
			Souscripteur:     p.Souscripteur,
			Conjoint:         p.Conjoint,
			ModeDeduction:    p.ModeDeduction,
			Beneficiaires:    p.Beneficiaires,
		}
		if p.SetQuestion != nil {
			act.SetQuestion = &core.QuestionAnswer{ID: p.SetQuestion.ID, Answer: p.SetQuestion.Answer}
		}
		return act, nil

	case "set_document_provided":
		var p documentPayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return nil, err
		}
		if p.RuleID == "" {
			return nil, fmt.Errorf("%w: missing rule id", core.ErrValidation)
		}
		return core.SetDocumentProvided{RuleID: p.RuleID, Provided: p.Provided}, nil

	case "request_manual_review":
		var p manualReviewPayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return nil, err
		}
		return core.RequestManualReview{Requested: p.Requested}, nil

	case "mark_signed":
		var p markSignedPayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return nil, err
		}
		return core.MarkSigned{SignatureRef: p.SignatureRef}, nil

	case "next_step":
		return core.NextStep{}, nil

	case "prev_step":
		return core.PrevStep{}, nil

	case "go_to_step":
		var p goToStepPayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return nil, err
		}
		return core.GoToStep{Step: p.Step}, nil

	case "sub_next_step":
		return core.SubNextStep{}, nil

	case "sub_prev_step":
		return core.SubPrevStep{}, nil

	case "apply_suggestion":
		var p applySuggestionPayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return nil, err
		}
		if !core.KnownSuggestion(p.ID) {
			return nil, fmt.Errorf("%w: unknown suggestion %q", core.ErrValidation, p.ID)
		}
		return core.ApplySuggestion{ID: p.ID}, nil

	case "reset_flow":
		return core.ResetFlow{}, nil

	default:
		return nil, fmt.Errorf("%w: unknown action type %q", core.ErrValidation, env.Type)
	}
}

func unmarshalPayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing action payload", core.ErrValidation)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: malformed action payload", core.ErrValidation)
	}
	return nil
}
