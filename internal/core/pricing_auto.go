package core

import "math"

// AutoRiskProfile carries the needs-analysis answers that rate an auto risk.
// All numeric zero values are valid "not filled in yet" inputs: the calculator
// degrades to a zero or minimal premium instead of erroring, so a partially
// completed wizard always has a displayable breakdown.
type AutoRiskProfile struct {
	Marque               string       `json:"marque"`
	Modele               string       `json:"modele"`
	Immatriculation      string       `json:"immatriculation"`
	AnneeCirculation     int          `json:"anneeCirculation"` // first circulation year
	PuissanceFiscale     int          `json:"puissanceFiscale"` // CV
	NombrePlaces         int          `json:"nombrePlaces"`
	Energie              EnergyType   `json:"energie"`
	Usage                VehicleUsage `json:"usage"`
	ValeurVenale         int64        `json:"valeurVenale"` // current market value, FCFA
	ValeurNeuve          int64        `json:"valeurNeuve"`  // new value, FCFA
	BonusMalus           string       `json:"bonusMalus"`   // e.g. bonus_0, malus_50
	HasClaimHistory      bool         `json:"hasClaimHistory"`
	AgeConducteur        int          `json:"ageConducteur"`
	AnneesPermis         int          `json:"anneesPermis"`
	EquipementAntivol    bool         `json:"equipementAntivol"`
	EquipementRemorquage bool         `json:"equipementRemorquage"`
}

// Coverage is the selected guarantee package.
type Coverage struct {
	PlanTier          PlanTier         `json:"planTier"`
	AdditionalOptions []string         `json:"additionalOptions"`
	AssistanceLevel   string           `json:"assistanceLevel,omitempty"`
	Franchise         int64            `json:"franchise"` // deductible, FCFA
	Duration          ContractDuration `json:"duration"`
}

// PremiumBreakdown is the auto premium decomposition. All amounts are FCFA.
type PremiumBreakdown struct {
	PrimeNette       int64 `json:"primeNette"`
	FraisAccessoires int64 `json:"fraisAccessoires"`
	Taxes            int64 `json:"taxes"`
	PrimeTTC         int64 `json:"primeTTC"`
	FGA              int64 `json:"fga"`
	CEDEAO           int64 `json:"cedeao"`
	TotalAPayer      int64 `json:"totalAPayer"`
}

// CalculatedPremium mirrors PremiumBreakdown under the field names older
// consumers expect. Pure mapping, no business logic.
type CalculatedPremium struct {
	NetPremium int64 `json:"netPremium"`
	Fees       int64 `json:"fees"`
	Taxes      int64 `json:"taxes"`
	Total      int64 `json:"total"`

	PrimeNette       int64 `json:"primeNette"`
	FraisAccessoires int64 `json:"fraisAccessoires"`
	PrimeTTC         int64 `json:"primeTTC"`
	FGA              int64 `json:"fga"`
	CEDEAO           int64 `json:"cedeao"`
	TotalAPayer      int64 `json:"totalAPayer"`
}

// CalculateAutoPremium computes the full premium breakdown for an auto risk.
// Pure and total: it never errors, is safe to call on every field update, and
// the same inputs always produce the same breakdown.
//
// primeNette is built in order: RC base rate by fiscal power and usage,
// scaled by bonus/malus and driver surcharges, plus the plan-tier value
// component and loading, plus flat option fees. Taxes, frais, FGA and CEDEAO
// derive from primeNette in a fixed order. The FGA floor applies even when
// primeNette is 0.
func CalculateAutoPremium(risk AutoRiskProfile, cov Coverage) PremiumBreakdown {
	rc := float64(baseRC(risk.PuissanceFiscale, risk.Usage))
	rc *= BonusMalusCoeff(risk.BonusMalus)
	rc *= driverCoeff(risk.AgeConducteur, risk.AnneesPermis)

	primeNette := roundFCFA(rc)
	primeNette += valueComponent(risk, cov)
	primeNette += planLoading[cov.PlanTier]
	for _, opt := range cov.AdditionalOptions {
		primeNette += OptionFee(opt)
	}

	taxes := roundFCFA(float64(primeNette) * TaxRate)
	frais := FraisAccessoires(cov.Duration)
	primeTTC := primeNette + frais + taxes

	fga := roundFCFA(float64(primeNette) * FGARate)
	if fga < FGAFloor {
		fga = FGAFloor
	}

	return PremiumBreakdown{
		PrimeNette:       primeNette,
		FraisAccessoires: frais,
		Taxes:            taxes,
		PrimeTTC:         primeTTC,
		FGA:              fga,
		CEDEAO:           CedeaoFee,
		TotalAPayer:      primeTTC + fga + CedeaoFee,
	}
}

// valueComponent prices the vol/incendie/dommages exposure from the vehicle
// value, scaled by plan tier. Standard rates the venal value; premium rates
// the larger of venal and new value (tous risques).
func valueComponent(risk AutoRiskProfile, cov Coverage) int64 {
	rate := planValueRate[cov.PlanTier]
	if rate == 0 {
		return 0
	}

	value := risk.ValeurVenale
	if cov.PlanTier == PlanPremium && risk.ValeurNeuve > value {
		value = risk.ValeurNeuve
	}
	if value <= 0 {
		return 0
	}

	component := float64(value) * rate
	component *= franchiseDiscount(cov.Franchise)
	if risk.EquipementAntivol {
		component *= antiTheftDiscount
	}
	return roundFCFA(component)
}

// driverCoeff surcharges young drivers and fresh licences. Zero values mean
// the field is not filled in yet and stay neutral.
func driverCoeff(age, licenceYears int) float64 {
	coeff := 1.0
	if age > 0 && age < 25 {
		coeff *= 1.15
	}
	if licenceYears > 0 && licenceYears < 2 {
		coeff *= 1.10
	}
	return coeff
}

// ConvertToCalculatedPremium adapts a breakdown to the legacy shape.
func ConvertToCalculatedPremium(b PremiumBreakdown) CalculatedPremium {
	return CalculatedPremium{
		NetPremium:       b.PrimeNette,
		Fees:             b.FraisAccessoires,
		Taxes:            b.Taxes,
		Total:            b.TotalAPayer,
		PrimeNette:       b.PrimeNette,
		FraisAccessoires: b.FraisAccessoires,
		PrimeTTC:         b.PrimeTTC,
		FGA:              b.FGA,
		CEDEAO:           b.CEDEAO,
		TotalAPayer:      b.TotalAPayer,
	}
}

// roundFCFA rounds to the nearest whole franc. FCFA has no subunit.
func roundFCFA(x float64) int64 {
	return int64(math.Round(x))
}
