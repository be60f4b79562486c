package core

// Tariff tables for the auto product. Amounts are FCFA per year.
// RC base rates follow the CIMA fiscal-power brackets; everything downstream
// of primeNette (taxes, FGA, CEDEAO) is derived in pricing_auto.go.

type VehicleUsage string

const (
	UsagePrive         VehicleUsage = "prive"
	UsageProfessionnel VehicleUsage = "professionnel"
)

type EnergyType string

const (
	EnergieEssence    EnergyType = "essence"
	EnergieDiesel     EnergyType = "diesel"
	EnergieElectrique EnergyType = "electrique"
	EnergieHybride    EnergyType = "hybride"
)

type PlanTier string

const (
	PlanBasic    PlanTier = "basic"
	PlanStandard PlanTier = "standard"
	PlanPremium  PlanTier = "premium"
)

// ContractDuration drives the fixed administrative fee only; the net premium
// is not pro-rated by duration.
type ContractDuration string

const (
	Duration1Mois ContractDuration = "1_mois"
	Duration3Mois ContractDuration = "3_mois"
	Duration6Mois ContractDuration = "6_mois"
	Duration1An   ContractDuration = "1_an"
)

// rcBracket is an upper-inclusive fiscal power bound with its annual RC rate.
type rcBracket struct {
	maxCV int
	rate  int64
}

var rcRatesPrive = []rcBracket{
	{2, 37601},
	{6, 45181},
	{10, 51078},
	{14, 65677},
	{1 << 30, 86456},
}

var rcRatesProfessionnel = []rcBracket{
	{2, 56790},
	{6, 71468},
	{10, 84510},
	{14, 104001},
	{1 << 30, 137709},
}

// baseRC returns the annual responsabilité-civile rate for a fiscal power and
// usage. Zero or negative fiscal power yields 0 (no rating input yet).
func baseRC(fiscalPower int, usage VehicleUsage) int64 {
	if fiscalPower <= 0 {
		return 0
	}
	table := rcRatesPrive
	if usage == UsageProfessionnel {
		table = rcRatesProfessionnel
	}
	for _, b := range table {
		if fiscalPower <= b.maxCV {
			return b.rate
		}
	}
	return 0
}

// bonusMalusCoeff maps the named bonus/malus tier to a premium multiplier.
// Unknown or empty tiers are neutral.
var bonusMalusCoeff = map[string]float64{
	"bonus_0":   1.00,
	"bonus_5":   0.95,
	"bonus_10":  0.90,
	"bonus_15":  0.85,
	"bonus_20":  0.80,
	"bonus_25":  0.75,
	"bonus_30":  0.70,
	"bonus_35":  0.65,
	"malus_25":  1.25,
	"malus_50":  1.50,
	"malus_100": 2.00,
}

// BonusMalusCoeff resolves a tier name, defaulting to neutral.
func BonusMalusCoeff(tier string) float64 {
	if c, ok := bonusMalusCoeff[tier]; ok {
		return c
	}
	return 1.0
}

// IsMalus reports whether the tier is a surcharge, and its percentage.
func IsMalus(tier string) (bool, int) {
	switch tier {
	case "malus_25":
		return true, 25
	case "malus_50":
		return true, 50
	case "malus_100":
		return true, 100
	}
	return false, 0
}

// Per-tier rate applied to the insured vehicle value. Basic is RC-only and
// carries no value component; standard covers vol + incendie on the venal
// value; premium covers dommages on max(venal, new).
var planValueRate = map[PlanTier]float64{
	PlanBasic:    0,
	PlanStandard: 0.005,
	PlanPremium:  0.015,
}

// Fixed loading per guarantee pack, on top of the value component.
var planLoading = map[PlanTier]int64{
	PlanBasic:    0,
	PlanStandard: 15000,
	PlanPremium:  35000,
}

// Flat annual fees for additional options, added after the rating formula.
var optionFees = map[string]int64{
	"bris_de_glace":         15000,
	"assistance_0km":        25000,
	"vehicule_remplacement": 30000,
	"protection_conducteur": 20000,
	"defense_recours":       10000,
}

// OptionFee returns the flat fee for an option; unknown options cost nothing.
func OptionFee(option string) int64 {
	return optionFees[option]
}

// fraisAccessoires by contract duration. Annual is the reference; shorter
// contracts pay a reduced fixed fee.
var fraisAccessoiresTable = map[ContractDuration]int64{
	Duration1Mois: 750,
	Duration3Mois: 2250,
	Duration6Mois: 3250,
	Duration1An:   5000,
}

// FraisAccessoires resolves the administrative fee; an unset duration is
// treated as annual.
func FraisAccessoires(d ContractDuration) int64 {
	if f, ok := fraisAccessoiresTable[d]; ok {
		return f
	}
	return fraisAccessoiresTable[Duration1An]
}

const (
	// TaxRate is the single canonical insurance tax rate. The 14.5% figure
	// that circulated on quote labels was a display bug, not a tariff.
	TaxRate = 0.14

	// FGARate and FGAFloor: guarantee-fund levy, never below the floor.
	FGARate  = 0.02
	FGAFloor = 5000

	// CedeaoFee: fixed Brown Card regional liability fee.
	CedeaoFee = 2500
)

// Franchise brackets grant a discount on the value component only.
func franchiseDiscount(franchise int64) float64 {
	switch {
	case franchise >= 250000:
		return 0.90
	case franchise >= 100000:
		return 0.95
	default:
		return 1.0
	}
}

// Anti-theft equipment reduces the theft/damage exposure priced by the value
// component.
const antiTheftDiscount = 0.90
