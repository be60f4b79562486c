package core

// Pack obsèques: funeral-expense cover with tiered formulas and per-dependent
// capitals. Premiums are annual FCFA; the installment amount is derived from
// the chosen periodicity.

type Formule string

const (
	FormuleBronze Formule = "bronze"
	FormuleArgent Formule = "argent"
	FormuleOr     Formule = "or"
)

type AdhesionType string

const (
	AdhesionIndividuelle     AdhesionType = "individuelle"
	AdhesionFamille          AdhesionType = "famille"
	AdhesionFamilleAscendant AdhesionType = "famille_ascendant"
)

type Periodicite string

const (
	PeriodiciteMensuelle     Periodicite = "mensuelle"
	PeriodiciteTrimestrielle Periodicite = "trimestrielle"
	PeriodiciteSemestrielle  Periodicite = "semestrielle"
	PeriodiciteAnnuelle      Periodicite = "annuelle"
)

// formuleTarif is the base capital and base annual premium for the principal
// insured under one formula.
type formuleTarif struct {
	capital       int64
	primeAnnuelle int64
}

var formuleTarifs = map[Formule]formuleTarif{
	FormuleBronze: {capital: 500000, primeAnnuelle: 36000},
	FormuleArgent: {capital: 1000000, primeAnnuelle: 60000},
	FormuleOr:     {capital: 2000000, primeAnnuelle: 102000},
}

// Per-dependent loadings, as a share of the base annual premium, and the
// covered capital per dependent class, as a share of the formula capital.
const (
	conjointPrimeShare    = 0.40
	enfantPrimeShare      = 0.15
	ascendantPrimeShare   = 0.30
	conjointCapitalShare  = 0.50
	enfantCapitalShare    = 0.25
	ascendantCapitalShare = 0.30

	maxEnfants    = 3
	maxAscendants = 2
)

// Beneficiaire designates who receives the capital.
type Beneficiaire struct {
	Nom          string `json:"nom"`
	Prenom       string `json:"prenom"`
	LienParente  string `json:"lienParente"`
	Telephone    string `json:"telephone"`
	PartCapitale int    `json:"partCapitale"` // percent share
}

// PersonneCouverte holds the identity of the subscriber, spouse or insured.
type PersonneCouverte struct {
	Nom           string `json:"nom"`
	Prenom        string `json:"prenom"`
	DateNaissance string `json:"dateNaissance"` // YYYY-MM-DD
	Telephone     string `json:"telephone"`
	Profession    string `json:"profession"`
}

// PackObsequesData mirrors the obsèques sub-wizard: subscriber, optional
// spouse, dependents, medical questionnaire and payment deduction method.
type PackObsequesData struct {
	Formule          Formule          `json:"formule"`
	AdhesionType     AdhesionType     `json:"adhesionType"`
	Periodicite      Periodicite      `json:"periodicite"`
	EtatCivil        string           `json:"etatCivil"` // celibataire, marie, divorce, veuf
	AddConjoint      bool             `json:"addConjoint"`
	NombreEnfants    int              `json:"nombreEnfants"`    // 0-3
	NombreAscendants int              `json:"nombreAscendants"` // 0-2, famille_ascendant only
	Souscripteur     PersonneCouverte `json:"souscripteur"`
	Conjoint         PersonneCouverte `json:"conjoint"`
	Questionnaire    map[string]bool  `json:"questionnaire"` // medical question id -> answer
	Beneficiaires    []Beneficiaire   `json:"beneficiaires"`
	ModeDeduction    string           `json:"modeDeduction"` // especes, virement, mobile_money
}

// PackObsequesPremiumBreakdown itemizes capital and premium per covered class.
type PackObsequesPremiumBreakdown struct {
	PrimeTTC            int64 `json:"primeTTC"`    // installment for the chosen periodicity
	PrimeTotale         int64 `json:"primeTotale"` // annual total
	CapitalGaranti      int64 `json:"capitalGaranti"`
	CapitalParConjoint  int64 `json:"capitalParConjoint"`
	CapitalParEnfant    int64 `json:"capitalParEnfant"`
	CapitalParAscendant int64 `json:"capitalParAscendant"`
}

// CalculatePackObsequesPremium computes the obsèques premium and covered
// capitals. Pure and total: an unset formula yields a zero breakdown.
// Dependents counts are clamped to the product bounds; ascendants only count
// under famille_ascendant, and the spouse only under a famille adhesion.
func CalculatePackObsequesPremium(d PackObsequesData) PackObsequesPremiumBreakdown {
	tarif, ok := formuleTarifs[d.Formule]
	if !ok {
		return PackObsequesPremiumBreakdown{}
	}

	out := PackObsequesPremiumBreakdown{
		CapitalGaranti: tarif.capital,
	}
	annual := float64(tarif.primeAnnuelle)
	base := float64(tarif.primeAnnuelle)

	if d.AdhesionType == AdhesionFamille || d.AdhesionType == AdhesionFamilleAscendant {
		if d.AddConjoint {
			annual += base * conjointPrimeShare
			out.CapitalParConjoint = roundFCFA(float64(tarif.capital) * conjointCapitalShare)
		}
		enfants := clampCount(d.NombreEnfants, maxEnfants)
		if enfants > 0 {
			annual += base * enfantPrimeShare * float64(enfants)
			out.CapitalParEnfant = roundFCFA(float64(tarif.capital) * enfantCapitalShare)
		}
	}
	if d.AdhesionType == AdhesionFamilleAscendant {
		ascendants := clampCount(d.NombreAscendants, maxAscendants)
		if ascendants > 0 {
			annual += base * ascendantPrimeShare * float64(ascendants)
			out.CapitalParAscendant = roundFCFA(float64(tarif.capital) * ascendantCapitalShare)
		}
	}

	out.PrimeTotale = roundFCFA(annual)
	out.PrimeTTC = PeriodicPremium(out.PrimeTotale, d.Periodicite)
	return out
}

// PeriodicPremium converts an annual premium into the equivalent installment:
// simple division by the number of periods per year. An unset periodicity is
// treated as annual.
func PeriodicPremium(annual int64, p Periodicite) int64 {
	switch p {
	case PeriodiciteMensuelle:
		return annual / 12
	case PeriodiciteTrimestrielle:
		return annual / 4
	case PeriodiciteSemestrielle:
		return annual / 2
	default:
		return annual
	}
}

func clampCount(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}
