package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePackObsequesPremiumIndividuelle(t *testing.T) {
	d := PackObsequesData{
		Formule:      FormuleBronze,
		AdhesionType: AdhesionIndividuelle,
		Periodicite:  PeriodiciteMensuelle,
	}

	b := CalculatePackObsequesPremium(d)

	assert.Equal(t, int64(36_000), b.PrimeTotale)
	assert.Equal(t, int64(3_000), b.PrimeTTC)
	assert.Equal(t, int64(500_000), b.CapitalGaranti)
	assert.Zero(t, b.CapitalParConjoint)
	assert.Zero(t, b.CapitalParEnfant)
	assert.Zero(t, b.CapitalParAscendant)
}

func TestCalculatePackObsequesPremiumFamilleAscendant(t *testing.T) {
	d := PackObsequesData{
		Formule:          FormuleOr,
		AdhesionType:     AdhesionFamilleAscendant,
		Periodicite:      PeriodiciteTrimestrielle,
		AddConjoint:      true,
		NombreEnfants:    2,
		NombreAscendants: 1,
	}

	b := CalculatePackObsequesPremium(d)

	// 102000 base + 40% conjoint + 2×15% enfants + 1×30% ascendant = 204000.
	assert.Equal(t, int64(204_000), b.PrimeTotale)
	assert.Equal(t, int64(51_000), b.PrimeTTC)
	assert.Equal(t, int64(2_000_000), b.CapitalGaranti)
	assert.Equal(t, int64(1_000_000), b.CapitalParConjoint)
	assert.Equal(t, int64(500_000), b.CapitalParEnfant)
	assert.Equal(t, int64(600_000), b.CapitalParAscendant)
}

func TestCalculatePackObsequesPremiumDependentsIgnoredForIndividuelle(t *testing.T) {
	d := PackObsequesData{
		Formule:          FormuleArgent,
		AdhesionType:     AdhesionIndividuelle,
		Periodicite:      PeriodiciteAnnuelle,
		AddConjoint:      true,
		NombreEnfants:    3,
		NombreAscendants: 2,
	}

	b := CalculatePackObsequesPremium(d)

	assert.Equal(t, int64(60_000), b.PrimeTotale, "dependents do not load an individual adhesion")
	assert.Zero(t, b.CapitalParConjoint)
}

func TestCalculatePackObsequesPremiumAscendantsOnlyUnderFamilleAscendant(t *testing.T) {
	d := PackObsequesData{
		Formule:          FormuleArgent,
		AdhesionType:     AdhesionFamille,
		Periodicite:      PeriodiciteAnnuelle,
		NombreAscendants: 2,
	}

	b := CalculatePackObsequesPremium(d)

	assert.Equal(t, int64(60_000), b.PrimeTotale)
	assert.Zero(t, b.CapitalParAscendant)
}

func TestCalculatePackObsequesPremiumClampsDependentCounts(t *testing.T) {
	d := PackObsequesData{
		Formule:          FormuleBronze,
		AdhesionType:     AdhesionFamilleAscendant,
		Periodicite:      PeriodiciteAnnuelle,
		NombreEnfants:    10, // clamped to 3
		NombreAscendants: -1, // clamped to 0
	}

	b := CalculatePackObsequesPremium(d)

	// 36000 + 3×15% = 52200.
	assert.Equal(t, int64(52_200), b.PrimeTotale)
	assert.Zero(t, b.CapitalParAscendant)
}

func TestCalculatePackObsequesPremiumUnsetFormule(t *testing.T) {
	assert.Equal(t, PackObsequesPremiumBreakdown{}, CalculatePackObsequesPremium(PackObsequesData{}))
}

func TestPeriodicPremium(t *testing.T) {
	assert.Equal(t, int64(5_000), PeriodicPremium(60_000, PeriodiciteMensuelle))
	assert.Equal(t, int64(15_000), PeriodicPremium(60_000, PeriodiciteTrimestrielle))
	assert.Equal(t, int64(30_000), PeriodicPremium(60_000, PeriodiciteSemestrielle))
	assert.Equal(t, int64(60_000), PeriodicPremium(60_000, PeriodiciteAnnuelle))
	assert.Equal(t, int64(60_000), PeriodicPremium(60_000, ""), "unset periodicity is annual")
}
