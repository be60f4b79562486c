package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateAutoPremiumStandardPlan(t *testing.T) {
	risk := AutoRiskProfile{
		PuissanceFiscale: 7,
		Usage:            UsagePrive,
		ValeurVenale:     7_000_000,
		BonusMalus:       "bonus_0",
		AgeConducteur:    30,
		AnneesPermis:     5,
	}
	cov := Coverage{
		PlanTier: PlanStandard,
		Duration: Duration1An,
	}

	b := CalculateAutoPremium(risk, cov)

	// RC 51078 (7 CV privé) + value 35000 (0.5% of venal) + loading 15000.
	assert.Equal(t, int64(101_078), b.PrimeNette)
	assert.Equal(t, int64(14_151), b.Taxes)
	assert.Equal(t, int64(5_000), b.FraisAccessoires)
	assert.Equal(t, int64(120_229), b.PrimeTTC)
	assert.Equal(t, int64(5_000), b.FGA, "FGA floor applies when the rate is below it")
	assert.Equal(t, int64(2_500), b.CEDEAO)
	assert.Equal(t, int64(127_729), b.TotalAPayer)
}

func TestCalculateAutoPremiumEmptyInputs(t *testing.T) {
	// A blank risk must still produce a displayable breakdown.
	b := CalculateAutoPremium(AutoRiskProfile{}, Coverage{PlanTier: PlanStandard, Duration: Duration1An})

	assert.Equal(t, int64(15_000), b.PrimeNette, "only the standard plan loading remains")
	assert.Equal(t, int64(5_000), b.FGA)
	assert.Equal(t, b.PrimeTTC+b.FGA+b.CEDEAO, b.TotalAPayer)
}

func TestCalculateAutoPremiumLoadedPremiumPlan(t *testing.T) {
	risk := AutoRiskProfile{
		PuissanceFiscale:  12,
		Usage:             UsageProfessionnel,
		ValeurVenale:      10_000_000,
		ValeurNeuve:       15_000_000,
		BonusMalus:        "malus_50",
		AgeConducteur:     23,
		AnneesPermis:      1,
		EquipementAntivol: true,
	}
	cov := Coverage{
		PlanTier:          PlanPremium,
		AdditionalOptions: []string{"bris_de_glace", "assistance_0km"},
		Franchise:         250_000,
		Duration:          Duration3Mois,
	}

	b := CalculateAutoPremium(risk, cov)

	// RC: 104001 × 1.50 (malus) × 1.15 (age) × 1.10 (fresh licence) = 197342.
	// Value: 15M × 1.5% × 0.90 (franchise) × 0.90 (antivol) = 182250.
	// Plus 35000 premium loading and 40000 of options.
	require.Equal(t, int64(454_592), b.PrimeNette)
	assert.Equal(t, int64(63_643), b.Taxes)
	assert.Equal(t, int64(2_250), b.FraisAccessoires)
	assert.Equal(t, int64(520_485), b.PrimeTTC)
	assert.Equal(t, int64(9_092), b.FGA, "FGA above the floor tracks the rate on primeNette")
	assert.Equal(t, int64(532_077), b.TotalAPayer)
}

func TestCalculateAutoPremiumBasicPlanIgnoresVehicleValue(t *testing.T) {
	risk := AutoRiskProfile{
		PuissanceFiscale: 5,
		Usage:            UsagePrive,
		ValeurVenale:     40_000_000,
	}

	basic := CalculateAutoPremium(risk, Coverage{PlanTier: PlanBasic, Duration: Duration1An})
	assert.Equal(t, int64(45_181), basic.PrimeNette, "basic is RC only, no value component")
}

func TestCalculateAutoPremiumBonusReducesRC(t *testing.T) {
	risk := AutoRiskProfile{PuissanceFiscale: 7, Usage: UsagePrive}
	cov := Coverage{PlanTier: PlanBasic, Duration: Duration1An}

	neutral := CalculateAutoPremium(risk, cov)

	risk.BonusMalus = "bonus_35"
	discounted := CalculateAutoPremium(risk, cov)

	assert.Less(t, discounted.PrimeNette, neutral.PrimeNette)
	assert.Equal(t, int64(33_201), discounted.PrimeNette, "51078 × 0.65 rounded")
}

func TestCalculateAutoPremiumUnknownBonusTierIsNeutral(t *testing.T) {
	risk := AutoRiskProfile{PuissanceFiscale: 7, Usage: UsagePrive, BonusMalus: "bonus_999"}
	cov := Coverage{PlanTier: PlanBasic, Duration: Duration1An}

	got := CalculateAutoPremium(risk, cov)
	risk.BonusMalus = ""
	want := CalculateAutoPremium(risk, cov)

	assert.Equal(t, want, got)
}

func TestFraisAccessoiresByDuration(t *testing.T) {
	cases := []struct {
		duration ContractDuration
		want     int64
	}{
		{Duration1Mois, 750},
		{Duration3Mois, 2250},
		{Duration6Mois, 3250},
		{Duration1An, 5000},
		{"", 5000}, // unset falls back to annual
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FraisAccessoires(tc.duration), "duration %q", tc.duration)
	}
}

func TestOptionFeeUnknownOptionIsFree(t *testing.T) {
	assert.Equal(t, int64(0), OptionFee("teleportation"))
	assert.Equal(t, int64(25_000), OptionFee("assistance_0km"))
}

func TestConvertToCalculatedPremiumMirrorsBreakdown(t *testing.T) {
	b := CalculateAutoPremium(AutoRiskProfile{
		PuissanceFiscale: 7,
		Usage:            UsagePrive,
		ValeurVenale:     7_000_000,
	}, Coverage{PlanTier: PlanStandard, Duration: Duration1An})

	legacy := ConvertToCalculatedPremium(b)

	assert.Equal(t, b.PrimeNette, legacy.PrimeNette)
	assert.Equal(t, b.FraisAccessoires, legacy.FraisAccessoires)
	assert.Equal(t, b.Taxes, legacy.Taxes)
	assert.Equal(t, b.PrimeTTC, legacy.PrimeTTC)
	assert.Equal(t, b.FGA, legacy.FGA)
	assert.Equal(t, b.CEDEAO, legacy.CEDEAO)
	assert.Equal(t, b.TotalAPayer, legacy.TotalAPayer)

	// Alias fields carry the same amounts under the older names.
	assert.Equal(t, b.PrimeNette, legacy.NetPremium)
	assert.Equal(t, b.FraisAccessoires, legacy.Fees)
	assert.Equal(t, b.TotalAPayer, legacy.Total)
}
