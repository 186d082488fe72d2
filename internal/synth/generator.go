// Package synth generates labeled synthetic claim datasets for training.
// The two classes are drawn from deliberately overlapping distributions so
// the resulting dataset is not trivially separable.
package synth

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"fraudlab/internal/domain"
)

// Config holds generator parameters.
type Config struct {
	NSamples   int
	FraudRatio float64
	Seed       uint64
}

// DefaultConfig returns the generator defaults: 10000 samples at a 5%
// fraud ratio.
func DefaultConfig() Config {
	return Config{
		NSamples:   10000,
		FraudRatio: 0.05,
		Seed:       42,
	}
}

// classParams holds the per-class sampling distributions.
type classParams struct {
	amountMu, amountSigma float64
	daysLo, daysHi        int // [lo, hi)
	claimsLambda          float64
	tenureLo, tenureHi    float64
	riskLo, riskHi        float64
}

var (
	nonFraudParams = classParams{
		amountMu: 2000, amountSigma: 1200,
		daysLo: 10, daysHi: 60,
		claimsLambda: 1.5,
		tenureLo:     2, tenureHi: 10,
		riskLo: 0.2, riskHi: 0.8,
	}
	fraudParams = classParams{
		amountMu: 3000, amountSigma: 1500,
		daysLo: 20, daysHi: 70,
		claimsLambda: 2.5,
		tenureLo:     1, tenureHi: 7,
		riskLo: 0.4, riskHi: 0.95,
	}
)

// Generate produces cfg.NSamples claim records with floor(NSamples*FraudRatio)
// fraud rows. The combined rows are shuffled so class order carries no signal,
// then Gaussian noise is added to claim_amount and location_risk_score, and
// the risk score is clamped back to [0,1].
//
// Identical seeds reproduce identical datasets bit-for-bit: every draw comes
// from one shared seeded source and the draw order is fixed.
func Generate(cfg Config) []domain.ClaimRecord {
	src := rand.NewSource(cfg.Seed)
	rng := rand.New(src)

	nFraud := int(float64(cfg.NSamples) * cfg.FraudRatio)
	nNonFraud := cfg.NSamples - nFraud

	records := make([]domain.ClaimRecord, 0, cfg.NSamples)
	records = append(records, generateClass(src, rng, nonFraudParams, 0, 0, nNonFraud)...)
	records = append(records, generateClass(src, rng, fraudParams, 1, int64(nNonFraud), nFraud)...)

	// Shuffle so class order is not positionally informative.
	rng.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})

	// Post-hoc noise to make the features less clean.
	amountNoise := distuv.Normal{Mu: 0, Sigma: 300, Src: src}
	riskNoise := distuv.Normal{Mu: 0, Sigma: 0.05, Src: src}
	for i := range records {
		records[i].ClaimAmount += amountNoise.Rand()
		records[i].LocationRiskScore = clamp01(records[i].LocationRiskScore + riskNoise.Rand())
	}

	return records
}

// generateClass draws n records for one class, ids starting at idOffset.
func generateClass(src rand.Source, rng *rand.Rand, p classParams, label int, idOffset int64, n int) []domain.ClaimRecord {
	amount := distuv.Normal{Mu: p.amountMu, Sigma: p.amountSigma, Src: src}
	claims := distuv.Poisson{Lambda: p.claimsLambda, Src: src}
	tenure := distuv.Uniform{Min: p.tenureLo, Max: p.tenureHi, Src: src}
	risk := distuv.Uniform{Min: p.riskLo, Max: p.riskHi, Src: src}

	records := make([]domain.ClaimRecord, n)
	for i := 0; i < n; i++ {
		records[i] = domain.ClaimRecord{
			ClaimID:             idOffset + int64(i),
			ClaimAmount:         amount.Rand(),
			DaysToSubmit:        p.daysLo + rng.Intn(p.daysHi-p.daysLo),
			PreviousClaimsCount: int(claims.Rand()),
			CustomerTenure:      tenure.Rand(),
			LocationRiskScore:   risk.Rand(),
			ClaimType:           domain.ClaimTypes[rng.Intn(len(domain.ClaimTypes))],
			IsFraud:             label,
		}
	}
	return records
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
