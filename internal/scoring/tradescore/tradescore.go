// Package tradescore computes the AI Trade Score: a professional's composite
// 0-10 quality rating built from verification, reliability, quality, safety and
// growth signals.
package tradescore

import (
	"fmt"
	"math"

	"tradesmarket/internal/scoring"
)

// NeutralSubScore is the prior assigned to every sub-score of a new professional.
const NeutralSubScore = 5.0

const (
	growthPerCertification = 1.0
	growthPerYear          = 0.2
	weightSumTolerance     = 1e-9
)

// Profile is the subset of a professional that feeds the trade score.
type Profile struct {
	SkillVerification   float64 `json:"skillVerification"`
	Reliability         float64 `json:"reliability"`
	Quality             float64 `json:"quality"`
	Safety              float64 `json:"safety"`
	CertificationsCount int     `json:"certificationsCount"`
	YearsExperience     float64 `json:"yearsExperience"`
}

// NewProfile returns a profile with neutral sub-scores and no growth signals.
func NewProfile() Profile {
	return Profile{
		SkillVerification: NeutralSubScore,
		Reliability:       NeutralSubScore,
		Quality:           NeutralSubScore,
		Safety:            NeutralSubScore,
	}
}

// Weights is the per-component weight table. The five weights must sum to 1.0.
type Weights struct {
	SkillVerification float64
	Reliability       float64
	Quality           float64
	Safety            float64
	Growth            float64
}

// DefaultWeights returns the production weight table.
func DefaultWeights() Weights {
	return Weights{
		SkillVerification: 0.30,
		Reliability:       0.25,
		Quality:           0.25,
		Safety:            0.10,
		Growth:            0.10,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.SkillVerification + w.Reliability + w.Quality + w.Safety + w.Growth
}

// Validate checks that no weight is negative and that the table sums to 1.0.
func (w Weights) Validate() error {
	for _, v := range []float64{w.SkillVerification, w.Reliability, w.Quality, w.Safety, w.Growth} {
		if v < 0 {
			return fmt.Errorf("negative trade score weight: %g", v)
		}
	}
	if math.Abs(w.Sum()-1.0) > weightSumTolerance {
		return fmt.Errorf("trade score weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	return nil
}

// Breakdown explains a computed total.
type Breakdown struct {
	SkillVerification float64 `json:"skillVerification"`
	Reliability       float64 `json:"reliability"`
	Quality           float64 `json:"quality"`
	Safety            float64 `json:"safety"`
	Growth            float64 `json:"growth"`
	Total             float64 `json:"total"`
}

// Engine computes trade scores with a fixed weight table.
type Engine struct {
	weights Weights
}

// NewEngine creates an engine after validating the weight table.
func NewEngine(weights Weights) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Engine{weights: weights}, nil
}

// Default returns an engine using DefaultWeights.
func Default() *Engine {
	return &Engine{weights: DefaultWeights()}
}

// Weights returns the engine's weight table.
func (e *Engine) Weights() Weights {
	return e.weights
}

// GrowthScore derives the growth component from certifications and experience.
func GrowthScore(p Profile) float64 {
	return scoring.Clamp(float64(p.CertificationsCount)*growthPerCertification+p.YearsExperience*growthPerYear, 0, 10)
}

// ComputeTotal returns the composite score for p, rounded to one decimal.
// It has no side effects: persisting the total is the caller's job.
func (e *Engine) ComputeTotal(p Profile) (float64, error) {
	b, err := e.Explain(p)
	if err != nil {
		return 0, err
	}
	return b.Total, nil
}

// Explain returns the growth component alongside the total.
func (e *Engine) Explain(p Profile) (Breakdown, error) {
	if err := Validate(p); err != nil {
		return Breakdown{}, err
	}

	growth := GrowthScore(p)
	total := scoring.WeightedSum([]scoring.Term{
		{Value: p.SkillVerification, Weight: e.weights.SkillVerification},
		{Value: p.Reliability, Weight: e.weights.Reliability},
		{Value: p.Quality, Weight: e.weights.Quality},
		{Value: p.Safety, Weight: e.weights.Safety},
		{Value: growth, Weight: e.weights.Growth},
	})

	return Breakdown{
		SkillVerification: p.SkillVerification,
		Reliability:       p.Reliability,
		Quality:           p.Quality,
		Safety:            p.Safety,
		Growth:            scoring.Round1(growth),
		Total:             scoring.Clamp(scoring.Round1(total), 0, 10),
	}, nil
}

// Validate rejects sub-scores outside [0,10] and negative growth inputs.
func Validate(p Profile) error {
	checks := []struct {
		field string
		value float64
	}{
		{"skillVerification", p.SkillVerification},
		{"reliability", p.Reliability},
		{"quality", p.Quality},
		{"safety", p.Safety},
	}
	for _, c := range checks {
		if err := scoring.CheckRange(c.field, c.value, 0, 10); err != nil {
			return err
		}
	}
	if p.CertificationsCount < 0 {
		return &scoring.InvalidRangeError{Field: "certificationsCount", Value: float64(p.CertificationsCount), Min: 0, Max: math.Inf(1)}
	}
	return scoring.CheckRange("yearsExperience", p.YearsExperience, 0, math.Inf(1))
}

// UpdateReliability folds a review's timeliness rating (1-5) into the current
// reliability sub-score. History and the newest signal are weighted 50/50.
func UpdateReliability(current float64, timeliness int) (float64, error) {
	if err := scoring.CheckRange("reliability", current, 0, 10); err != nil {
		return 0, err
	}
	if err := scoring.CheckRange("timeliness", float64(timeliness), 1, 5); err != nil {
		return 0, err
	}
	return scoring.Clamp((current+float64(timeliness)*2)/2, 0, 10), nil
}

// QualityFromRating maps an average star rating (0-5) onto the 0-10 quality scale.
func QualityFromRating(rating float64) float64 {
	return scoring.Clamp(rating*2, 0, 10)
}
