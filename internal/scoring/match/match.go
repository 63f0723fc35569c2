// Package match rates how well a professional fits a project on a 0-10 scale.
// A result is the sum of six fixed factors whose maxima add up to 10.
package match

import (
	"math"
	"strings"

	"tradesmarket/internal/scoring"
)

// Availability is a professional's current booking state.
type Availability string

const (
	Available   Availability = "Available"
	Busy        Availability = "Busy"
	Unavailable Availability = "Unavailable"
)

// Factor names in evaluation order.
const (
	FactorTrade        = "Trade Match"
	FactorExperience   = "Experience"
	FactorBudgetFit    = "Budget Fit"
	FactorRating       = "Rating"
	FactorAvailability = "Availability"
	FactorLocation     = "Location"
)

// Recommendation labels.
const (
	ExcellentMatch = "Excellent Match"
	GoodMatch      = "Good Match"
	FairMatch      = "Fair Match"
	LowMatch       = "Low Match"
)

// DefaultComplexity is assumed for projects that have not been analyzed.
const DefaultComplexity = 5.0

const (
	maxRating             = 5.0
	hardProjectComplexity = 7.0
	juniorYears           = 5.0
	underqualifiedFactor  = 0.5
)

// Range is a min/max money amount.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Average returns the midpoint of the range.
func (r Range) Average() float64 {
	return (r.Min + r.Max) / 2
}

// Professional is the subset of a profile the engine reads.
type Professional struct {
	ID              string
	Trade           string
	Specialties     []string
	YearsExperience float64
	HourlyRate      Range
	// Rating is the 0-5 review average; 0 means unrated.
	Rating       float64
	Availability Availability
	City         string
}

// Project is the subset of a project the engine reads.
type Project struct {
	ID         string
	TradeTypes []string
	Budget     Range
	// Complexity is nil until the project has been analyzed.
	Complexity *float64
	City       string
}

// Factor is one component of a match result.
type Factor struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Max   float64 `json:"max"`
}

// Result is the match between one professional and one project.
type Result struct {
	Score          float64  `json:"score"`
	Percentage     int      `json:"percentage"`
	Factors        []Factor `json:"factors"`
	Recommendation string   `json:"recommendation"`
}

type factorDef struct {
	name  string
	max   float64
	score func(Professional, Project) float64
}

var factors = []factorDef{
	{FactorTrade, 3.0, tradeScore},
	{FactorExperience, 2.0, experienceScore},
	{FactorBudgetFit, 1.5, budgetFitScore},
	{FactorRating, 2.0, ratingScore},
	{FactorAvailability, 1.0, availabilityScore},
	{FactorLocation, 0.5, locationScore},
}

var experienceLadder = scoring.Ladder[float64, float64]{
	Rules: []scoring.Rule[float64, float64]{
		{When: scoring.AtLeast(10), Then: 2.0},
		{When: scoring.AtLeast(5), Then: 1.5},
		{When: scoring.AtLeast(2), Then: 1.0},
	},
	Else: 0.5,
}

var recommendationLadder = scoring.Ladder[float64, string]{
	Rules: []scoring.Rule[float64, string]{
		{When: scoring.AtLeast(8), Then: ExcellentMatch},
		{When: scoring.AtLeast(6.5), Then: GoodMatch},
		{When: scoring.AtLeast(5), Then: FairMatch},
	},
	Else: LowMatch,
}

var availabilityScores = map[Availability]float64{
	Available: 1.0,
	Busy:      0.5,
}

// MaxTotal returns the sum of all factor maxima.
func MaxTotal() float64 {
	total := 0.0
	for _, f := range factors {
		total += f.max
	}
	return total
}

// Recommendation maps a score to its label.
func Recommendation(score float64) string {
	return recommendationLadder.Resolve(score)
}

// Calculate scores pro against project.
func Calculate(pro Professional, project Project) (Result, error) {
	if err := validate(pro, project); err != nil {
		return Result{}, err
	}

	result := Result{Factors: make([]Factor, 0, len(factors))}
	sum := 0.0
	for _, f := range factors {
		s := f.score(pro, project)
		sum += s
		result.Factors = append(result.Factors, Factor{Name: f.name, Score: s, Max: f.max})
	}

	result.Score = scoring.Round1(scoring.Clamp(sum, 0, MaxTotal()))
	result.Percentage = int(math.Round(result.Score / 10 * 100))
	result.Recommendation = Recommendation(result.Score)
	return result, nil
}

func validate(pro Professional, project Project) error {
	checks := []error{
		scoring.CheckRange("professional.rating", pro.Rating, 0, maxRating),
		scoring.CheckRange("professional.yearsExperience", pro.YearsExperience, 0, math.Inf(1)),
		scoring.CheckRange("professional.hourlyRate.min", pro.HourlyRate.Min, 0, math.Inf(1)),
		scoring.CheckOrdered("professional.hourlyRate", pro.HourlyRate.Min, pro.HourlyRate.Max),
		scoring.CheckRange("project.budget.min", project.Budget.Min, 0, math.Inf(1)),
		scoring.CheckOrdered("project.budget", project.Budget.Min, project.Budget.Max),
	}
	if project.Complexity != nil {
		checks = append(checks, scoring.CheckRange("project.complexity", *project.Complexity, 0, 10))
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

func tradeScore(pro Professional, project Project) float64 {
	for _, trade := range project.TradeTypes {
		if trade == pro.Trade {
			return 3.0
		}
		for _, s := range pro.Specialties {
			if trade == s {
				return 3.0
			}
		}
	}
	return 0
}

func experienceScore(pro Professional, project Project) float64 {
	base := experienceLadder.Resolve(pro.YearsExperience)
	if complexityOf(project) >= hardProjectComplexity && pro.YearsExperience < juniorYears {
		base *= underqualifiedFactor
	}
	return base
}

// budgetFitScore compares the professional's average hourly rate to the
// hourly budget implied by 20 and 10 hours of work. A zero rate falls into
// the lowest tier.
func budgetFitScore(pro Professional, project Project) float64 {
	rate := pro.HourlyRate.Average()
	if rate == 0 {
		return 0.5
	}
	avgBudget := project.Budget.Average()
	switch {
	case rate <= avgBudget/20:
		return 1.5
	case rate <= avgBudget/10:
		return 1.0
	default:
		return 0.5
	}
}

func ratingScore(pro Professional, _ Project) float64 {
	return pro.Rating / maxRating * 2
}

func availabilityScore(pro Professional, _ Project) float64 {
	return availabilityScores[pro.Availability]
}

func locationScore(pro Professional, project Project) float64 {
	if pro.City != "" && strings.EqualFold(pro.City, project.City) {
		return 0.5
	}
	return 0
}

func complexityOf(project Project) float64 {
	if project.Complexity == nil {
		return DefaultComplexity
	}
	return *project.Complexity
}
