// Package complexity estimates how difficult a posted project is from its free
// text and budget: a 1-10 complexity score, a risk level, a timeline band and a
// list of recommended skills. Analysis is deterministic; identical input always
// yields identical output.
package complexity

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tradesmarket/internal/scoring"
)

const (
	baseComplexity = 5.0

	highKeywordDelta   = 0.8
	mediumKeywordDelta = 0.3
	lowKeywordDelta    = -0.5

	verboseWordCount = 100
	terseWordCount   = 30

	maxRecommendedSkills = 8
	summaryExcerptRunes  = 150
)

// RiskLevel grades how risky a project is to take on.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Budget is the client's stated price range.
type Budget struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Average returns the midpoint of the range.
func (b Budget) Average() float64 {
	return (b.Min + b.Max) / 2
}

// Location is where the work takes place.
type Location struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// Input is the project data the analyzer reads.
type Input struct {
	Title       string
	Description string
	Budget      Budget
	TradeTypes  []string
	Location    Location
}

// Analysis is the record attached to a project at creation time.
type Analysis struct {
	ComplexityScore    float64   `json:"complexityScore"`
	RiskLevel          RiskLevel `json:"riskLevel"`
	EstimatedTimeline  string    `json:"estimatedTimeline"`
	RecommendedSkills  []string  `json:"recommendedSkills"`
	CleanedDescription string    `json:"cleanedDescription"`
	Summary            string    `json:"summary"`
	BudgetRange        string    `json:"budgetRange"`
	Challenges         []string  `json:"challenges"`
	Recommendations    string    `json:"recommendations"`
}

type riskSignal struct {
	complexity float64
	avgBudget  float64
}

// riskLadder escalates on either signal alone.
var riskLadder = scoring.Ladder[riskSignal, RiskLevel]{
	Rules: []scoring.Rule[riskSignal, RiskLevel]{
		{When: func(s riskSignal) bool { return s.complexity >= 7 || s.avgBudget > 15000 }, Then: RiskHigh},
		{When: func(s riskSignal) bool { return s.complexity >= 4 || s.avgBudget > 3000 }, Then: RiskMedium},
	},
	Else: RiskLow,
}

var timelineLadder = scoring.Ladder[float64, string]{
	Rules: []scoring.Rule[float64, string]{
		{When: scoring.AtLeast(8), Then: "2-3 months"},
		{When: scoring.AtLeast(6), Then: "3-6 weeks"},
		{When: scoring.AtLeast(4), Then: "2-4 weeks"},
	},
	Else: "1-2 weeks",
}

// UrgentTimeline overrides the complexity band when the text asks for speed.
const UrgentTimeline = "1-2 weeks"

var budgetLadder = scoring.Ladder[float64, float64]{
	Rules: []scoring.Rule[float64, float64]{
		{When: func(avg float64) bool { return avg > 10000 }, Then: 1.5},
		{When: func(avg float64) bool { return avg > 5000 }, Then: 0.5},
		{When: func(avg float64) bool { return avg < 1000 }, Then: -1.0},
	},
	Else: 0,
}

var verbosityLadder = scoring.Ladder[int, float64]{
	Rules: []scoring.Rule[int, float64]{
		{When: func(words int) bool { return words > verboseWordCount }, Then: 1.0},
		{When: func(words int) bool { return words < terseWordCount }, Then: -0.5},
	},
	Else: 0,
}

var highRiskChallenges = []string{"Complex scope", "Requires expert coordination"}

// Analyzer runs project analysis against an immutable vocabulary.
type Analyzer struct {
	vocab Vocabulary
}

// NewAnalyzer creates an analyzer over a private copy of vocab.
func NewAnalyzer(vocab Vocabulary) *Analyzer {
	return &Analyzer{vocab: vocab.clone()}
}

// Analyze produces the analysis for in.
func (a *Analyzer) Analyze(in Input) (Analysis, error) {
	if err := validate(in); err != nil {
		return Analysis{}, err
	}

	score := a.ComplexityScore(in.Description, in.Budget)
	risk := RiskFor(score, in.Budget)

	analysis := Analysis{
		ComplexityScore:    score,
		RiskLevel:          risk,
		EstimatedTimeline:  a.Timeline(score, in.Description),
		RecommendedSkills:  a.RecommendedSkills(in.Description, in.TradeTypes),
		CleanedDescription: CleanDescription(in.Description),
		Summary:            summarize(in),
		BudgetRange:        formatBudgetRange(in.Budget),
		Challenges:         []string{},
		Recommendations:    recommend(score, in.TradeTypes),
	}
	if risk == RiskHigh {
		analysis.Challenges = append(analysis.Challenges, highRiskChallenges...)
	}
	return analysis, nil
}

func validate(in Input) error {
	if err := scoring.CheckRange("budget.min", in.Budget.Min, 0, math.Inf(1)); err != nil {
		return err
	}
	return scoring.CheckOrdered("budget", in.Budget.Min, in.Budget.Max)
}

// ComplexityScore returns the 1-10 complexity estimate rounded to one decimal.
// Every keyword occurrence counts, so repeated words compound.
func (a *Analyzer) ComplexityScore(description string, budget Budget) float64 {
	lower := strings.ToLower(description)

	score := baseComplexity
	score += float64(countOccurrences(lower, a.vocab.HighComplexity)) * highKeywordDelta
	score += float64(countOccurrences(lower, a.vocab.MediumComplexity)) * mediumKeywordDelta
	score += float64(countOccurrences(lower, a.vocab.LowComplexity)) * lowKeywordDelta
	score += budgetLadder.Resolve(budget.Average())
	score += verbosityLadder.Resolve(len(strings.Fields(description)))

	return scoring.Round1(scoring.Clamp(score, 1, 10))
}

// RiskFor grades risk from the complexity score and the average budget.
func RiskFor(complexityScore float64, budget Budget) RiskLevel {
	return riskLadder.Resolve(riskSignal{complexity: complexityScore, avgBudget: budget.Average()})
}

// Timeline returns the estimated duration band. Urgency keywords win over
// complexity.
func (a *Analyzer) Timeline(complexityScore float64, description string) string {
	lower := strings.ToLower(description)
	for _, kw := range a.vocab.UrgencyKeywords {
		if strings.Contains(lower, kw) {
			return UrgentTimeline
		}
	}
	return timelineLadder.Resolve(complexityScore)
}

// RecommendedSkills lists trade skills first, then title-cased action keywords
// found in the description, de-duplicated and capped at eight entries.
func (a *Analyzer) RecommendedSkills(description string, tradeTypes []string) []string {
	seen := make(map[string]struct{})
	skills := make([]string, 0, maxRecommendedSkills)
	add := func(skill string) {
		if _, ok := seen[skill]; ok {
			return
		}
		seen[skill] = struct{}{}
		skills = append(skills, skill)
	}

	for _, trade := range tradeTypes {
		for _, skill := range a.vocab.TradeSkills[trade] {
			add(skill)
		}
	}

	lower := strings.ToLower(description)
	caser := cases.Title(language.English)
	for _, kw := range a.vocab.ActionKeywords {
		if strings.Contains(lower, kw) {
			add(caser.String(kw))
		}
	}

	if len(skills) > maxRecommendedSkills {
		skills = skills[:maxRecommendedSkills]
	}
	return skills
}

// CleanDescription collapses whitespace, capitalizes the first character and
// terminates the text with a period.
func CleanDescription(description string) string {
	cleaned := strings.Join(strings.Fields(description), " ")
	if r, size := utf8.DecodeRuneInString(cleaned); size > 0 {
		cleaned = string(unicode.ToUpper(r)) + cleaned[size:]
	}
	if !strings.HasSuffix(cleaned, ".") {
		cleaned += "."
	}
	return cleaned
}

func countOccurrences(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		n += strings.Count(text, kw)
	}
	return n
}

func summarize(in Input) string {
	return fmt.Sprintf(
		"This project involves %s work for %s. The estimated budget range is %s, with an average of %s. %s...",
		strings.Join(in.TradeTypes, " and "),
		strings.ToLower(in.Title),
		formatBudgetRange(in.Budget),
		formatMoney(in.Budget.Average()),
		excerpt(in.Description, summaryExcerptRunes),
	)
}

func recommend(complexityScore float64, tradeTypes []string) string {
	years := "2+"
	if complexityScore >= 6 {
		years = "5+"
	}
	return fmt.Sprintf("Consider hiring %s professionals with %s years of experience.", strings.Join(tradeTypes, " and "), years)
}

func excerpt(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}

func formatBudgetRange(b Budget) string {
	return formatMoney(b.Min) + "-" + formatMoney(b.Max)
}

func formatMoney(amount float64) string {
	p := message.NewPrinter(language.English)
	if amount == math.Trunc(amount) {
		return p.Sprintf("$%d", int64(amount))
	}
	return p.Sprintf("$%.2f", amount)
}
