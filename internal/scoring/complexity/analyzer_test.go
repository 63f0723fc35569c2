package complexity

import (
	"reflect"
	"strings"
	"testing"

	"tradesmarket/internal/scoring"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(DefaultVocabulary())
}

func TestAnalyzeSimpleTouchUp(t *testing.T) {
	in := Input{
		Title:       "Bedroom refresh",
		Description: "Simple touch-up painting job for a small room",
		Budget:      Budget{Min: 200, Max: 400},
		TradeTypes:  []string{"Painter"},
	}

	got, err := newTestAnalyzer().Analyze(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 5 - 3*0.5 (simple, touch-up, small) - 1 (avg budget 300) - 0.5 (8 words)
	if got.ComplexityScore != 2.0 {
		t.Fatalf("expected complexity 2.0, got %v", got.ComplexityScore)
	}
	if got.RiskLevel != RiskLow {
		t.Fatalf("expected low risk, got %q", got.RiskLevel)
	}
	if got.EstimatedTimeline != "1-2 weeks" {
		t.Fatalf("expected 1-2 weeks, got %q", got.EstimatedTimeline)
	}
	if len(got.Challenges) != 0 {
		t.Fatalf("expected no challenges for low risk, got %v", got.Challenges)
	}
	if got.Recommendations != "Consider hiring Painter professionals with 2+ years of experience." {
		t.Fatalf("unexpected recommendations %q", got.Recommendations)
	}
}

func TestAnalyzeUrgencyOverridesTimelineButNotRisk(t *testing.T) {
	in := Input{
		Title:       "Kitchen",
		Description: "Need this done ASAP, kitchen cabinets and counters",
		Budget:      Budget{Min: 20000, Max: 30000},
		TradeTypes:  []string{"Carpenter"},
	}

	got, err := newTestAnalyzer().Analyze(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.EstimatedTimeline != "1-2 weeks" {
		t.Fatalf("expected urgency override to 1-2 weeks, got %q", got.EstimatedTimeline)
	}
	if got.RiskLevel != RiskHigh {
		t.Fatalf("expected budget-driven high risk, got %q", got.RiskLevel)
	}
	if !reflect.DeepEqual(got.Challenges, []string{"Complex scope", "Requires expert coordination"}) {
		t.Fatalf("unexpected challenges %v", got.Challenges)
	}
}

func TestComplexityCountsRepeatedKeywords(t *testing.T) {
	a := newTestAnalyzer()
	budget := Budget{Min: 2000, Max: 4000}

	once := a.ComplexityScore("renovation", budget)
	thrice := a.ComplexityScore("renovation renovation renovation", budget)

	// 5 + 0.8 - 0.5 (terse) = 5.3; two extra hits add 1.6
	if once != 5.3 {
		t.Fatalf("expected 5.3, got %v", once)
	}
	if thrice != 6.9 {
		t.Fatalf("expected 6.9 for three occurrences, got %v", thrice)
	}
}

func TestComplexityIsCaseInsensitive(t *testing.T) {
	a := newTestAnalyzer()
	budget := Budget{Min: 2000, Max: 4000}
	if a.ComplexityScore("COMMERCIAL Structural", budget) != a.ComplexityScore("commercial structural", budget) {
		t.Fatal("expected keyword matching to ignore case")
	}
}

func TestComplexityBudgetAndVerbosityBands(t *testing.T) {
	a := newTestAnalyzer()
	words := func(n int) string { return strings.TrimSpace(strings.Repeat("word ", n)) }

	cases := []struct {
		name   string
		desc   string
		budget Budget
		want   float64
	}{
		{"mid budget, medium length", words(50), Budget{Min: 2000, Max: 4000}, 5.0},
		{"above 5000", words(50), Budget{Min: 5000, Max: 7000}, 5.5},
		{"above 10000", words(50), Budget{Min: 10000, Max: 14000}, 6.5},
		{"below 1000", words(50), Budget{Min: 100, Max: 900}, 4.0},
		{"exactly 1000 is neutral", words(50), Budget{Min: 1000, Max: 1000}, 5.0},
		{"verbose", words(101), Budget{Min: 2000, Max: 4000}, 6.0},
		{"exactly 100 words is neutral", words(100), Budget{Min: 2000, Max: 4000}, 5.0},
		{"terse", words(29), Budget{Min: 2000, Max: 4000}, 4.5},
	}
	for _, tc := range cases {
		if got := a.ComplexityScore(tc.desc, tc.budget); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestComplexityClampsToRange(t *testing.T) {
	a := newTestAnalyzer()

	low := a.ComplexityScore("simple basic small minor patch touch-up maintenance simple basic small", Budget{Min: 10, Max: 20})
	if low != 1 {
		t.Fatalf("expected floor of 1, got %v", low)
	}

	high := a.ComplexityScore(strings.Repeat("commercial structural renovation ", 10), Budget{Min: 50000, Max: 90000})
	if high != 10 {
		t.Fatalf("expected ceiling of 10, got %v", high)
	}
}

func TestRiskForUsesEitherSignal(t *testing.T) {
	cases := []struct {
		score  float64
		budget Budget
		want   RiskLevel
	}{
		{7, Budget{Min: 100, Max: 100}, RiskHigh},
		{2, Budget{Min: 16000, Max: 16000}, RiskHigh},
		{4, Budget{Min: 100, Max: 100}, RiskMedium},
		{2, Budget{Min: 3001, Max: 3001}, RiskMedium},
		{3.9, Budget{Min: 3000, Max: 3000}, RiskLow},
	}
	for _, tc := range cases {
		if got := RiskFor(tc.score, tc.budget); got != tc.want {
			t.Errorf("RiskFor(%v, %+v) = %q, want %q", tc.score, tc.budget, got, tc.want)
		}
	}
}

func TestTimelineBands(t *testing.T) {
	a := newTestAnalyzer()
	cases := map[float64]string{
		9:   "2-3 months",
		8:   "2-3 months",
		6:   "3-6 weeks",
		4:   "2-4 weeks",
		3.9: "1-2 weeks",
	}
	for score, want := range cases {
		if got := a.Timeline(score, "regular job"); got != want {
			t.Errorf("Timeline(%v) = %q, want %q", score, got, want)
		}
	}
	if got := a.Timeline(9, "this is URGENT"); got != "1-2 weeks" {
		t.Fatalf("expected urgent override, got %q", got)
	}
}

func TestRecommendedSkillsOrderAndLimit(t *testing.T) {
	a := newTestAnalyzer()

	got := a.RecommendedSkills("panel upgrade, inspection and testing", []string{"Electrician"})
	want := []string{
		"Electrical wiring", "Circuit breaker installation", "Lighting systems",
		"Electrical code compliance", "Safety protocols",
		"Upgrade", "Inspection", "Testing",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected skills:\n got %v\nwant %v", got, want)
	}

	capped := a.RecommendedSkills("installation repair design planning", []string{"Plumber", "Roofer"})
	if len(capped) != 8 {
		t.Fatalf("expected 8 skills, got %d: %v", len(capped), capped)
	}
	if capped[0] != "Pipe installation" || capped[5] != "Roof installation" {
		t.Fatalf("expected trade skills first in trade order, got %v", capped)
	}
}

func TestRecommendedSkillsDeduplicates(t *testing.T) {
	vocab := DefaultVocabulary()
	vocab.TradeSkills = map[string][]string{"Tiler": {"Repair", "Grouting"}}
	a := NewAnalyzer(vocab)

	got := a.RecommendedSkills("tile repair", []string{"Tiler", "Tiler"})
	want := []string{"Repair", "Grouting"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRecommendedSkillsUnknownTrade(t *testing.T) {
	got := newTestAnalyzer().RecommendedSkills("nothing to see", []string{"Astronaut"})
	if len(got) != 0 {
		t.Fatalf("expected no skills, got %v", got)
	}
}

func TestCleanDescription(t *testing.T) {
	cases := map[string]string{
		"  fix   the\n\tleaking tap  ": "Fix the leaking tap.",
		"Already done.":                "Already done.",
		"ébéniste needed":              "Ébéniste needed.",
		"":                             ".",
	}
	for in, want := range cases {
		if got := CleanDescription(in); got != want {
			t.Errorf("CleanDescription(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSummaryTemplate(t *testing.T) {
	desc := strings.Repeat("a", 200)
	got, err := newTestAnalyzer().Analyze(Input{
		Title:       "Office Fit-Out",
		Description: desc,
		Budget:      Budget{Min: 12000, Max: 18000},
		TradeTypes:  []string{"Electrician", "Carpenter"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "This project involves Electrician and Carpenter work for office fit-out. " +
		"The estimated budget range is $12,000-$18,000, with an average of $15,000. " +
		strings.Repeat("a", 150) + "..."
	if got.Summary != want {
		t.Fatalf("unexpected summary:\n got %q\nwant %q", got.Summary, want)
	}
	if got.BudgetRange != "$12,000-$18,000" {
		t.Fatalf("unexpected budget range %q", got.BudgetRange)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	in := Input{
		Title:       "Roof",
		Description: "Residential roof repair and gutter installation after storm damage",
		Budget:      Budget{Min: 4000, Max: 9000},
		TradeTypes:  []string{"Roofer"},
		Location:    Location{City: "Austin", State: "TX"},
	}
	a := newTestAnalyzer()
	first, err := a.Analyze(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := a.Analyze(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("analysis not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestAnalyzeRejectsInvertedBudget(t *testing.T) {
	_, err := newTestAnalyzer().Analyze(Input{Description: "x", Budget: Budget{Min: 500, Max: 100}})
	if !scoring.IsInvalidRange(err) {
		t.Fatalf("expected InvalidRangeError, got %v", err)
	}
	_, err = newTestAnalyzer().Analyze(Input{Description: "x", Budget: Budget{Min: -5, Max: 100}})
	if !scoring.IsInvalidRange(err) {
		t.Fatalf("expected InvalidRangeError for negative budget, got %v", err)
	}
}

func TestAnalyzerCopiesVocabulary(t *testing.T) {
	vocab := DefaultVocabulary()
	a := NewAnalyzer(vocab)
	vocab.HighComplexity[0] = "zzz"
	vocab.TradeSkills["Painter"][0] = "Mutated"

	budget := Budget{Min: 2000, Max: 4000}
	if got := a.ComplexityScore("commercial", budget); got != 5.3 {
		t.Fatalf("expected analyzer to keep its own keywords, got %v", got)
	}
	if got := a.RecommendedSkills("", []string{"Painter"}); got[0] != "Interior painting" {
		t.Fatalf("expected analyzer to keep its own skills, got %v", got)
	}
}

func TestParseVocabularyOverridesSections(t *testing.T) {
	data := []byte(`
lowComplexity: [quick]
tradeSkills:
  Tiler: [Grouting, Tile setting]
`)
	vocab, err := ParseVocabulary(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(vocab.LowComplexity, []string{"quick"}) {
		t.Fatalf("expected low keywords override, got %v", vocab.LowComplexity)
	}
	if len(vocab.HighComplexity) != 8 {
		t.Fatalf("expected default high keywords, got %v", vocab.HighComplexity)
	}
	if _, ok := vocab.TradeSkills["Electrician"]; ok {
		t.Fatal("expected trade skills section to be replaced")
	}

	a := NewAnalyzer(vocab)
	if got := a.ComplexityScore("Quick job", Budget{Min: 2000, Max: 4000}); got != 4.0 {
		t.Fatalf("expected substituted vocabulary to apply, got %v", got)
	}
}

func TestParseVocabularyRejectsMalformedYAML(t *testing.T) {
	if _, err := ParseVocabulary([]byte("lowComplexity: [unterminated")); err == nil {
		t.Fatal("expected parse error")
	}
}
