package match

import (
	"testing"

	"tradesmarket/internal/scoring"
)

func ptr(v float64) *float64 { return &v }

func baseProfessional() Professional {
	return Professional{
		ID:              "pro-1",
		Trade:           "Electrician",
		YearsExperience: 12,
		HourlyRate:      Range{Min: 50, Max: 50},
		Rating:          5,
		Availability:    Available,
		City:            "Austin",
	}
}

func baseProject() Project {
	return Project{
		ID:         "project-1",
		TradeTypes: []string{"Electrician"},
		Budget:     Range{Min: 10000, Max: 10000},
		City:       "austin",
	}
}

func factorScore(t *testing.T, res Result, name string) float64 {
	t.Helper()
	for _, f := range res.Factors {
		if f.Name == name {
			return f.Score
		}
	}
	t.Fatalf("factor %q not found in %+v", name, res.Factors)
	return 0
}

func TestFactorMaximaSumToTen(t *testing.T) {
	if MaxTotal() != 10.0 {
		t.Fatalf("expected factor maxima to sum to 10, got %v", MaxTotal())
	}

	res, err := Calculate(baseProfessional(), baseProject())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := 0.0
	for _, f := range res.Factors {
		sum += f.Max
	}
	if sum != 10.0 {
		t.Fatalf("expected result factor maxima to sum to 10, got %v", sum)
	}
}

func TestFactorOrderIsFixed(t *testing.T) {
	res, err := Calculate(baseProfessional(), baseProject())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{FactorTrade, FactorExperience, FactorBudgetFit, FactorRating, FactorAvailability, FactorLocation}
	if len(res.Factors) != len(want) {
		t.Fatalf("expected %d factors, got %d", len(want), len(res.Factors))
	}
	for i, name := range want {
		if res.Factors[i].Name != name {
			t.Fatalf("factor %d: expected %q, got %q", i, name, res.Factors[i].Name)
		}
	}
}

func TestPerfectMatch(t *testing.T) {
	res, err := Calculate(baseProfessional(), baseProject())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 10 || res.Percentage != 100 || res.Recommendation != ExcellentMatch {
		t.Fatalf("expected perfect excellent match, got %+v", res)
	}
}

func TestNoTradeMatchNeverExcellent(t *testing.T) {
	pro := Professional{
		Trade:           "Plumber",
		YearsExperience: 12,
		HourlyRate:      Range{Min: 50, Max: 70},
		Rating:          5,
		Availability:    Available,
		City:            "Denver",
	}
	project := Project{
		TradeTypes: []string{"Electrician"},
		Budget:     Range{Min: 400, Max: 600},
		City:       "Denver",
	}

	res, err := Calculate(pro, project)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if factorScore(t, res, FactorTrade) != 0 {
		t.Fatalf("expected trade factor 0, got %+v", res.Factors)
	}
	// 0 + 2 + 0.5 + 2 + 1 + 0.5
	if res.Score != 6.0 || res.Percentage != 60 {
		t.Fatalf("expected score 6.0 (60%%), got %v (%d%%)", res.Score, res.Percentage)
	}
	if res.Recommendation != FairMatch {
		t.Fatalf("expected fair match, got %q", res.Recommendation)
	}

	// Even the best budget fit cannot reach the top band without a trade match.
	project.Budget = Range{Min: 100000, Max: 100000}
	res, err = Calculate(pro, project)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Recommendation == ExcellentMatch {
		t.Fatalf("expected no excellent match without trade overlap, got %+v", res)
	}
}

func TestSpecialtyCountsAsTradeMatch(t *testing.T) {
	pro := baseProfessional()
	pro.Trade = "General Contractor"
	pro.Specialties = []string{"Electrician"}

	res, err := Calculate(pro, baseProject())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if factorScore(t, res, FactorTrade) != 3.0 {
		t.Fatalf("expected specialty to count as trade match, got %+v", res.Factors)
	}
}

func TestEmptyTradeTypesIsScoreable(t *testing.T) {
	project := baseProject()
	project.TradeTypes = nil

	res, err := Calculate(baseProfessional(), project)
	if err != nil {
		t.Fatalf("expected no error for empty trade types, got %v", err)
	}
	if factorScore(t, res, FactorTrade) != 0 {
		t.Fatalf("expected trade factor 0, got %+v", res.Factors)
	}
	if res.Score != 7.0 {
		t.Fatalf("expected 7.0, got %v", res.Score)
	}
}

func TestExperienceTiersAndComplexityPenalty(t *testing.T) {
	cases := []struct {
		name       string
		years      float64
		complexity *float64
		want       float64
	}{
		{"veteran", 10, nil, 2.0},
		{"seasoned", 5, nil, 1.5},
		{"junior", 2, nil, 1.0},
		{"novice", 1, nil, 0.5},
		{"junior on hard project", 3, ptr(8), 0.5},
		{"novice on hard project", 0, ptr(7), 0.25},
		{"seasoned on hard project", 5, ptr(9), 1.5},
		{"junior just below threshold", 3, ptr(6.9), 1.0},
	}
	for _, tc := range cases {
		pro := baseProfessional()
		pro.YearsExperience = tc.years
		project := baseProject()
		project.Complexity = tc.complexity

		res, err := Calculate(pro, project)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got := factorScore(t, res, FactorExperience); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestBudgetFitTiers(t *testing.T) {
	cases := []struct {
		name string
		rate Range
		want float64
	}{
		{"cheap enough for 20 hours", Range{Min: 40, Max: 60}, 1.5},
		{"cheap enough for 10 hours", Range{Min: 80, Max: 120}, 1.0},
		{"expensive", Range{Min: 150, Max: 250}, 0.5},
		{"zero rate guarded", Range{Min: 0, Max: 0}, 0.5},
	}
	for _, tc := range cases {
		pro := baseProfessional()
		pro.HourlyRate = tc.rate
		project := baseProject()
		project.Budget = Range{Min: 800, Max: 1200}

		res, err := Calculate(pro, project)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got := factorScore(t, res, FactorBudgetFit); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAvailabilityAndLocation(t *testing.T) {
	cases := []struct {
		availability Availability
		city         string
		wantAvail    float64
		wantLocation float64
	}{
		{Available, "AUSTIN", 1.0, 0.5},
		{Busy, "Dallas", 0.5, 0},
		{Unavailable, "Austin", 0, 0.5},
		{Availability("On Leave"), "", 0, 0},
	}
	for _, tc := range cases {
		pro := baseProfessional()
		pro.Availability = tc.availability
		pro.City = tc.city

		res, err := Calculate(pro, baseProject())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := factorScore(t, res, FactorAvailability); got != tc.wantAvail {
			t.Errorf("%s availability: got %v, want %v", tc.availability, got, tc.wantAvail)
		}
		if got := factorScore(t, res, FactorLocation); got != tc.wantLocation {
			t.Errorf("%q location: got %v, want %v", tc.city, got, tc.wantLocation)
		}
	}
}

func TestUnratedProfessionalScoresZeroRating(t *testing.T) {
	pro := baseProfessional()
	pro.Rating = 0

	res, err := Calculate(pro, baseProject())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if factorScore(t, res, FactorRating) != 0 {
		t.Fatalf("expected rating factor 0, got %+v", res.Factors)
	}
}

func TestRecommendationBands(t *testing.T) {
	cases := map[float64]string{
		10:  ExcellentMatch,
		8:   ExcellentMatch,
		7.9: GoodMatch,
		6.5: GoodMatch,
		6.4: FairMatch,
		5:   FairMatch,
		4.9: LowMatch,
		0:   LowMatch,
	}
	for score, want := range cases {
		if got := Recommendation(score); got != want {
			t.Errorf("Recommendation(%v) = %q, want %q", score, got, want)
		}
	}
}

func TestScoreStaysInRange(t *testing.T) {
	years := []float64{0, 1, 4, 9, 30}
	ratings := []float64{0, 2.3, 5}
	budgets := []Range{{0, 0}, {100, 300}, {5000, 50000}}
	rates := []Range{{0, 0}, {25, 75}, {400, 900}}

	for _, y := range years {
		for _, r := range ratings {
			for _, b := range budgets {
				for _, rate := range rates {
					pro := baseProfessional()
					pro.YearsExperience, pro.Rating, pro.HourlyRate = y, r, rate
					project := baseProject()
					project.Budget = b
					project.Complexity = ptr(9)

					res, err := Calculate(pro, project)
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					if res.Score < 0 || res.Score > 10 {
						t.Fatalf("score out of range: %v", res.Score)
					}
					if res.Percentage < 0 || res.Percentage > 100 {
						t.Fatalf("percentage out of range: %d", res.Percentage)
					}
				}
			}
		}
	}
}

func TestCalculateRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate  func(*Professional, *Project)
	}{
		{"rating above five", func(p *Professional, _ *Project) { p.Rating = 5.5 }},
		{"negative rating", func(p *Professional, _ *Project) { p.Rating = -1 }},
		{"negative years", func(p *Professional, _ *Project) { p.YearsExperience = -2 }},
		{"inverted hourly rate", func(p *Professional, _ *Project) { p.HourlyRate = Range{Min: 90, Max: 40} }},
		{"inverted budget", func(_ *Professional, p *Project) { p.Budget = Range{Min: 900, Max: 100} }},
		{"negative budget", func(_ *Professional, p *Project) { p.Budget = Range{Min: -100, Max: 100} }},
		{"complexity above ten", func(_ *Professional, p *Project) { p.Complexity = ptr(11) }},
	}
	for _, tc := range cases {
		pro, project := baseProfessional(), baseProject()
		tc.mutate(&pro, &project)
		if _, err := Calculate(pro, project); !scoring.IsInvalidRange(err) {
			t.Errorf("%s: expected InvalidRangeError, got %v", tc.name, err)
		}
	}
}
