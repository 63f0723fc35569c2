package complexity

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary is the keyword and skill configuration used by the analyzer.
// An Analyzer keeps its own copy, so callers may reuse or modify the value
// they passed in without affecting analyses.
type Vocabulary struct {
	HighComplexity   []string            `yaml:"highComplexity"`
	MediumComplexity []string            `yaml:"mediumComplexity"`
	LowComplexity    []string            `yaml:"lowComplexity"`
	UrgencyKeywords  []string            `yaml:"urgencyKeywords"`
	ActionKeywords   []string            `yaml:"actionKeywords"`
	TradeSkills      map[string][]string `yaml:"tradeSkills"`
}

// DefaultVocabulary returns the stock keyword tables.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		HighComplexity:   []string{"commercial", "industrial", "large scale", "multi-story", "custom design", "renovation", "structural", "complex"},
		MediumComplexity: []string{"residential", "remodel", "upgrade", "installation", "repair", "addition"},
		LowComplexity:    []string{"simple", "basic", "small", "minor", "patch", "touch-up", "maintenance"},
		UrgencyKeywords:  []string{"urgent", "asap"},
		ActionKeywords:   []string{"installation", "repair", "replacement", "upgrade", "maintenance", "design", "planning", "inspection", "testing", "consultation"},
		TradeSkills: map[string][]string{
			"Electrician":        {"Electrical wiring", "Circuit breaker installation", "Lighting systems", "Electrical code compliance", "Safety protocols"},
			"Plumber":            {"Pipe installation", "Leak detection", "Drain cleaning", "Water heater repair", "Plumbing code compliance"},
			"HVAC":               {"Air conditioning repair", "Heating systems", "Duct work", "Climate control", "Energy efficiency"},
			"Carpenter":          {"Framing", "Finish carpentry", "Cabinet installation", "Deck building", "Custom woodwork"},
			"Painter":            {"Interior painting", "Exterior painting", "Surface preparation", "Color consultation", "Finish work"},
			"Mason":              {"Brickwork", "Stone masonry", "Concrete work", "Mortar mixing", "Foundation repair"},
			"Roofer":             {"Roof installation", "Roof repair", "Shingle work", "Waterproofing", "Gutter installation"},
			"General Contractor": {"Project management", "Multi-trade coordination", "Permitting", "Budget management", "Quality control"},
		},
	}
}

// LoadVocabulary reads a YAML vocabulary file. Sections missing from the
// file fall back to DefaultVocabulary.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("read vocabulary: %w", err)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary decodes YAML vocabulary data over the defaults.
func ParseVocabulary(data []byte) (Vocabulary, error) {
	var parsed Vocabulary
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Vocabulary{}, fmt.Errorf("parse vocabulary: %w", err)
	}

	vocab := DefaultVocabulary()
	if parsed.HighComplexity != nil {
		vocab.HighComplexity = parsed.HighComplexity
	}
	if parsed.MediumComplexity != nil {
		vocab.MediumComplexity = parsed.MediumComplexity
	}
	if parsed.LowComplexity != nil {
		vocab.LowComplexity = parsed.LowComplexity
	}
	if parsed.UrgencyKeywords != nil {
		vocab.UrgencyKeywords = parsed.UrgencyKeywords
	}
	if parsed.ActionKeywords != nil {
		vocab.ActionKeywords = parsed.ActionKeywords
	}
	if parsed.TradeSkills != nil {
		vocab.TradeSkills = parsed.TradeSkills
	}
	return vocab, nil
}

// clone deep-copies the vocabulary and lower-cases every matching keyword.
func (v Vocabulary) clone() Vocabulary {
	skills := make(map[string][]string, len(v.TradeSkills))
	for trade, list := range v.TradeSkills {
		skills[trade] = append([]string(nil), list...)
	}
	return Vocabulary{
		HighComplexity:   lowerAll(v.HighComplexity),
		MediumComplexity: lowerAll(v.MediumComplexity),
		LowComplexity:    lowerAll(v.LowComplexity),
		UrgencyKeywords:  lowerAll(v.UrgencyKeywords),
		ActionKeywords:   lowerAll(v.ActionKeywords),
		TradeSkills:      skills,
	}
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
