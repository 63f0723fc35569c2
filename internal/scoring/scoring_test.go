package scoring

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"tradesmarket/platform/apperr"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		value, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{12.5, 0, 10, 10},
		{0.5, 1, 10, 1},
	}
	for _, tc := range cases {
		if got := Clamp(tc.value, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tc.value, tc.lo, tc.hi, got, tc.want)
		}
	}
}

func TestWeightedSum(t *testing.T) {
	got := WeightedSum([]Term{{Value: 10, Weight: 0.5}, {Value: 4, Weight: 0.25}})
	if math.Abs(got-6) > 1e-9 {
		t.Fatalf("expected 6, got %v", got)
	}
	if WeightedSum(nil) != 0 {
		t.Fatal("expected empty sum to be 0")
	}
}

func TestRound1(t *testing.T) {
	cases := map[float64]float64{
		8.44:  8.4,
		8.46:  8.5,
		2.0:   2.0,
		9.999: 10.0,
	}
	for in, want := range cases {
		if got := Round1(in); got != want {
			t.Errorf("Round1(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestCheckRange(t *testing.T) {
	if err := CheckRange("quality", 10, 0, 10); err != nil {
		t.Fatalf("boundary value rejected: %v", err)
	}
	err := CheckRange("quality", 10.1, 0, 10)
	var rangeErr *InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected InvalidRangeError, got %v", err)
	}
	if rangeErr.Field != "quality" {
		t.Fatalf("unexpected field %q", rangeErr.Field)
	}
	if CheckRange("quality", math.NaN(), 0, 10) == nil {
		t.Fatal("expected NaN to be rejected")
	}
}

func TestCheckOrdered(t *testing.T) {
	if err := CheckOrdered("budget", 100, 100); err != nil {
		t.Fatalf("equal bounds rejected: %v", err)
	}
	err := fmt.Errorf("wrap: %w", CheckOrdered("budget", 500, 100))
	if !IsInvalidRange(err) {
		t.Fatalf("expected wrapped InvalidRangeError, got %v", err)
	}
}

func TestLadderFirstMatchWins(t *testing.T) {
	ladder := Ladder[float64, string]{
		Rules: []Rule[float64, string]{
			{When: AtLeast(8), Then: "high"},
			{When: AtLeast(4), Then: "mid"},
			{When: AtLeast(0), Then: "low"},
		},
		Else: "negative",
	}

	cases := map[float64]string{9: "high", 8: "high", 7.9: "mid", 0: "low", -1: "negative"}
	for in, want := range cases {
		if got := ladder.Resolve(in); got != want {
			t.Errorf("Resolve(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestAsValidation(t *testing.T) {
	err := AsValidation(fmt.Errorf("wrapped: %w", CheckRange("rating", 9, 0, 5)))
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation kind, got %v", err)
	}
	if !IsInvalidRange(err) {
		t.Fatal("expected original error to stay in the chain")
	}

	plain := errors.New("db down")
	if AsValidation(plain) != plain {
		t.Fatal("expected unrelated errors to pass through")
	}
}
