package calc

import (
	"testing"

	"github.com/cruxfin/edgarfacts/internal/catalog"
)

func floatPtr(v float64) *float64 { return &v }

func TestYoY(t *testing.T) {
	tests := []struct {
		name             string
		current, previous float64
		want             *float64
	}{
		{"simple growth", 120, 100, floatPtr(20)},
		{"simple decline", 80, 100, floatPtr(-20)},
		{"zero previous", 50, 0, nil},
		{"sign flip positive to negative", -10, 10, nil},
		{"sign flip negative to positive", 10, -10, nil},
		{"both negative", -80, -100, floatPtr(-20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := YoY(tt.current, tt.previous)
			assertPtrEqual(t, got, tt.want)
		})
	}
}

func TestCAGR(t *testing.T) {
	tests := []struct {
		name               string
		start, end float64
		years              int
		want               *float64
	}{
		{"doubling over 1 year", 100, 200, 1, floatPtr(100)},
		{"zero years", 100, 200, 0, nil},
		{"negative start", -100, 200, 3, nil},
		{"negative end", 100, -200, 3, nil},
		{"flat", 100, 100, 5, floatPtr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CAGR(tt.start, tt.end, tt.years)
			assertPtrApprox(t, got, tt.want)
		})
	}
}

func TestYoYSamples_ExcludesNonPositiveEndpoints(t *testing.T) {
	// 100->110 (+10%), 110->-5 (excluded, negative end), -5->120 (excluded,
	// negative start), 120->132 (+10%).
	got := YoYSamples([]float64{100, 110, -5, 120, 132})
	want := []float64{10, 10}
	if len(got) != len(want) {
		t.Fatalf("YoYSamples() = %v, want %v", got, want)
	}
	for i := range want {
		if diff := got[i] - want[i]; diff < -0.001 || diff > 0.001 {
			t.Errorf("YoYSamples()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestClassifyGrowth(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   *GrowthSignal
	}{
		// Samples: 10,10,20,20 -> first half mean 10, second half mean 20, delta +10.
		{"accelerating", []float64{100, 110, 121, 145.2, 174.24}, signalPtr(Accelerating)},
		// Samples: 20,20,10,10 -> first half mean 20, second half mean 10, delta -10.
		{"decelerating", []float64{100, 120, 144, 158.4, 174.24}, signalPtr(Decelerating)},
		// Samples: 10,10,10,10 -> delta 0, within the hysteresis band.
		{"stable within band", []float64{100, 110, 121, 133.1, 146.41}, signalPtr(Stable)},
		// Fewer than 4 both-ends-positive samples: undefined.
		{"too few samples", []float64{100, 110, 121}, nil},
		{"empty history", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyGrowth(tt.values)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ClassifyGrowth() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ClassifyGrowth() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestCompose_DivideByZeroSkips(t *testing.T) {
	r := Compose(catalog.Divide, catalog.Multiple, 10, 0)
	if !r.Skipped || r.Value != nil {
		t.Errorf("Compose() = %+v, want Skipped with nil Value", r)
	}
}

func TestCompose_PercentageRounding(t *testing.T) {
	r := Compose(catalog.Divide, catalog.Percentage, 1, 3)
	if r.Skipped || r.Value == nil {
		t.Fatal("Compose() unexpectedly skipped")
	}
	if *r.Value != 33.3 {
		t.Errorf("Compose() = %v, want 33.3", *r.Value)
	}
}

func TestCompose_MultipleRounding(t *testing.T) {
	r := Compose(catalog.Divide, catalog.Multiple, 1, 3)
	if r.Skipped || r.Value == nil {
		t.Fatal("Compose() unexpectedly skipped")
	}
	if *r.Value != 0.33 {
		t.Errorf("Compose() = %v, want 0.33", *r.Value)
	}
}

func TestCompose_CurrencyNoRounding(t *testing.T) {
	num, den := 100.456, 50.001
	r := Compose(catalog.Subtract, catalog.Currency, num, den)
	if r.Skipped || r.Value == nil {
		t.Fatal("Compose() unexpectedly skipped")
	}
	// Currency applies no rounding, so the result is the unrounded float64
	// difference (50.455000000000005), not the decimal 50.455.
	if want := num - den; *r.Value != want {
		t.Errorf("Compose() = %v, want %v", *r.Value, want)
	}
}

func signalPtr(s GrowthSignal) *GrowthSignal { return &s }

func assertPtrEqual(t *testing.T, got, want *float64) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got != nil && *got != *want {
		t.Errorf("got %v, want %v", *got, *want)
	}
}

func assertPtrApprox(t *testing.T, got, want *float64) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got != nil {
		diff := *got - *want
		if diff < -0.001 || diff > 0.001 {
			t.Errorf("got %v, want %v", *got, *want)
		}
	}
}
