package tempo

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	assertFloat(t, "Sum", DefaultWeights.Sum(), 1.0)
}

func TestWeightsValidate(t *testing.T) {
	if err := DefaultWeights.Validate(); err != nil {
		t.Errorf("Validate(DefaultWeights) = %v, want nil", err)
	}
}

func TestWeightsValidateNegative(t *testing.T) {
	w := DefaultWeights
	w[Urgency] = -0.1
	err := w.Validate()
	if err == nil {
		t.Fatal("Validate should reject a negative weight")
	}
	if !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("error should wrap ErrInvalidWeights, got %v", err)
	}
}

func TestWeightsValidateAllZero(t *testing.T) {
	var w Weights
	if err := w.Validate(); !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("Validate(zero) = %v, want ErrInvalidWeights", err)
	}
}

func TestNormalized(t *testing.T) {
	w := Weights{2, 2, 2, 2, 1, 1}
	n := w.Normalized()
	assertFloat(t, "Sum", n.Sum(), 1.0)
	assertFloat(t, "ratio preserved", n[Urgency]/n[Recency], 2.0)
}

func TestNormalizedZeroUnchanged(t *testing.T) {
	var w Weights
	if w.Normalized() != w {
		t.Error("normalizing a zero vector should return it unchanged")
	}
}

func TestWeightsJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(DefaultWeights)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Weights
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for c := Component(0); c < numComponents; c++ {
		assertFloat(t, c.String(), back[c], DefaultWeights[c])
	}
}

func TestWeightsJSONUnknownKey(t *testing.T) {
	var w Weights
	err := json.Unmarshal([]byte(`{"charisma": 0.5}`), &w)
	if !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("unknown component should fail with ErrInvalidWeights, got %v", err)
	}
}

func TestComponentNames(t *testing.T) {
	cases := map[Component]string{
		Urgency:            "urgency",
		Value:              "value",
		Friction:           "friction",
		SuccessProbability: "success_probability",
		Recency:            "recency",
		EnergyMatch:        "energy_match",
	}
	for c, want := range cases {
		if c.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(c), c.String(), want)
		}
	}
	if Component(99).String() != "Component(99)" {
		t.Errorf("invalid component String = %q", Component(99).String())
	}
}

// --- profiles ---

func TestResolveNoProfiles(t *testing.T) {
	var ps ProfileSet
	w := ps.Resolve(DefaultWeights, time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC))
	if w != DefaultWeights {
		t.Errorf("Resolve with no profiles = %v, want base", w)
	}
}

func TestResolveMorningProfile(t *testing.T) {
	ps := ProfileSet{Morning: Profile{Urgency: 0.5}}
	morning := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 6, 16, 21, 0, 0, 0, time.UTC)

	wm := ps.Resolve(DefaultWeights, morning)
	if wm[Urgency] <= DefaultWeights[Urgency] {
		t.Errorf("morning urgency = %f, want boosted above %f", wm[Urgency], DefaultWeights[Urgency])
	}
	assertFloat(t, "morning sum", wm.Sum(), 1.0)

	we := ps.Resolve(DefaultWeights, evening)
	if we != DefaultWeights {
		t.Errorf("evening weights = %v, want base (morning profile must not apply)", we)
	}
}

func TestResolveWeekendOverridesTimeOfDay(t *testing.T) {
	ps := ProfileSet{
		Morning: Profile{Urgency: 0.5},
		Weekend: Profile{Urgency: 0.1},
	}
	saturdayMorning := time.Date(2025, 6, 21, 9, 0, 0, 0, time.UTC)
	w := ps.Resolve(DefaultWeights, saturdayMorning)

	// Weekend applies after Morning, so its urgency value wins
	// (before renormalization 0.1 of a 0.85 total).
	assertFloat(t, "urgency", w[Urgency], 0.1/0.85)
}

func TestResolveUnspecifiedFieldsInherit(t *testing.T) {
	ps := ProfileSet{Afternoon: Profile{EnergyMatch: 0.3}}
	afternoon := time.Date(2025, 6, 16, 14, 0, 0, 0, time.UTC)
	w := ps.Resolve(DefaultWeights, afternoon)

	// Value was not overridden; its pre-normalization weight is the base.
	total := DefaultWeights.Sum() - DefaultWeights[EnergyMatch] + 0.3
	assertFloat(t, "value inherits", w[Value], DefaultWeights[Value]/total)
	assertFloat(t, "sum", w.Sum(), 1.0)
}
