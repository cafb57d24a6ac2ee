package dispatch

import "testing"

func TestMapGender(t *testing.T) {
	cases := map[string]string{
		"male":   "M",
		"Male":   "M",
		"m":      "M",
		"female": "F",
		"F":      "F",
		"":       "",
		"other":  "",
	}
	for in, want := range cases {
		if got := mapGender(in); got != want {
			t.Errorf("mapGender(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapRelation(t *testing.T) {
	cases := map[string]string{
		"principal": "E",
		"Employee":  "E",
		"emp":       "E",
		"e":         "E",
		"wife":      "W",
		"Spouse":    "W",
		"husband":   "H",
		"son":       "S",
		"daughter":  "D",
		"cousin":    "",
		"":          "",
	}
	for in, want := range cases {
		if got := mapRelation(in); got != want {
			t.Errorf("mapRelation(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapPlan(t *testing.T) {
	cases := map[string]string{
		"ga1":           "GA1",
		"GA3":           "GA3",
		"Basic Cover":   "GA1",
		"silver":        "GA2",
		"Gold Plan":     "GA3",
		"platinum plus": "GA4",
		"unknown":       "",
	}
	for in, want := range cases {
		if got := mapPlan(in); got != want {
			t.Errorf("mapPlan(%q) = %q, want %q", in, got, want)
		}
	}
}
