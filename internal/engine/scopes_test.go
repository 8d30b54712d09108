package engine

import (
	"testing"

	"github.com/carbonlens/scope3scan/internal/model"
)

func TestDetector_ScopeForms(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		scope1 bool
		scope2 bool
		scope3 bool
	}{
		{
			name:   "digit forms with emissions qualifier",
			text:   "Our Scope 1 emissions and Scope 2 emissions are reported annually alongside Scope 3 emissions.",
			scope1: true,
			scope2: true,
			scope3: true,
		},
		{
			name:   "roman numeral forms",
			text:   "Scope I and Scope II totals are shown in the table, with Scope III disclosed separately.",
			scope1: true,
			scope2: true,
			scope3: true,
		},
		{
			name:   "list separator forms",
			text:   "GHG data: scope 1, scope 2, and scope 3, all verified by a third party.",
			scope1: true,
			scope2: true,
			scope3: true,
		},
		{
			name:   "ghg qualifier",
			text:   "scope 1 ghg totals decreased while scope 2 ghg totals were flat.",
			scope1: true,
			scope2: true,
		},
		{
			name: "unrelated numerals do not match",
			text: "The project scope 12 review and scope 20 analysis cover procurement only.",
		},
		{
			name:   "scope 3 only",
			text:   "Scope 3 emissions are all other indirect emissions in a company's value chain.",
			scope3: true,
		},
	}

	d := NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := model.ContextWindow{Text: tt.text}
			d.Detect(&w)
			if w.Scope1 != tt.scope1 {
				t.Errorf("scope1 = %v, want %v", w.Scope1, tt.scope1)
			}
			if w.Scope2 != tt.scope2 {
				t.Errorf("scope2 = %v, want %v", w.Scope2, tt.scope2)
			}
			if w.Scope3 != tt.scope3 {
				t.Errorf("scope3 = %v, want %v", w.Scope3, tt.scope3)
			}
		})
	}
}

func TestDetector_RejectsScope3OnlyWindows(t *testing.T) {
	d := NewDetector()

	w := model.ContextWindow{Text: "Scope 3 emissions are defined as all other indirect emissions that occur in the value chain."}
	if d.Detect(&w) {
		t.Error("window with only a Scope 3 mention should be rejected")
	}

	w = model.ContextWindow{Text: "We report Scope 1 emissions from our facilities and Scope 3 emissions from our supply chain."}
	if !d.Detect(&w) {
		t.Error("window anchored on Scope 1 should survive")
	}
	if !w.Scope3 {
		t.Error("scope3 flag should still be set on surviving windows")
	}
}

func TestMentionsScope3(t *testing.T) {
	if !MentionsScope3("our scope 3 emissions totaled 10 tCO2e") {
		t.Error("expected scope 3 mention")
	}
	if MentionsScope3("our scope 1 and scope 2 emissions declined") {
		t.Error("did not expect scope 3 mention")
	}
}
