package analysis

import (
	"testing"

	"github.com/jylim/leadership-coach/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		self  float64
		other float64
		want  models.GapType
	}{
		{name: "Raters higher is underestimation", self: 3.0, other: 4.8, want: models.Underestimation},
		{name: "Self higher is overestimation", self: 5.0, other: 4.5, want: models.Overestimation},
		{name: "Small difference is alignment", self: 5.0, other: 4.8, want: models.Alignment},
		{name: "Exact positive boundary is a gap", self: 4.0, other: 4.5, want: models.Underestimation},
		{name: "Exact negative boundary is a gap", self: 4.5, other: 4.0, want: models.Overestimation},
		{name: "Just below boundary aligns", self: 4.0, other: 4.49, want: models.Alignment},
		{name: "Equal scores align", self: 4.4, other: 4.4, want: models.Alignment},
		{name: "Scenario diff -0.4 aligns", self: 4.8, other: 4.4, want: models.Alignment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.self, tt.other); got != tt.want {
				t.Errorf("Classify(%v, %v) = %s, want %s", tt.self, tt.other, got, tt.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if Classify(3.0, 4.8) != models.Underestimation {
			t.Fatal("Classify must be deterministic")
		}
	}
}
