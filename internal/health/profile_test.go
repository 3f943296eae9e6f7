package health_test

import (
	"errors"
	"math"
	"testing"

	"github.com/myrjola/homegym/internal/health"
	"github.com/myrjola/homegym/internal/ptr"
)

func completeProfile() health.Profile {
	p := health.DefaultProfile()
	p.Age = ptr.Ref(25)
	p.HeightCm = ptr.Ref(175.0)
	p.WeightKg = ptr.Ref(70.0)
	return p
}

func TestComputeTDEE(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *health.Profile)
		want   int
		wantOK bool
	}{
		{
			name:   "male sedentary",
			modify: func(*health.Profile) {},
			// (700 + 1093.75 - 125 + 5) * 1.2 = 2008.5
			want:   2009,
			wantOK: true,
		},
		{
			name:   "female moderately active",
			modify: func(p *health.Profile) { p.Gender = health.GenderFemale; p.ActivityFactor = 1.55 },
			// (700 + 1093.75 - 125 - 161) * 1.55 = 2337.0125
			want:   2337,
			wantOK: true,
		},
		{name: "missing age", modify: func(p *health.Profile) { p.Age = nil }, want: 0, wantOK: false},
		{name: "missing height", modify: func(p *health.Profile) { p.HeightCm = nil }, want: 0, wantOK: false},
		{name: "missing weight", modify: func(p *health.Profile) { p.WeightKg = nil }, want: 0, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := completeProfile()
			tt.modify(&p)
			got, ok := health.ComputeTDEE(p)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ComputeTDEE() = %d, %t, want %d, %t", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestComputeProteinTarget(t *testing.T) {
	p := completeProfile()
	p.ProteinFactor = 1.8
	if got, ok := health.ComputeProteinTarget(p); !ok || got != 126 {
		t.Errorf("ComputeProteinTarget() = %d, %t, want 126, true", got, ok)
	}
	p.WeightKg = nil
	if _, ok := health.ComputeProteinTarget(p); ok {
		t.Error("expected no protein target without weight")
	}
}

func TestComputeBMI(t *testing.T) {
	if got, ok := health.ComputeBMI(completeProfile()); !ok || got != 22.9 {
		t.Errorf("ComputeBMI() = %v, %t, want 22.9, true", got, ok)
	}
	if _, ok := health.ComputeBMI(health.DefaultProfile()); ok {
		t.Error("expected no BMI for an empty profile")
	}
}

func TestProfile_Recompute(t *testing.T) {
	p := completeProfile()
	p.TDEE = ptr.Ref(1)
	p = p.Recompute()
	if p.TDEE == nil || *p.TDEE != 2009 {
		t.Errorf("TDEE = %v, want 2009", p.TDEE)
	}
	if p.ProteinTargetG == nil || *p.ProteinTargetG != 140 {
		t.Errorf("ProteinTargetG = %v, want 140", p.ProteinTargetG)
	}

	p.Age = nil
	p = p.Recompute()
	if p.TDEE != nil {
		t.Errorf("stale TDEE %d kept after removing age", *p.TDEE)
	}
}

func TestProfile_Validate(t *testing.T) {
	if err := completeProfile().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	p := completeProfile()
	p.ActivityFactor = 1.3
	p.ProteinFactor = 3
	p.Gender = "other"
	p.Age = ptr.Ref(0)
	err := p.Validate()
	if !errors.Is(err, health.ErrInvalidInput) {
		t.Errorf("Validate() error = %v, want %v", err, health.ErrInvalidInput)
	}
}

func TestProfile_ValidateRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *health.Profile)
	}{
		{name: "infinite weight", modify: func(p *health.Profile) { p.WeightKg = ptr.Ref(math.Inf(1)) }},
		{name: "NaN weight", modify: func(p *health.Profile) { p.WeightKg = ptr.Ref(math.NaN()) }},
		{name: "infinite height", modify: func(p *health.Profile) { p.HeightCm = ptr.Ref(math.Inf(1)) }},
		{name: "NaN height", modify: func(p *health.Profile) { p.HeightCm = ptr.Ref(math.NaN()) }},
		{name: "negative infinite weight", modify: func(p *health.Profile) { p.WeightKg = ptr.Ref(math.Inf(-1)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := completeProfile()
			tt.modify(&p)
			if err := p.Validate(); !errors.Is(err, health.ErrInvalidInput) {
				t.Errorf("Validate() error = %v, want %v", err, health.ErrInvalidInput)
			}
		})
	}
}
