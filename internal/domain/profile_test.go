package domain

import "testing"

func TestTokensRemainingClampsAtZero(t *testing.T) {
	tests := []struct {
		name  string
		used  int
		total int
		want  int
	}{
		{name: "unused", used: 0, total: 100, want: 100},
		{name: "partial", used: 40, total: 100, want: 60},
		{name: "exhausted", used: 100, total: 100, want: 0},
		{name: "overdrawn", used: 130, total: 100, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Profile{TokensUsed: tc.used, TokensTotal: tc.total}
			if got := p.TokensRemaining(); got != tc.want {
				t.Fatalf("TokensRemaining() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCanAfford(t *testing.T) {
	p := Profile{TokensUsed: 95, TokensTotal: 100}
	if p.CanAfford(10) {
		t.Fatal("95/100 profile must not afford a 10 token charge")
	}
	if !p.CanAfford(5) {
		t.Fatal("95/100 profile must afford a 5 token charge")
	}
	if !p.CanAfford(0) {
		t.Fatal("zero-cost charge must always be affordable")
	}
}

func TestPlanDisplayName(t *testing.T) {
	if got := PlanBusiness.DisplayName(); got != "Business" {
		t.Fatalf("DisplayName() = %q, want %q", got, "Business")
	}
	if got := PlanFree.DisplayName(); got != "Free" {
		t.Fatalf("DisplayName() = %q, want %q", got, "Free")
	}
}
