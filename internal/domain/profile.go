package domain

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Plan enumerates billing plans.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// DisplayName renders the plan identifier for user-facing surfaces.
func (p Plan) DisplayName() string {
	return cases.Title(language.English).String(string(p))
}

// Profile represents an authenticated account and its token ledger. The
// identifier matches the external auth provider's subject so handlers can
// re-derive identity per request without any shared session state.
type Profile struct {
	ID            string
	Email         string
	Name          string
	AvatarURL     string
	Plan          Plan
	TokensTotal   int
	TokensUsed    int
	TokensResetAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TokensRemaining reports the unspent allowance, never negative. An overdrawn
// ledger can exist transiently (plan downgrades) and must not leak a negative
// balance to any surface.
func (p Profile) TokensRemaining() int {
	remaining := p.TokensTotal - p.TokensUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CanAfford reports whether charging cost tokens would stay within the
// allowance. The authoritative check is the conditional UPDATE in the store;
// this is the cheap pre-check that avoids a provider call that could never be
// charged.
func (p Profile) CanAfford(cost int) bool {
	return p.TokensUsed+cost <= p.TokensTotal
}
