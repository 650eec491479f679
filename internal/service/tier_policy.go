package service

import (
	"sort"

	"github.com/spec-kit/ticket-assignment/internal/domain"
)

// TierPolicy decides which tier a technician lands in and whether that tier
// is eligible for selection.
type TierPolicy struct {
	definitions map[domain.PriorityTier]domain.TierDefinition
}

// NewTierPolicy builds a policy from a definition table. The fallback tier is
// always active.
func NewTierPolicy(definitions []domain.TierDefinition) TierPolicy {
	defs := make(map[domain.PriorityTier]domain.TierDefinition, len(definitions))
	for _, def := range definitions {
		if !def.Tier.Valid() {
			continue
		}
		if def.Tier == domain.TierFallback {
			def.Active = true
		}
		defs[def.Tier] = def
	}
	return TierPolicy{definitions: defs}
}

// DefaultTierPolicy enables tiers 1, 2, 3 and 6.
func DefaultTierPolicy() TierPolicy {
	return NewTierPolicy(domain.DefaultTierDefinitions())
}

// TierPolicyWithActive starts from the default table and marks exactly the
// listed tiers active.
func TierPolicyWithActive(active []int) TierPolicy {
	enabled := make(map[domain.PriorityTier]bool, len(active))
	for _, tier := range active {
		enabled[domain.PriorityTier(tier)] = true
	}
	defs := domain.DefaultTierDefinitions()
	for i := range defs {
		defs[i].Active = enabled[defs[i].Tier]
	}
	return NewTierPolicy(defs)
}

// IsActive reports whether candidates in tier may be selected.
func (p TierPolicy) IsActive(tier domain.PriorityTier) bool {
	def, ok := p.definitions[tier]
	return ok && def.Active
}

// Definitions returns the table ordered by tier.
func (p TierPolicy) Definitions() []domain.TierDefinition {
	out := make([]domain.TierDefinition, 0, len(p.definitions))
	for _, def := range p.definitions {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return out
}

// TierFor maps availability and match strength onto a tier. The boolean is
// false when that tier is disabled and the technician must be excluded.
// Tier 6 is never returned for a real technician.
func (p TierPolicy) TierFor(available bool, classification domain.MatchClassification) (domain.PriorityTier, bool) {
	var tier domain.PriorityTier
	switch {
	case available && classification == domain.MatchStrong:
		tier = domain.TierAvailableStrong
	case available && classification == domain.MatchMid:
		tier = domain.TierAvailableMid
	case available && classification == domain.MatchWeak:
		tier = domain.TierAvailableWeak
	case !available && classification == domain.MatchStrong:
		tier = domain.TierUnavailableStrong
	case !available && (classification == domain.MatchMid || classification == domain.MatchWeak):
		tier = domain.TierUnavailableWeak
	default:
		return domain.TierFallback, false
	}
	return tier, p.IsActive(tier)
}
