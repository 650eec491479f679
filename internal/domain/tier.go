package domain

// PriorityTier ranks candidates; lower wins.
type PriorityTier int

const (
	TierAvailableStrong   PriorityTier = 1
	TierAvailableMid      PriorityTier = 2
	TierAvailableWeak     PriorityTier = 3
	TierUnavailableStrong PriorityTier = 4
	TierUnavailableWeak   PriorityTier = 5
	TierFallback          PriorityTier = 6
)

// Valid reports whether t is one of the six logical tiers.
func (t PriorityTier) Valid() bool {
	return t >= TierAvailableStrong && t <= TierFallback
}

// TierDefinition is one row of the tier policy table.
type TierDefinition struct {
	Tier        PriorityTier `json:"tier"`
	Description string       `json:"description"`
	Active      bool         `json:"active"`
}

// DefaultTierDefinitions returns the standard policy: unavailable tiers 4 and 5
// are kept in the table but disabled.
func DefaultTierDefinitions() []TierDefinition {
	return []TierDefinition{
		{Tier: TierAvailableStrong, Description: "Available + Strong match (>=70%)", Active: true},
		{Tier: TierAvailableMid, Description: "Available + Mid match (60-69%)", Active: true},
		{Tier: TierAvailableWeak, Description: "Available + Weak match (<60%)", Active: true},
		{Tier: TierUnavailableStrong, Description: "Unavailable + Strong match", Active: false},
		{Tier: TierUnavailableWeak, Description: "Unavailable + Mid/Weak match", Active: false},
		{Tier: TierFallback, Description: "Fallback assignment", Active: true},
	}
}
