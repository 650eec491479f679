package service

import (
	"sort"

	"github.com/spec-kit/ticket-assignment/internal/domain"
)

// RankCandidates orders candidates by tier, then by descending match
// percentage. Ties keep their input order. Candidates without a selectable
// tier are dropped.
func RankCandidates(candidates []domain.AssignmentCandidate) []domain.AssignmentCandidate {
	ranked := make([]domain.AssignmentCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.Tier.Valid() || c.Tier == domain.TierFallback {
			continue
		}
		ranked = append(ranked, c)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Tier != ranked[j].Tier {
			return ranked[i].Tier < ranked[j].Tier
		}
		return ranked[i].Match.MatchPercentage > ranked[j].Match.MatchPercentage
	})
	return ranked
}

// SelectBestCandidate returns the winner, or false when a fallback
// assignment is required.
func SelectBestCandidate(candidates []domain.AssignmentCandidate) (*domain.AssignmentCandidate, bool) {
	ranked := RankCandidates(candidates)
	if len(ranked) == 0 {
		return nil, false
	}
	best := ranked[0]
	return &best, true
}
