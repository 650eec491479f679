package service

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/spec-kit/ticket-assignment/internal/domain"
)

func candidate(id string, tier domain.PriorityTier, pct int) domain.AssignmentCandidate {
	return domain.AssignmentCandidate{
		Technician: domain.Technician{ID: id, Name: id},
		Match:      domain.SkillMatchResult{MatchPercentage: pct, Classification: ClassifyMatch(pct)},
		Tier:       tier,
	}
}

func ids(candidates []domain.AssignmentCandidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Technician.ID)
	}
	return out
}

func TestRankCandidates(t *testing.T) {
	Convey("Given a candidate pool", t, func() {
		Convey("lower tiers win regardless of percentage", func() {
			ranked := RankCandidates([]domain.AssignmentCandidate{
				candidate("weak-available", domain.TierAvailableWeak, 100),
				candidate("strong-available", domain.TierAvailableStrong, 70),
				candidate("mid-available", domain.TierAvailableMid, 69),
			})
			So(ids(ranked), ShouldResemble, []string{"strong-available", "mid-available", "weak-available"})
		})

		Convey("within a tier the higher percentage wins", func() {
			ranked := RankCandidates([]domain.AssignmentCandidate{
				candidate("a", domain.TierAvailableStrong, 75),
				candidate("b", domain.TierAvailableStrong, 100),
			})
			So(ids(ranked), ShouldResemble, []string{"b", "a"})
		})

		Convey("exact ties keep roster order", func() {
			ranked := RankCandidates([]domain.AssignmentCandidate{
				candidate("first", domain.TierAvailableStrong, 80),
				candidate("second", domain.TierAvailableStrong, 80),
				candidate("third", domain.TierAvailableStrong, 80),
			})
			So(ids(ranked), ShouldResemble, []string{"first", "second", "third"})
		})

		Convey("fallback and invalid tiers are dropped", func() {
			ranked := RankCandidates([]domain.AssignmentCandidate{
				candidate("fallback", domain.TierFallback, 0),
				candidate("zero", 0, 90),
				candidate("ok", domain.TierAvailableWeak, 10),
			})
			So(ids(ranked), ShouldResemble, []string{"ok"})
		})

		Convey("the input slice is left untouched", func() {
			pool := []domain.AssignmentCandidate{
				candidate("a", domain.TierAvailableWeak, 10),
				candidate("b", domain.TierAvailableStrong, 90),
			}
			_ = RankCandidates(pool)
			So(ids(pool), ShouldResemble, []string{"a", "b"})
		})
	})

	Convey("Selection is deterministic and tier-first for random pools", t, func() {
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 100; i++ {
			var pool []domain.AssignmentCandidate
			n := 1 + rng.Intn(8)
			for j := 0; j < n; j++ {
				pool = append(pool, candidate(string(rune('a'+j)), domain.PriorityTier(1+rng.Intn(3)), rng.Intn(101)))
			}

			first, ok := SelectBestCandidate(pool)
			So(ok, ShouldBeTrue)
			second, _ := SelectBestCandidate(pool)
			So(second.Technician.ID, ShouldEqual, first.Technician.ID)

			for _, c := range pool {
				So(first.Tier, ShouldBeLessThanOrEqualTo, c.Tier)
				if c.Tier == first.Tier {
					So(first.Match.MatchPercentage, ShouldBeGreaterThanOrEqualTo, c.Match.MatchPercentage)
				}
			}
		}
	})

	Convey("An empty pool selects nobody", t, func() {
		best, ok := SelectBestCandidate(nil)
		So(best, ShouldBeNil)
		So(ok, ShouldBeFalse)
	})
}
