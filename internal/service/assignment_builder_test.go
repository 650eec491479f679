package service

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/spec-kit/ticket-assignment/internal/domain"
)

func TestBuildAssignmentResult(t *testing.T) {
	now := time.Date(2026, 3, 2, 14, 5, 9, 0, time.UTC)
	fallback := domain.FallbackIdentity{Name: "Fallback Support", Email: "fallback@company.com"}

	Convey("Given a ticket", t, func() {
		ticket := sampleTicket()

		Convey("a selected candidate fills the technician fields", func() {
			tech := domain.Technician{ID: "tech-7", Name: "Lee Park", Email: "lee@company.com", CurrentWorkload: 2}
			match := ScoreSkills([]string{"SQL Database", "Data Recovery"}, []string{"SQL Database"})
			cand := &domain.AssignmentCandidate{
				Technician:        tech,
				Match:             match,
				CalendarAvailable: true,
				Tier:              domain.TierAvailableWeak,
			}

			res := BuildAssignmentResult(ticket, cand, fallback, now)
			So(res.TicketID, ShouldEqual, "TKT-1001")
			So(res.AssignedTechnician, ShouldEqual, "Lee Park")
			So(res.TechnicianEmail, ShouldEqual, "lee@company.com")
			So(res.TechnicianID, ShouldEqual, "tech-7")
			So(res.Status, ShouldEqual, domain.AssignmentStatusAssigned)
			So(res.AssignmentTier, ShouldEqual, domain.TierAvailableWeak)
			So(res.SkillMatchPercentage, ShouldEqual, 50)
			So(res.SkillMatchClassification, ShouldEqual, domain.MatchWeak)
			So(res.MatchedSkills, ShouldResemble, []string{"SQL Database"})
			So(res.MissingSkills, ShouldResemble, []string{"Data Recovery"})
			So(res.AssignmentDate, ShouldEqual, "2026-03-02")
			So(res.AssignmentTime, ShouldEqual, "14:05:09")
			So(res.RequesterEmail, ShouldEqual, ticket.RequesterEmail)
			So(res.TicketCategory, ShouldEqual, ticket.Category)
			So(res.Reasoning, ShouldEqual,
				"Technician: Lee Park, Skill Match: Weak (50%), Available: true, Current Workload: 2, Matched Skills: [SQL Database]")
			So(res.IsFallback(), ShouldBeFalse)
		})

		Convey("no candidate produces the fallback assignment", func() {
			res := BuildAssignmentResult(ticket, nil, fallback, now)
			So(res.AssignedTechnician, ShouldEqual, "Fallback Support")
			So(res.TechnicianEmail, ShouldEqual, "fallback@company.com")
			So(res.Status, ShouldEqual, domain.AssignmentStatusFallback)
			So(res.AssignmentTier, ShouldEqual, domain.TierFallback)
			So(res.SkillMatchPercentage, ShouldEqual, 0)
			So(res.CalendarAvailable, ShouldBeTrue)
			So(res.MatchedSkills, ShouldNotBeNil)
			So(res.MatchedSkills, ShouldBeEmpty)
			So(res.MissingSkills, ShouldBeEmpty)
			So(res.Reasoning, ShouldEqual, domain.FallbackReasoning)
			So(res.IsFallback(), ShouldBeTrue)
		})
	})
}
