package service

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/spec-kit/ticket-assignment/internal/domain"
)

func TestScoreSkills(t *testing.T) {
	Convey("Given required skills and a technician skill list", t, func() {
		Convey("an empty requirement is a neutral mid match", func() {
			res := ScoreSkills(nil, []string{"Networking"})
			So(res.MatchPercentage, ShouldEqual, 50)
			So(res.Classification, ShouldEqual, domain.MatchMid)
			So(res.MatchedSkills, ShouldBeEmpty)
			So(res.MissingSkills, ShouldBeEmpty)
		})

		Convey("matching is case-insensitive and works in both directions", func() {
			res := ScoreSkills(
				[]string{"network troubleshooting", "SQL", "Printer Support"},
				[]string{"Network Troubleshooting", "SQL Database Administration"},
			)
			So(res.MatchedSkills, ShouldResemble, []string{"network troubleshooting", "SQL"})
			So(res.MissingSkills, ShouldResemble, []string{"Printer Support"})
			So(res.MatchPercentage, ShouldEqual, 66)
			So(res.Classification, ShouldEqual, domain.MatchMid)
		})

		Convey("a technician skill contained in the requirement also counts", func() {
			res := ScoreSkills([]string{"Windows Server Administration"}, []string{"windows server"})
			So(res.MatchPercentage, ShouldEqual, 100)
			So(res.Classification, ShouldEqual, domain.MatchStrong)
		})

		Convey("blank technician skills never match", func() {
			res := ScoreSkills([]string{"Email Configuration"}, []string{"", "   "})
			So(res.MatchPercentage, ShouldEqual, 0)
			So(res.Classification, ShouldEqual, domain.MatchWeak)
		})

		Convey("percentages are truncated", func() {
			res := ScoreSkills([]string{"a1", "b2", "c3"}, []string{"a1", "b2"})
			So(res.MatchPercentage, ShouldEqual, 66)
		})

		Convey("no technician skills means a weak zero", func() {
			res := ScoreSkills([]string{"Hardware Troubleshooting"}, nil)
			So(res.MatchPercentage, ShouldEqual, 0)
			So(res.MissingSkills, ShouldResemble, []string{"Hardware Troubleshooting"})
		})
	})
}

func TestClassifyMatch(t *testing.T) {
	Convey("Band boundaries are inclusive at the lower end", t, func() {
		So(ClassifyMatch(100), ShouldEqual, domain.MatchStrong)
		So(ClassifyMatch(70), ShouldEqual, domain.MatchStrong)
		So(ClassifyMatch(69), ShouldEqual, domain.MatchMid)
		So(ClassifyMatch(60), ShouldEqual, domain.MatchMid)
		So(ClassifyMatch(59), ShouldEqual, domain.MatchWeak)
		So(ClassifyMatch(0), ShouldEqual, domain.MatchWeak)
	})

	Convey("Random skill sets always land in a consistent band", t, func() {
		pool := []string{"dns", "dhcp", "vpn", "sql", "outlook", "linux", "printer", "backup"}
		rng := rand.New(rand.NewSource(7))

		for i := 0; i < 200; i++ {
			var required, owned []string
			for _, s := range pool {
				if rng.Intn(2) == 0 {
					required = append(required, s)
				}
				if rng.Intn(2) == 0 {
					owned = append(owned, s)
				}
			}
			res := ScoreSkills(required, owned)

			So(res.MatchPercentage, ShouldBeBetweenOrEqual, 0, 100)
			So(res.Classification, ShouldEqual, ClassifyMatch(res.MatchPercentage))
			if len(required) > 0 {
				So(len(res.MatchedSkills)+len(res.MissingSkills), ShouldEqual, len(required))
			}
		}
	})
}
