package repository

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseSkillList(t *testing.T) {
	Convey("ParseSkillList", t, func() {
		Convey("reads a JSON array", func() {
			So(ParseSkillList(`["SQL Database", " Data Recovery "]`), ShouldResemble, []string{"SQL Database", "Data Recovery"})
		})

		Convey("reads a comma separated string", func() {
			So(ParseSkillList("Network Troubleshooting, Router Configuration,,WiFi Setup"), ShouldResemble,
				[]string{"Network Troubleshooting", "Router Configuration", "WiFi Setup"})
		})

		Convey("recovers from a malformed array", func() {
			So(ParseSkillList(`['PC Repair', 'Printer Support']`), ShouldResemble, []string{"PC Repair", "Printer Support"})
		})

		Convey("returns an empty list for blank input", func() {
			So(ParseSkillList("   "), ShouldBeEmpty)
		})
	})
}
