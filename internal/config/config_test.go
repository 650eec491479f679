package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		cfg, err := Load()
		So(err, ShouldBeNil)

		Convey("defaults are applied", func() {
			So(cfg.App.Addr(), ShouldEqual, "0.0.0.0:8080")
			So(cfg.Assignment.FallbackName, ShouldEqual, "Fallback Support")
			So(cfg.Assignment.FallbackEmail, ShouldEqual, "fallback@company.com")
			So(cfg.Assignment.ActiveTiers, ShouldResemble, []int{1, 2, 3, 6})
			So(cfg.Calendar.Timeout(), ShouldEqual, 10*time.Second)
			So(cfg.SkillInference.Timeout(), ShouldEqual, 30*time.Second)
			So(cfg.SkillInference.CacheTTL(), ShouldEqual, time.Duration(0))
			So(cfg.SkillInference.BaseURL, ShouldBeEmpty)
		})
	})

	Convey("Given overrides in the environment", t, func() {
		t.Setenv("ASSIGNMENT_FALLBACK_NAME", "IT Manager")
		t.Setenv("ASSIGNMENT_FALLBACK_EMAIL", "itmanager@company.com")
		t.Setenv("ASSIGNMENT_ACTIVE_TIERS", "1, 2,3,4,6")
		t.Setenv("CALENDAR_TIMEOUT_SECONDS", "3")
		t.Setenv("SKILL_INFERENCE_RETRY_DELAY_MS", "250")

		cfg, err := Load()
		So(err, ShouldBeNil)
		So(cfg.Assignment.FallbackName, ShouldEqual, "IT Manager")
		So(cfg.Assignment.FallbackEmail, ShouldEqual, "itmanager@company.com")
		So(cfg.Assignment.ActiveTiers, ShouldResemble, []int{1, 2, 3, 4, 6})
		So(cfg.Calendar.Timeout(), ShouldEqual, 3*time.Second)
		So(cfg.SkillInference.RetryDelay(), ShouldEqual, 250*time.Millisecond)
	})

	Convey("Given an out of range tier", t, func() {
		t.Setenv("ASSIGNMENT_ACTIVE_TIERS", "1,7")

		_, err := Load()
		So(err, ShouldNotBeNil)
	})

	Convey("Given a malformed REDIS_DB", t, func() {
		t.Setenv("REDIS_DB", "zero")

		_, err := Load()
		So(err, ShouldNotBeNil)
	})
}
