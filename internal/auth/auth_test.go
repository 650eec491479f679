package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ticket-assignment/internal/domain"
	apperrors "github.com/spec-kit/ticket-assignment/pkg/util/errorutil"
)

type stubStaffRepo struct {
	byID map[string]*domain.StaffMember
}

func (s *stubStaffRepo) Create(context.Context, *domain.StaffMember) error { return nil }

func (s *stubStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	if staff, ok := s.byID[id]; ok {
		return staff, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubStaffRepo) GetByEmail(context.Context, string) (*domain.StaffMember, error) {
	return nil, pgx.ErrNoRows
}

func TestTokenManager(t *testing.T) {
	Convey("Given a token manager", t, func() {
		tm := NewTokenManager("secret", 5)
		role := domain.StaffRoleDispatcher

		Convey("a generated token parses back to the same claims", func() {
			token, exp, err := tm.GenerateToken("staff-1", domain.SubjectTypeStaff, &role)
			So(err, ShouldBeNil)
			So(exp, ShouldHappenAfter, time.Now())

			claims, err := tm.ParseToken(token)
			So(err, ShouldBeNil)
			So(claims.SubjectID, ShouldEqual, "staff-1")
			So(claims.Subject, ShouldEqual, domain.SubjectTypeStaff)
			So(*claims.Role, ShouldEqual, domain.StaffRoleDispatcher)
		})

		Convey("a token signed with another secret is rejected", func() {
			token, _, err := NewTokenManager("other", 5).GenerateToken("staff-1", domain.SubjectTypeStaff, &role)
			So(err, ShouldBeNil)
			_, err = tm.ParseToken(token)
			So(err, ShouldNotBeNil)
		})

		Convey("an expired token is rejected", func() {
			tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
			token, _, err := tm.GenerateToken("staff-1", domain.SubjectTypeStaff, &role)
			So(err, ShouldBeNil)
			_, err = tm.ParseToken(token)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestPasswordHashing(t *testing.T) {
	Convey("HashPassword and ComparePassword agree", t, func() {
		hash, err := HashPassword("s3cret", bcrypt.MinCost)
		So(err, ShouldBeNil)
		So(ComparePassword(hash, "s3cret"), ShouldBeNil)
		So(ComparePassword(hash, "wrong"), ShouldNotBeNil)
	})
}

func TestAuthMiddleware(t *testing.T) {
	Convey("Given a protected route", t, func() {
		tm := NewTokenManager("secret", 5)
		repo := &stubStaffRepo{byID: map[string]*domain.StaffMember{
			"viewer": {ID: "viewer", Role: domain.StaffRoleViewer, Active: true},
			"admin":  {ID: "admin", Role: domain.StaffRoleAdmin, Active: true},
			"gone":   {ID: "gone", Role: domain.StaffRoleAdmin, Active: false},
		}}
		mw := NewAuthMiddleware(tm, repo)

		app := fiber.New(fiber.Config{
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				de := apperrors.ToDomainError(err)
				return c.Status(de.HTTPStatus).SendString(de.Code)
			},
		})
		app.Get("/admin", mw.Handle, RequireStaffRole(domain.StaffRoleAdmin), func(c *fiber.Ctx) error {
			p, _ := PrincipalFromContext(c)
			return c.SendString(p.Staff.ID)
		})

		call := func(header string) int {
			req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := app.Test(req)
			So(err, ShouldBeNil)
			return resp.StatusCode
		}
		tokenFor := func(id string) string {
			token, _, err := tm.GenerateToken(id, domain.SubjectTypeStaff, nil)
			So(err, ShouldBeNil)
			return "Bearer " + token
		}

		Convey("a missing header is unauthorized", func() {
			So(call(""), ShouldEqual, fiber.StatusUnauthorized)
		})
		Convey("a garbage token is unauthorized", func() {
			So(call("Bearer nope"), ShouldEqual, fiber.StatusUnauthorized)
		})
		Convey("an inactive operator is unauthorized", func() {
			So(call(tokenFor("gone")), ShouldEqual, fiber.StatusUnauthorized)
		})
		Convey("a viewer is forbidden", func() {
			So(call(tokenFor("viewer")), ShouldEqual, fiber.StatusForbidden)
		})
		Convey("an admin passes", func() {
			So(call(tokenFor("admin")), ShouldEqual, fiber.StatusOK)
		})
	})
}
