package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/spec-kit/ticket-assignment/internal/domain"
)

func TestToDomainError(t *testing.T) {
	Convey("Errors map onto the API envelope", t, func() {
		So(ToDomainError(nil), ShouldBeNil)

		Convey("domain errors pass through", func() {
			src := NewForbidden("nope")
			So(ToDomainError(fmt.Errorf("wrapped: %w", src)), ShouldEqual, src)
		})

		Convey("invalid ticket data is a 422 with the missing fields", func() {
			err := fmt.Errorf("assign: %w", &domain.InvalidTicketDataError{Fields: []string{"ticket_id", "due_date"}})
			de := ToDomainError(err)
			So(de.Code, ShouldEqual, "INVALID_TICKET_DATA")
			So(de.HTTPStatus, ShouldEqual, http.StatusUnprocessableEntity)
			So(de.Details["missing_fields"], ShouldResemble, []string{"ticket_id", "due_date"})
			So(errors.Is(de, domain.ErrInvalidTicketData), ShouldBeTrue)
		})

		Convey("missing rows are not found", func() {
			de := ToDomainError(fmt.Errorf("lookup: %w", pgx.ErrNoRows))
			So(de.Code, ShouldEqual, "NOT_FOUND")
			So(de.HTTPStatus, ShouldEqual, http.StatusNotFound)
		})

		Convey("fiber errors keep their status", func() {
			de := ToDomainError(fiber.ErrMethodNotAllowed)
			So(de.Code, ShouldEqual, "METHOD_NOT_ALLOWED")
			So(de.HTTPStatus, ShouldEqual, http.StatusMethodNotAllowed)

			de = ToDomainError(fiber.NewError(http.StatusTeapot, "short and stout"))
			So(de.Code, ShouldEqual, "REQUEST_FAILED")
			So(de.Message, ShouldEqual, "short and stout")
		})

		Convey("anything else is internal", func() {
			de := ToDomainError(errors.New("boom"))
			So(de.Code, ShouldEqual, "INTERNAL_ERROR")
			So(de.HTTPStatus, ShouldEqual, http.StatusInternalServerError)
			So(de.Error(), ShouldContainSubstring, "boom")
		})
	})
}
