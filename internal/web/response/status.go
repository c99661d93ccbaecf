package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/analytics"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/component"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/heroslider"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/inquiry"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/kanban"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/landingpage"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/menu"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/news"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/passwordreset"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/project"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/unit"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/landing"
	"github.com/EstateCMS/EstateCMS/internal/media"
	"github.com/EstateCMS/EstateCMS/internal/validation"
)

// ErrUnauthorized is returned when no valid token is presented.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden is returned when the caller lacks the required role or ownership.
var ErrForbidden = errors.New("forbidden")

var statuses = []struct { //nolint:gochecknoglobals
	status int
	errs   []error
}{
	{fiber.StatusNotFound, []error{
		project.ErrProjectNotFound, unit.ErrUnitNotFound, unit.ErrProjectNotFound,
		news.ErrNewsNotFound, heroslider.ErrSliderNotFound, menu.ErrMenuNotFound,
		inquiry.ErrInquiryNotFound, kanban.ErrBoardNotFound, kanban.ErrColumnNotFound,
		kanban.ErrTaskNotFound, landingpage.ErrPageNotFound, component.ErrComponentNotFound,
		user.ErrUserNotFound,
	}},
	{fiber.StatusConflict, []error{
		project.ErrSlugTaken, unit.ErrSlugTaken, news.ErrSlugTaken, landingpage.ErrSlugTaken,
		user.ErrUsernameTaken, user.ErrEmailTaken, menu.ErrHasChildren,
	}},
	{fiber.StatusUnauthorized, []error{ErrUnauthorized, user.ErrInvalidCredentials}},
	{fiber.StatusForbidden, []error{ErrForbidden, component.ErrSystemComponent}},
	{fiber.StatusRequestEntityTooLarge, []error{media.ErrTooLarge}},
	{fiber.StatusBadRequest, []error{
		validation.ErrInvalid, landing.ErrInvalidContent,
		landingpage.ErrMissingFields, landingpage.ErrInvalidStatus, landingpage.ErrInvalidExpiry,
		component.ErrMissingFields, component.ErrUnknownType,
		menu.ErrOwnParent, menu.ErrParentNotFound, menu.ErrCircular,
		inquiry.ErrInvalidStatus, kanban.ErrColumnBoardMismatch, kanban.ErrMixedBoards,
		heroslider.ErrImageRequired, analytics.ErrInvalidCounter, analytics.ErrInvalidRange,
		analytics.ErrMissingPage, analytics.ErrInvalidDevice, passwordreset.ErrInvalidToken, user.ErrInvalidRole,
		media.ErrUnsupportedType, media.ErrNotDataURI, media.ErrUnsupportedSource,
	}},
}

// Status returns the HTTP status for err.
func Status(err error) int {
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ferr.Code
	}

	for _, s := range statuses {
		for _, target := range s.errs {
			if errors.Is(err, target) {
				return s.status
			}
		}
	}

	return fiber.StatusInternalServerError
}
