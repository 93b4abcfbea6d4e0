package adminapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cantwait/lash-backend/internal/domain"
	"github.com/cantwait/lash-backend/internal/session"
	"github.com/cantwait/lash-backend/internal/webserver"
)

type sessionPayload struct {
	Comment         *string                  `json:"comment"`
	Services        *[]domain.ServiceLine    `json:"services"`
	Owner           *domain.StaffSnapshot    `json:"owner"`
	Rating          *int                     `json:"rating"`
	Customer        *domain.CustomerSnapshot `json:"customer"`
	State           *string                  `json:"state"`
	IsTax           *bool                    `json:"isTax"`
	Discount        *decimal.Decimal         `json:"discount"`
	TransactionType *string                  `json:"transactionType"`
	IsCrudUpdate    bool                     `json:"isCrudUpdate"`
}

func registerSessionRoutes() {
	webserver.ApiGET("/sessions", listSessions)
	webserver.ApiPOST("/sessions", createSession)
	webserver.ApiPATCH("/sessions/:id", updateSession)
	webserver.ApiDELETE("/sessions/:id", deleteSession)
	webserver.ApiGET("/sessions/balance/:date", listSessionsByDay)
}

func listSessions(c echo.Context) error {
	page, perPage := parsePagination(c)
	q := session.ListQuery{
		Page:    page,
		PerPage: perPage,
		Name:    strings.TrimSpace(c.QueryParam("name")),
		State:   strings.TrimSpace(c.QueryParam("state")),
	}
	rows, err := deps.Sessions.List(c.Request().Context(), q)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sessions", err.Error())
	}
	return ok(c, rows)
}

func createSession(c echo.Context) error {
	var payload sessionPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse session", err.Error())
	}

	sess := domain.Session{State: domain.SessionOpened}
	if payload.Comment != nil {
		sess.Comment = *payload.Comment
	}
	if payload.Services != nil {
		sess.Services = *payload.Services
	}
	if payload.Owner != nil {
		sess.Owner = *payload.Owner
	}
	if payload.Rating != nil {
		sess.Rating = *payload.Rating
	}
	if payload.Customer != nil {
		sess.Customer = *payload.Customer
	}
	if payload.IsTax != nil {
		sess.IsTax = *payload.IsTax
	}
	if payload.Discount != nil {
		sess.Discount = *payload.Discount
	}
	if payload.TransactionType != nil {
		sess.TransactionType = *payload.TransactionType
	}

	if err := deps.Sessions.Create(c.Request().Context(), &sess); err != nil {
		return sessionError(c, err, "Failed to create session")
	}
	return created(c, sess)
}

func updateSession(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid session ID", nil)
	}
	var payload sessionPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse session", err.Error())
	}

	in := session.UpdateInput{
		Comment:         payload.Comment,
		Services:        payload.Services,
		Owner:           payload.Owner,
		Rating:          payload.Rating,
		Customer:        payload.Customer,
		State:           payload.State,
		IsTax:           payload.IsTax,
		Discount:        payload.Discount,
		TransactionType: payload.TransactionType,
		IsCrudUpdate:    payload.IsCrudUpdate,
	}
	sess, err := deps.Sessions.Update(c.Request().Context(), id, in)
	if err != nil {
		return sessionError(c, err, "Failed to update session")
	}
	return ok(c, sess)
}

func deleteSession(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid session ID", nil)
	}
	if err := deps.Sessions.Remove(c.Request().Context(), id); err != nil {
		return sessionError(c, err, "Failed to delete session")
	}
	return c.NoContent(http.StatusNoContent)
}

func listSessionsByDay(c echo.Context) error {
	rows, err := deps.Sessions.ListSessionsByDay(c.Request().Context(), c.Param("date"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Expected date as YYYY-MM-DD", err.Error())
	}
	return ok(c, rows)
}

func sessionError(c echo.Context, err error, msg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fail(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found", nil)
	case errors.Is(err, session.ErrUnknownState),
		errors.Is(err, session.ErrInvalidDiscount),
		errors.Is(err, session.ErrSessionClosed):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	default:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", msg, err.Error())
	}
}
