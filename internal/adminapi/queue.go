package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cantwait/lash-backend/internal/domain"
	"github.com/cantwait/lash-backend/internal/webserver"
	"github.com/cantwait/lash-backend/pkg/common"
)

type queuePayload struct {
	CustomerId int64  `json:"customerId,string"`
	Name       string `json:"name"`
}

func registerQueueRoutes() {
	webserver.ApiGET("/queue", listQueue)
	webserver.ApiPOST("/queue", enqueueCustomer)
	webserver.ApiDELETE("/queue/:id", dequeueCustomer)
}

// listQueue returns everyone waiting, oldest first.
func listQueue(c echo.Context) error {
	var rows []domain.QueueCustomer
	if err := GetDB(c).Order("created_at ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query queue", err.Error())
	}
	return ok(c, rows)
}

func enqueueCustomer(c echo.Context) error {
	var payload queuePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse queue entry", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" && payload.CustomerId == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "A name or customerId is required", nil)
	}

	// Resolve the display name from the customer record when only an
	// id was given.
	if payload.Name == "" {
		var cust domain.Customer
		if err := GetDB(c).First(&cust, payload.CustomerId).Error; err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown customer", nil)
		}
		payload.Name = cust.Name
	}

	entry := domain.QueueCustomer{
		ID:         common.UUIDint64(),
		CustomerId: payload.CustomerId,
		Name:       payload.Name,
		CreatedAt:  time.Now(),
	}
	if err := GetDB(c).Create(&entry).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to enqueue customer", err.Error())
	}
	return created(c, entry)
}

func dequeueCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid queue entry ID", nil)
	}
	if err := GetDB(c).Delete(&domain.QueueCustomer{}, id).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to dequeue customer", err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
