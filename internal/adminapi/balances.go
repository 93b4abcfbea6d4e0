package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cantwait/lash-backend/internal/domain"
	"github.com/cantwait/lash-backend/internal/webserver"
	"github.com/cantwait/lash-backend/pkg/common"
)

type balancePayload struct {
	Desc   string           `json:"desc"`
	Mode   string           `json:"mode"`
	Amount *decimal.Decimal `json:"amount"`
}

func registerBalanceRoutes() {
	webserver.ApiGET("/balances", listBalances)
	webserver.ApiPOST("/balances", createBalance)
	webserver.ApiGET("/balances/day/:date", listBalancesByDay)
	webserver.ApiGET("/balances/:id", getBalance)
	webserver.ApiPATCH("/balances/:id", updateBalance)
	webserver.ApiDELETE("/balances/:id", deleteBalance)
}

func (p *balancePayload) validate() (string, bool) {
	p.Desc = strings.TrimSpace(p.Desc)
	if len(p.Desc) < 3 || len(p.Desc) > 128 {
		return "desc must be 3 to 128 characters", false
	}
	if p.Mode != domain.BalanceIncome && p.Mode != domain.BalanceOutcome {
		return "mode must be 'income' or 'outcome'", false
	}
	if p.Amount == nil {
		return "amount is required", false
	}
	return "", true
}

func listBalances(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	page, perPage := parsePagination(c)

	base := GetDB(c).Model(&domain.Balance{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query balances", err.Error())
	}
	var rows []domain.Balance
	if err := base.Order("created_at DESC").Offset(perPage * (page - 1)).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query balances", err.Error())
	}
	return paged(c, rows, total, page, perPage)
}

func listBalancesByDay(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	rows, err := deps.Sessions.ListBalanceByDay(c.Request().Context(), c.Param("date"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Expected date as YYYY-MM-DD", err.Error())
	}
	return ok(c, rows)
}

func getBalance(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid balance ID", nil)
	}
	var b domain.Balance
	if err := GetDB(c).First(&b, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "BALANCE_NOT_FOUND", "Balance not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query balance", err.Error())
	}
	return ok(c, b)
}

func createBalance(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var payload balancePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse balance", err.Error())
	}
	if msg, valid := payload.validate(); !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	b := domain.Balance{
		ID:        common.UUIDint64(),
		Desc:      payload.Desc,
		Mode:      payload.Mode,
		Amount:    *payload.Amount,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&b).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create balance", err.Error())
	}
	return created(c, b)
}

func updateBalance(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid balance ID", nil)
	}
	var b domain.Balance
	if err := GetDB(c).First(&b, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "BALANCE_NOT_FOUND", "Balance not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query balance", err.Error())
	}

	var payload balancePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse balance", err.Error())
	}
	if msg, valid := payload.validate(); !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	b.Desc = payload.Desc
	b.Mode = payload.Mode
	b.Amount = *payload.Amount
	b.UpdatedAt = time.Now()
	if err := GetDB(c).Save(&b).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update balance", err.Error())
	}
	return ok(c, b)
}

func deleteBalance(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid balance ID", nil)
	}
	if err := GetDB(c).Delete(&domain.Balance{}, id).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete balance", err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
