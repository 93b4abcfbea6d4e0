package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cantwait/lash-backend/internal/domain"
	"github.com/cantwait/lash-backend/internal/webserver"
	"github.com/cantwait/lash-backend/pkg/common"
)

type userPayload struct {
	Email   string           `json:"email"`
	Name    string           `json:"name"`
	Role    string           `json:"role"`
	Picture string           `json:"picture"`
	Fee     *decimal.Decimal `json:"fee"`
	Active  *bool            `json:"active"`
	Address string           `json:"address"`
	Phone   string           `json:"phone"`
}

func registerUserRoutes() {
	webserver.ApiGET("/users", listUsers)
	webserver.ApiGET("/users/:id", getUser)
	webserver.ApiPOST("/users", createUser)
	webserver.ApiPATCH("/users/:id", updateUser)
	webserver.ApiDELETE("/users/:id", deleteUser)
}

func validRole(role string) bool {
	switch role {
	case domain.RoleUser, domain.RoleAdmin, domain.RoleCashier:
		return true
	}
	return false
}

func listUsers(c echo.Context) error {
	page, perPage := parsePagination(c)

	base := GetDB(c).Model(&domain.User{})
	if email := strings.ToLower(strings.TrimSpace(c.QueryParam("email"))); email != "" {
		base = base.Where("email = ?", email)
	}
	if role := strings.TrimSpace(c.QueryParam("role")); role != "" {
		base = base.Where("role = ?", role)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query users", err.Error())
	}
	var rows []domain.User
	if err := base.Order("created_at DESC").Offset(perPage * (page - 1)).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query users", err.Error())
	}
	return paged(c, rows, total, page, perPage)
}

func getUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	var user domain.User
	if err := GetDB(c).First(&user, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query user", err.Error())
	}
	return ok(c, user)
}

// createUser generates the initial password server-side and mails it to
// the new account. Mail failures do not fail the request.
func createUser(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var payload userPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse user", err.Error())
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Email == "" || !emailPattern.MatchString(payload.Email) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "A valid email is required", nil)
	}
	if payload.Role == "" {
		payload.Role = domain.RoleUser
	}
	if !validRole(payload.Role) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown role", nil)
	}

	var count int64
	if err := GetDB(c).Model(&domain.User{}).Where("email = ?", payload.Email).Count(&count).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query users", err.Error())
	}
	if count > 0 {
		return fail(c, http.StatusConflict, "USER_EXISTS", "A user with that email already exists", nil)
	}

	password := common.RandomPassword(10)
	hash, err := common.HashPassword(password)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user", err.Error())
	}

	user := domain.User{
		ID:        common.UUIDint64(),
		Email:     payload.Email,
		Password:  hash,
		Name:      strings.TrimSpace(payload.Name),
		Role:      payload.Role,
		Picture:   payload.Picture,
		Active:    true,
		Address:   payload.Address,
		Phone:     payload.Phone,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if payload.Fee != nil {
		user.Fee = *payload.Fee
	}
	if payload.Active != nil {
		user.Active = *payload.Active
	}
	if err := GetDB(c).Create(&user).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create user", err.Error())
	}

	if deps.Mailer != nil {
		if err := deps.Mailer.SendPassword(user.Email, password); err != nil {
			zap.L().Error("password mail failed", zap.String("email", user.Email), zap.Error(err))
		}
	}
	return created(c, user)
}

func updateUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	var user domain.User
	if err := GetDB(c).First(&user, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query user", err.Error())
	}

	var payload userPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse user", err.Error())
	}

	if payload.Role != "" && payload.Role != user.Role {
		if err := requireAdmin(c); err != nil {
			return err
		}
		if !validRole(payload.Role) {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown role", nil)
		}
		user.Role = payload.Role
	}
	if payload.Active != nil && *payload.Active != user.Active {
		if err := requireAdmin(c); err != nil {
			return err
		}
		user.Active = *payload.Active
	}
	if email := strings.ToLower(strings.TrimSpace(payload.Email)); email != "" {
		if !emailPattern.MatchString(email) {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "email is not valid", nil)
		}
		user.Email = email
	}
	if payload.Name != "" {
		user.Name = strings.TrimSpace(payload.Name)
	}
	if payload.Picture != "" {
		user.Picture = payload.Picture
	}
	if payload.Fee != nil {
		user.Fee = *payload.Fee
	}
	if payload.Address != "" {
		user.Address = payload.Address
	}
	if payload.Phone != "" {
		user.Phone = payload.Phone
	}
	user.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&user).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update user", err.Error())
	}
	return ok(c, user)
}

func deleteUser(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	if err := GetDB(c).Delete(&domain.User{}, id).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete user", err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
