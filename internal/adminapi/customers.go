package adminapi

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/cantwait/lash-backend/internal/domain"
	"github.com/cantwait/lash-backend/internal/webserver"
	"github.com/cantwait/lash-backend/pkg/common"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type customerPayload struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Birthdate string `json:"birthdate"`
}

func registerCustomerRoutes() {
	webserver.ApiGET("/customers", listCustomers)
	webserver.ApiGET("/customers/:id", getCustomer)
	webserver.ApiPOST("/customers", createCustomer)
	webserver.ApiPATCH("/customers/:id", updateCustomer)
	webserver.ApiDELETE("/customers/:id", deleteCustomer)
}

func (p *customerPayload) normalize() string {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Birthdate = strings.TrimSpace(p.Birthdate)

	if p.Email != "" && !emailPattern.MatchString(p.Email) {
		return "email is not valid"
	}
	if len(p.Name) > 128 {
		return "name must be 128 characters max"
	}
	if p.Phone != "" && (len(p.Phone) < 7 || len(p.Phone) > 12) {
		return "phone must be 7 to 12 characters"
	}
	if p.Birthdate != "" {
		if _, err := time.Parse("2006-01-02", p.Birthdate); err != nil {
			return "birthdate must be YYYY-MM-DD"
		}
	}
	return ""
}

func listCustomers(c echo.Context) error {
	page, perPage := parsePagination(c)

	base := GetDB(c).Model(&domain.Customer{})
	if name := strings.TrimSpace(c.QueryParam("name")); name != "" {
		base = base.Where("name = ?", name)
	}
	if email := strings.ToLower(strings.TrimSpace(c.QueryParam("email"))); email != "" {
		base = base.Where("email = ?", email)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	var rows []domain.Customer
	if err := base.Order("created_at DESC").Offset(perPage * (page - 1)).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	return paged(c, rows, total, page, perPage)
}

func getCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var cust domain.Customer
	if err := GetDB(c).First(&cust, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}
	return ok(c, cust)
}

func createCustomer(c echo.Context) error {
	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer", err.Error())
	}
	if msg := payload.normalize(); msg != "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}
	if payload.Email == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Email is required", nil)
	}

	cust := domain.Customer{
		ID:        common.UUIDint64(),
		Email:     payload.Email,
		Name:      payload.Name,
		Phone:     payload.Phone,
		Birthdate: payload.Birthdate,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&cust).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create customer", err.Error())
	}
	return created(c, cust)
}

func updateCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var cust domain.Customer
	if err := GetDB(c).First(&cust, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}

	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer", err.Error())
	}
	if msg := payload.normalize(); msg != "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	if payload.Email != "" {
		cust.Email = payload.Email
	}
	if payload.Name != "" {
		cust.Name = payload.Name
	}
	if payload.Phone != "" {
		cust.Phone = payload.Phone
	}
	if payload.Birthdate != "" {
		cust.Birthdate = payload.Birthdate
	}
	cust.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&cust).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update customer", err.Error())
	}
	return ok(c, cust)
}

func deleteCustomer(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	if err := GetDB(c).Delete(&domain.Customer{}, id).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete customer", err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
