package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/cantwait/lash-backend/internal/domain"
	"github.com/cantwait/lash-backend/internal/webserver"
	"github.com/cantwait/lash-backend/pkg/common"
)

type categoryPayload struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func registerCategoryRoutes() {
	webserver.ApiGET("/categories", listCategories)
	webserver.ApiGET("/categories/:id", getCategory)
	webserver.ApiPOST("/categories", createCategory)
	webserver.ApiPATCH("/categories/:id", updateCategory)
	webserver.ApiDELETE("/categories/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	page, perPage := parsePagination(c)

	base := GetDB(c).Model(&domain.Category{})
	if name := strings.TrimSpace(c.QueryParam("name")); name != "" {
		base = base.Where("name = ?", name)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	var rows []domain.Category
	if err := base.Order("created_at DESC").Offset(perPage * (page - 1)).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return paged(c, rows, total, page, perPage)
}

func getCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var cat domain.Category
	if err := GetDB(c).First(&cat, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}
	return ok(c, cat)
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" || len(payload.Name) > 128 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required, 128 characters max", nil)
	}
	if strings.TrimSpace(payload.Icon) == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Icon is required", nil)
	}

	var dup domain.Category
	if err := GetDB(c).Where("name = ?", payload.Name).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_CATEGORY", "Category with this name already exists", nil)
	}

	cat := domain.Category{
		ID:        common.UUIDint64(),
		Name:      payload.Name,
		Icon:      strings.TrimSpace(payload.Icon),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&cat).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err.Error())
	}
	return created(c, cat)
}

func updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var cat domain.Category
	if err := GetDB(c).First(&cat, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}

	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	if name := strings.TrimSpace(payload.Name); name != "" {
		var dup domain.Category
		if err := GetDB(c).Where("name = ? AND id != ?", name, id).First(&dup).Error; err == nil {
			return fail(c, http.StatusConflict, "DUPLICATE_CATEGORY", "Another category with this name already exists", nil)
		}
		cat.Name = name
	}
	if icon := strings.TrimSpace(payload.Icon); icon != "" {
		cat.Icon = icon
	}
	cat.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&cat).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update category", err.Error())
	}
	return ok(c, cat)
}

func deleteCategory(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}

	// A category referenced by products cannot be removed.
	var prodCount int64
	if err := GetDB(c).Model(&domain.Product{}).Where("category_id = ?", id).Count(&prodCount).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category products", err.Error())
	}
	if prodCount > 0 {
		return fail(c, http.StatusConflict, "CATEGORY_IN_USE", "Can't remove a category already associated to an existing product", nil)
	}

	if err := GetDB(c).Delete(&domain.Category{}, id).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
