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

type productPayload struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Pictures    []string         `json:"pictures"`
	CategoryId  *int64           `json:"categoryId,string"`
	Price       *decimal.Decimal `json:"price"`
}

type galleryPayload struct {
	Url string `json:"url"`
}

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPATCH("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)

	webserver.ApiGET("/products/:id/gallery", getProductGallery)
	webserver.ApiPOST("/products/:id/gallery", addGalleryImage)
	webserver.ApiDELETE("/products/:id/gallery", removeGalleryImage)
}

func listProducts(c echo.Context) error {
	page, perPage := parsePagination(c)

	base := GetDB(c).Model(&domain.Product{})
	if name := strings.TrimSpace(c.QueryParam("name")); name != "" {
		base = base.Where("name = ?", name)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	var rows []domain.Product
	if err := base.Order("created_at DESC").Offset(perPage * (page - 1)).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return paged(c, rows, total, page, perPage)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).First(&p, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" || len(payload.Name) > 128 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required, 128 characters max", nil)
	}
	if payload.Price != nil && payload.Price.IsNegative() {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Price must be >= 0", nil)
	}

	var dup domain.Product
	if err := GetDB(c).Where("name = ?", payload.Name).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_PRODUCT", "Product with this name already exists", nil)
	}

	p := domain.Product{
		ID:          common.UUIDint64(),
		Name:        payload.Name,
		Description: strings.TrimSpace(payload.Description),
		Pictures:    payload.Pictures,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if payload.CategoryId != nil {
		p.CategoryId = *payload.CategoryId
	}
	if payload.Price != nil {
		p.Price = *payload.Price
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	return created(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).First(&p, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if name := strings.TrimSpace(payload.Name); name != "" {
		var dup domain.Product
		if err := GetDB(c).Where("name = ? AND id != ?", name, id).First(&dup).Error; err == nil {
			return fail(c, http.StatusConflict, "DUPLICATE_PRODUCT", "Another product with this name already exists", nil)
		}
		p.Name = name
	}
	if desc := strings.TrimSpace(payload.Description); desc != "" {
		p.Description = desc
	}
	if payload.Pictures != nil {
		p.Pictures = payload.Pictures
	}
	if payload.CategoryId != nil {
		p.CategoryId = *payload.CategoryId
	}
	if payload.Price != nil {
		if payload.Price.IsNegative() {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Price must be >= 0", nil)
		}
		p.Price = *payload.Price
	}
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetDB(c).Delete(&domain.Product{}, id).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	// The gallery follows its product.
	GetDB(c).Where("product_id = ?", id).Delete(&domain.ProductGallery{})
	return c.NoContent(http.StatusNoContent)
}

func getProductGallery(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var g domain.ProductGallery
	if err := GetDB(c).Where("product_id = ?", id).First(&g).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return ok(c, domain.ProductGallery{ProductId: id, Urls: []string{}})
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query gallery", err.Error())
	}
	return ok(c, g)
}

func addGalleryImage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload galleryPayload
	if err := c.Bind(&payload); err != nil || strings.TrimSpace(payload.Url) == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Image url is required", nil)
	}

	var p domain.Product
	if err := GetDB(c).First(&p, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var g domain.ProductGallery
	err = GetDB(c).Where("product_id = ?", id).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		g = domain.ProductGallery{
			ID:        common.UUIDint64(),
			ProductId: id,
			CreatedAt: time.Now(),
		}
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query gallery", err.Error())
	}
	g.Urls = append(g.Urls, strings.TrimSpace(payload.Url))
	g.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&g).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update gallery", err.Error())
	}
	return ok(c, g)
}

func removeGalleryImage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload galleryPayload
	if err := c.Bind(&payload); err != nil || strings.TrimSpace(payload.Url) == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Image url is required", nil)
	}
	url := strings.TrimSpace(payload.Url)

	var g domain.ProductGallery
	if err := GetDB(c).Where("product_id = ?", id).First(&g).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "GALLERY_NOT_FOUND", "Gallery not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query gallery", err.Error())
	}

	kept := g.Urls[:0]
	removed := false
	for _, u := range g.Urls {
		if u == url && !removed {
			removed = true
			continue
		}
		kept = append(kept, u)
	}
	if !removed {
		return fail(c, http.StatusNotFound, "IMAGE_NOT_FOUND", "Image not in gallery", nil)
	}
	g.Urls = kept
	g.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&g).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update gallery", err.Error())
	}

	// Best effort: the DB row no longer references the image, so a failed
	// provider release only leaks storage, never breaks the gallery.
	if err := deps.Images.Release(c.Request().Context(), url); err != nil {
		zap.L().Error("failed to release gallery image", zap.String("url", url), zap.Error(err))
	}
	return ok(c, g)
}
