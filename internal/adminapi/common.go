package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/cantwait/lash-backend/internal/notify"
	"github.com/cantwait/lash-backend/internal/session"
	"github.com/cantwait/lash-backend/internal/storage"
	"github.com/cantwait/lash-backend/internal/webserver"
)

// Deps are the collaborators the handlers need beyond the database.
type Deps struct {
	Sessions *session.Service
	Mailer   notify.Mailer
	Images   storage.ImageStore
}

var deps Deps

// Register wires every admin API route. Call once after webserver.Init.
func Register(d Deps) {
	deps = d
	registerStatusRoutes()
	registerSessionRoutes()
	registerBalanceRoutes()
	registerCategoryRoutes()
	registerProductRoutes()
	registerCustomerRoutes()
	registerUserRoutes()
	registerQueueRoutes()
}

func registerStatusRoutes() {
	webserver.PubGET("/status", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(webserver.ContextDBKey).(*gorm.DB)
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, apiError{Code: code, Message: message, Detail: detail})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":    rows,
		"total":   total,
		"page":    page,
		"perPage": pageSize,
	})
}

// parsePagination reads page/perPage query params with the documented
// defaults (page 1, 30 per page, 100 max).
func parsePagination(c echo.Context) (int, int) {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	perPage := 30
	if pp, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && pp > 0 && pp <= 100 {
		perPage = pp
	}
	return page, perPage
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// requireAdmin gates admin-only handlers; enforcement of finer roles
// lives with the auth middleware.
func requireAdmin(c echo.Context) error {
	if !webserver.IsAdmin(c) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Admin role required", nil)
	}
	return nil
}
