package webserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cantwait/lash-backend/config"
	"github.com/cantwait/lash-backend/internal/domain"
	"github.com/cantwait/lash-backend/pkg/common"
)

// ContextTokenKey is where the auth middleware stores the parsed token.
const ContextTokenKey = "webserver.token"

// AuthClaims are the registered claims plus the operator identity.
type AuthClaims struct {
	Uid   int64  `json:"uid,string"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func parseTokenFunc(secret string) func(c echo.Context, auth string) (interface{}, error) {
	return func(c echo.Context, auth string) (interface{}, error) {
		token, err := jwt.ParseWithClaims(auth, &AuthClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil {
			return nil, err
		}
		if !token.Valid {
			return nil, errors.New("invalid token")
		}
		return token, nil
	}
}

// CurrentClaims returns the authenticated principal of the request, or
// nil on public routes.
func CurrentClaims(c echo.Context) *AuthClaims {
	token, ok := c.Get(ContextTokenKey).(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

// IsAdmin reports whether the request principal has the admin role.
func IsAdmin(c echo.Context) bool {
	claims := CurrentClaims(c)
	return claims != nil && claims.Role == domain.RoleAdmin
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// RegisterAuthRoutes wires the login endpoint on the public group.
func RegisterAuthRoutes() {
	PubPOST("/auth/login", login)
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unable to parse credentials"})
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Email == "" || payload.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "email and password are required"})
	}

	db := c.Get(ContextDBKey).(*gorm.DB)
	cfg := c.Get(ContextConfigKey).(*config.AppConfig)

	var user domain.User
	err := db.Where("email = ?", payload.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "login failed"})
	}
	if !user.Active || !common.CheckPassword(user.Password, payload.Password) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	expire := time.Duration(cfg.Web.JwtExpireMinutes) * time.Minute
	if expire <= 0 {
		expire = 24 * time.Hour
	}
	claims := AuthClaims{
		Uid:   user.ID,
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.Email,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Web.JwtSecret))
	if err != nil {
		zap.L().Error("failed to sign token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "login failed"})
	}

	db.Model(&domain.User{}).Where("id = ?", user.ID).Update("last_login", time.Now())
	return c.JSON(http.StatusOK, loginResult{Token: token, User: &user})
}
