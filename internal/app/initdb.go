package app

import (
	"errors"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cantwait/lash-backend/internal/domain"
	"github.com/cantwait/lash-backend/pkg/common"
)

// checkSuper makes sure an active admin account exists so a fresh
// install is reachable. The password comes from LASH_ADMIN_PWD when set.
func (a *Application) checkSuper() {
	const superEmail = "admin@lalalash.com"

	password := os.Getenv("LASH_ADMIN_PWD")
	if password == "" {
		password = "lalalash"
	}
	hash, err := common.HashPassword(password)
	if err != nil {
		zap.L().Error("failed to hash default admin password", zap.Error(err))
		return
	}

	var admin domain.User
	err = a.gormDB.Where("email = ?", superEmail).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.User{
			ID:        common.UUIDint64(),
			Email:     superEmail,
			Password:  hash,
			Name:      "Administrador",
			Role:      domain.RoleAdmin,
			Active:    true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("email", superEmail))
		}
		return
	case err != nil:
		zap.L().Error("failed to query default admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(admin.Password) == ""
	resetRole := !strings.EqualFold(admin.Role, domain.RoleAdmin)
	resetActive := !admin.Active

	if !resetPassword && !resetRole && !resetActive {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = hash
	}
	if resetRole {
		updates["role"] = domain.RoleAdmin
	}
	if resetActive {
		updates["active"] = true
	}

	if err := a.gormDB.Model(&domain.User{}).Where("id = ?", admin.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair default admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default admin account",
		zap.String("email", superEmail),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("roleReset", resetRole),
		zap.Bool("activated", resetActive))
}

// checkCategories seeds a starter catalog category on an empty install.
func (a *Application) checkCategories() {
	var count int64
	if err := a.gormDB.Model(&domain.Category{}).Count(&count).Error; err != nil {
		zap.L().Error("failed to count categories", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	defaults := []domain.Category{
		{Name: "Servicios"},
		{Name: "Productos"},
	}
	for _, cat := range defaults {
		cat.ID = common.UUIDint64()
		cat.CreatedAt = time.Now()
		cat.UpdatedAt = time.Now()
		if err := a.gormDB.Create(&cat).Error; err != nil {
			zap.L().Error("failed to create default category", zap.String("name", cat.Name), zap.Error(err))
		} else {
			zap.L().Info("initialized default category", zap.String("name", cat.Name))
		}
	}
}
