package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/modqueue/internal/config"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/dto"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/models"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/viewer"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ResolveViewer turns the JWT subject into a viewer. A person is a site admin
// when listed in ADMIN_PERSON_IDS or when their local user has the admin flag.
// Must run after JWTProtected.
func ResolveViewer(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminIDs := parseCSV(cfg.AdminPersonIDs)

	return func(c *fiber.Ctx) error {
		personID, err := viewer.GetPersonID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		v := viewer.Viewer{PersonID: personID}
		if contains(adminIDs, personID.String()) {
			v.Admin = true
		} else {
			var localUser models.LocalUser
			err := db.WithContext(c.UserContext()).Select("admin").Where("person_id = ?", personID).First(&localUser).Error
			switch {
			case err == nil:
				v.Admin = localUser.Admin
			case !errors.Is(err, gorm.ErrRecordNotFound):
				slog.Error("failed to load local user", "person_id", personID.String(), "error", err)
				return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
					Error: true, Message: "Internal server error",
				})
			}
		}

		viewer.Set(c, v)
		return c.Next()
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, strings.ToLower(trimmed))
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
