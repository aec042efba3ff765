package controllers

import (
	"staffpoint_go/middleware"
	"staffpoint_go/services"
	"staffpoint_go/utils"

	"github.com/gofiber/fiber/v2"
)

type SettingsController struct{}

// GetSettings returns the timetable settings row
func (sc *SettingsController) GetSettings(c *fiber.Ctx) error {
	settings, err := services.NewSettingsService().GetOrCreate()
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to load settings", err))
	}
	return utils.Success(c, settings)
}

// UpdateSettings updates the check-in window configuration
func (sc *SettingsController) UpdateSettings(c *fiber.Ctx) error {
	var input services.UpdateTimetableSettingsInput
	if err := c.BodyParser(&input); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}

	settings, err := services.NewSettingsService().Update(input)
	if err != nil {
		return utils.RespondError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "settings", settings.ID, input)

	return utils.Success(c, settings)
}
