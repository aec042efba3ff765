package controllers

import (
	"strconv"
	"time"

	"staffpoint_go/database"
	"staffpoint_go/middleware"
	"staffpoint_go/models"
	"staffpoint_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TermController struct{}

// TermRequest represents the term create/update body
type TermRequest struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

func parseTermDates(req TermRequest) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, utils.ValidationError("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, utils.ValidationError("end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, utils.ValidationError("end_date must not be before start_date")
	}
	return start, end, nil
}

// overlapsExistingTerm reports whether [start, end] intersects any
// other term. Terms partition the calendar; overlap is a conflict.
func overlapsExistingTerm(start, end time.Time, excludeID uint) (bool, error) {
	var count int64
	err := database.DB.Model(&models.Term{}).
		Where("id != ? AND start_date <= ? AND end_date >= ?", excludeID, end, start).
		Count(&count).Error
	return count > 0, err
}

// GetTerms returns all terms
func (tc *TermController) GetTerms(c *fiber.Ctx) error {
	var terms []models.Term
	if err := database.DB.Order("start_date DESC").Find(&terms).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch terms", err))
	}
	return utils.Success(c, terms)
}

// GetTerm returns a specific term by ID
func (tc *TermController) GetTerm(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid term ID"))
	}

	var term models.Term
	if err := database.DB.First(&term, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Term not found"))
	}
	return utils.Success(c, term)
}

// CreateTerm creates a new term
func (tc *TermController) CreateTerm(c *fiber.Ctx) error {
	var req TermRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}

	start, end, err := parseTermDates(req)
	if err != nil {
		return utils.RespondError(c, err)
	}

	overlaps, err := overlapsExistingTerm(start, end, 0)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to check term overlap", err))
	}
	if overlaps {
		return utils.RespondError(c, utils.ConflictError("Term dates overlap an existing term"))
	}

	term := models.Term{
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
	}
	if err := database.DB.Create(&term).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to create term", err))
	}

	middleware.LogActivity(c, "CREATE", "terms", term.ID, term)

	return utils.Created(c, term)
}

// UpdateTerm updates an existing term
func (tc *TermController) UpdateTerm(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid term ID"))
	}

	var term models.Term
	if err := database.DB.First(&term, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Term not found"))
	}

	var req TermRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}

	start, end, err := parseTermDates(req)
	if err != nil {
		return utils.RespondError(c, err)
	}

	overlaps, err := overlapsExistingTerm(start, end, term.ID)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to check term overlap", err))
	}
	if overlaps {
		return utils.RespondError(c, utils.ConflictError("Term dates overlap an existing term"))
	}

	if err := database.DB.Model(&term).Updates(map[string]interface{}{
		"name":       req.Name,
		"start_date": start,
		"end_date":   end,
	}).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to update term", err))
	}

	middleware.LogActivity(c, "UPDATE", "terms", term.ID, req)

	return utils.Success(c, term)
}

// ActivateTerm marks a term active and deactivates every other term
func (tc *TermController) ActivateTerm(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid term ID"))
	}

	var term models.Term
	if err := database.DB.First(&term, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Term not found"))
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Term{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&term).Update("is_active", true).Error
	})
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to activate term", err))
	}

	middleware.LogActivity(c, "UPDATE", "terms", term.ID, fiber.Map{"action": "activate"})

	return utils.Success(c, term)
}

// DeleteTerm deletes a term that has no timetable slots
func (tc *TermController) DeleteTerm(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid term ID"))
	}

	var term models.Term
	if err := database.DB.First(&term, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Term not found"))
	}

	var slotCount int64
	database.DB.Model(&models.TimetableSlot{}).Where("term_id = ?", term.ID).Count(&slotCount)
	if slotCount > 0 {
		return utils.RespondError(c, utils.ConflictError("Term has timetable slots; remove them first"))
	}

	if err := database.DB.Delete(&term).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to delete term", err))
	}

	middleware.LogActivity(c, "DELETE", "terms", term.ID, term)

	return utils.Success(c, fiber.Map{"message": "Term deleted successfully"})
}
