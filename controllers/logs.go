package controllers

import (
	"strconv"

	"staffpoint_go/database"
	"staffpoint_go/models"
	"staffpoint_go/services"
	"staffpoint_go/utils"

	"github.com/gofiber/fiber/v2"
)

// LogController exposes activity logs and their S3 archives (admin)
type LogController struct{}

// GetActivityLogs returns recent activity logs with pagination
func (lc *LogController) GetActivityLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.ActivityLog{}).Preload("User")
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}

	var total int64
	query.Count(&total)

	var logs []models.ActivityLog
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch activity logs", err))
	}

	return utils.Success(c, fiber.Map{
		"logs": logs,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetLogArchives lists archived log files
func (lc *LogController) GetLogArchives(c *fiber.Ctx) error {
	archives, err := services.NewLogArchiveService().GetArchivedLogs()
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to list archives", err))
	}
	return utils.Success(c, archives)
}

// DownloadLogArchive streams an archive zip from S3
func (lc *LogController) DownloadLogArchive(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid archive ID"))
	}

	reader, fileName, err := services.NewLogArchiveService().DownloadArchivedLogs(uint(id))
	if err != nil {
		return utils.RespondError(c, utils.NotFoundError("Archive not available"))
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=\""+fileName+"\"")
	return c.SendStream(reader)
}
