package controllers

import (
	"strconv"

	"staffpoint_go/database"
	"staffpoint_go/middleware"
	"staffpoint_go/models"
	"staffpoint_go/utils"

	"github.com/gofiber/fiber/v2"
)

type RoomController struct{}

var validRoomStatuses = []string{"available", "occupied", "maintenance"}

func isValidRoomStatus(status string) bool {
	for _, s := range validRoomStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// GetRooms returns all rooms with optional filters
func (rc *RoomController) GetRooms(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Room{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if minCapacity := c.Query("min_capacity"); minCapacity != "" {
		query = query.Where("capacity >= ?", minCapacity)
	}

	var rooms []models.Room
	if err := query.Order("room_name ASC").Find(&rooms).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch rooms", err))
	}

	return utils.Success(c, rooms)
}

// GetRoom returns a specific room by ID
func (rc *RoomController) GetRoom(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid room ID"))
	}

	var room models.Room
	if err := database.DB.First(&room, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Room not found"))
	}
	return utils.Success(c, room)
}

// CreateRoom creates a new room
func (rc *RoomController) CreateRoom(c *fiber.Ctx) error {
	var room models.Room
	if err := c.BodyParser(&room); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}

	if room.RoomName == "" {
		return utils.RespondError(c, utils.ValidationError("Room name is required"))
	}
	if room.Capacity <= 0 {
		return utils.RespondError(c, utils.ValidationError("Capacity must be greater than 0"))
	}

	var existing models.Room
	if err := database.DB.Where("room_name = ?", room.RoomName).First(&existing).Error; err == nil {
		return utils.RespondError(c, utils.ConflictError("Room with this name already exists"))
	}

	if room.Status == "" {
		room.Status = "available"
	}

	if err := database.DB.Create(&room).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to create room", err))
	}

	middleware.LogActivity(c, "CREATE", "rooms", room.ID, room)

	return utils.Created(c, room)
}

// UpdateRoom updates an existing room
func (rc *RoomController) UpdateRoom(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid room ID"))
	}

	var room models.Room
	if err := database.DB.First(&room, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Room not found"))
	}

	var updateData models.Room
	if err := c.BodyParser(&updateData); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}

	if updateData.Capacity < 0 {
		return utils.RespondError(c, utils.ValidationError("Capacity must be greater than 0"))
	}

	if updateData.RoomName != "" && updateData.RoomName != room.RoomName {
		var existing models.Room
		if err := database.DB.Where("room_name = ? AND id != ?", updateData.RoomName, room.ID).First(&existing).Error; err == nil {
			return utils.RespondError(c, utils.ConflictError("Room with this name already exists"))
		}
	}

	if updateData.Status != "" && !isValidRoomStatus(updateData.Status) {
		return utils.RespondError(c, utils.ValidationError("Invalid status. Must be: available, occupied, or maintenance"))
	}

	if err := database.DB.Model(&room).Updates(updateData).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to update room", err))
	}

	middleware.LogActivity(c, "UPDATE", "rooms", room.ID, updateData)

	return utils.Success(c, room)
}

// UpdateRoomStatus updates only the status of a room
func (rc *RoomController) UpdateRoomStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid room ID"))
	}

	var room models.Room
	if err := database.DB.First(&room, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Room not found"))
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if !isValidRoomStatus(req.Status) {
		return utils.RespondError(c, utils.ValidationError("Invalid status. Must be: available, occupied, or maintenance"))
	}

	oldStatus := room.Status
	if err := database.DB.Model(&room).Update("status", req.Status).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to update room status", err))
	}

	middleware.LogActivity(c, "UPDATE", "rooms", room.ID, fiber.Map{
		"action":     "status_change",
		"old_status": oldStatus,
		"new_status": req.Status,
	})

	return utils.Success(c, room)
}

// DeleteRoom deletes a room without scheduled slots
func (rc *RoomController) DeleteRoom(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid room ID"))
	}

	var room models.Room
	if err := database.DB.First(&room, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Room not found"))
	}

	var slotCount int64
	database.DB.Model(&models.TimetableSlot{}).Where("room_id = ?", room.ID).Count(&slotCount)
	if slotCount > 0 {
		return utils.RespondError(c, utils.ConflictError("Room has timetable slots; remove them first"))
	}

	if err := database.DB.Delete(&room).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to delete room", err))
	}

	middleware.LogActivity(c, "DELETE", "rooms", room.ID, room)

	return utils.Success(c, fiber.Map{"message": "Room deleted successfully"})
}
