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

type EmployeeController struct{}

// GetEmployees returns all employee profiles with pagination
func (ec *EmployeeController) GetEmployees(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Employee{})
	if department := c.Query("department"); department != "" {
		query = query.Where("department = ?", department)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var total int64
	query.Count(&total)

	var employees []models.Employee
	if err := query.Preload("User").Offset(offset).Limit(limit).Find(&employees).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch employees", err))
	}

	return utils.Success(c, fiber.Map{
		"employees": employees,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetEmployee returns a specific employee profile
func (ec *EmployeeController) GetEmployee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid employee ID"))
	}

	var employee models.Employee
	if err := database.DB.Preload("User").First(&employee, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Employee not found"))
	}

	return utils.Success(c, employee)
}

// UpdateEmployeeRequest represents the profile update body
type UpdateEmployeeRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Nickname    string  `json:"nickname"`
	Position    string  `json:"position"`
	Department  string  `json:"department"`
	HireDate    *string `json:"hire_date"`
	DateOfBirth *string `json:"date_of_birth"`
	Address     string  `json:"address"`
	IsActive    *bool   `json:"is_active"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email" validate:"omitempty,email"`
}

// UpdateEmployee updates an employee profile. Contact fields live on
// the user row, so profile and user are updated in one transaction.
func (ec *EmployeeController) UpdateEmployee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid employee ID"))
	}

	var employee models.Employee
	if err := database.DB.First(&employee, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Employee not found"))
	}

	var req UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}

	profileUpdates := map[string]interface{}{}
	if req.FirstName != "" {
		profileUpdates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		profileUpdates["last_name"] = req.LastName
	}
	if req.Nickname != "" {
		profileUpdates["nickname"] = req.Nickname
	}
	if req.Position != "" {
		profileUpdates["position"] = req.Position
	}
	if req.Department != "" {
		profileUpdates["department"] = req.Department
	}
	if req.Address != "" {
		profileUpdates["address"] = req.Address
	}
	if req.IsActive != nil {
		profileUpdates["is_active"] = *req.IsActive
	}
	if req.HireDate != nil {
		d, err := time.Parse("2006-01-02", *req.HireDate)
		if err != nil {
			return utils.RespondError(c, utils.ValidationError("hire_date must be YYYY-MM-DD"))
		}
		profileUpdates["hire_date"] = d
	}
	if req.DateOfBirth != nil {
		d, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return utils.RespondError(c, utils.ValidationError("date_of_birth must be YYYY-MM-DD"))
		}
		profileUpdates["date_of_birth"] = d
	}

	userUpdates := map[string]interface{}{}
	if req.Phone != "" {
		userUpdates["phone"] = req.Phone
	}
	if req.Email != "" {
		var existing models.User
		if err := database.DB.Where("email = ? AND id != ?", req.Email, employee.UserID).First(&existing).Error; err == nil {
			return utils.RespondError(c, utils.ConflictError("Email already exists"))
		}
		userUpdates["email"] = req.Email
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if len(profileUpdates) > 0 {
			if err := tx.Model(&employee).Updates(profileUpdates).Error; err != nil {
				return err
			}
		}
		if len(userUpdates) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", employee.UserID).Updates(userUpdates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to update employee", err))
	}

	database.DB.Preload("User").First(&employee, employee.ID)

	middleware.LogActivity(c, "UPDATE", "employees", employee.ID, req)

	return utils.Success(c, employee)
}

// GetMyEmployee returns the current user's own employee profile
func (ec *EmployeeController) GetMyEmployee(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("User not found"))
	}

	var employee models.Employee
	if err := database.DB.Preload("User").Where("user_id = ?", user.ID).First(&employee).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Employee profile not found"))
	}

	return utils.Success(c, employee)
}
