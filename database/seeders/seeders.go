package seeders

import (
	"log"

	"staffpoint_go/database"
	"staffpoint_go/models"
	"staffpoint_go/utils"
)

// Seed runs all seeders. Each seeder is a no-op when its table already
// has rows, so repeated startups are safe.
func Seed() {
	log.Println("Starting database seeding...")

	SeedUsers()
	SeedTimetableSettings()
	SeedLessonPeriods()
	SeedRooms()

	log.Println("Database seeding completed")
}

// SeedUsers creates the initial admin account
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	hashedPassword, _ := utils.HashPassword("changeme123")

	admin := models.User{
		Username: "admin",
		Password: hashedPassword,
		Email:    "admin@staffpoint.local",
		Role:     "admin",
		Status:   "active",
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Printf("Error seeding admin user: %v", err)
		return
	}

	profile := models.Employee{
		UserID:    admin.ID,
		FirstName: "System",
		LastName:  "Administrator",
		Position:  "Administrator",
		IsActive:  true,
	}
	if err := database.DB.Create(&profile).Error; err != nil {
		log.Printf("Error seeding admin profile: %v", err)
	}

	log.Println("Users seeded successfully")
}

// SeedTimetableSettings creates the singleton settings row
func SeedTimetableSettings() {
	var count int64
	database.DB.Model(&models.TimetableSettings{}).Count(&count)
	if count > 0 {
		return
	}

	settings := models.TimetableSettings{
		CheckInWindowMinutes: 15,
		LateThresholdMinutes: 10,
	}
	if err := database.DB.Create(&settings).Error; err != nil {
		log.Printf("Error seeding timetable settings: %v", err)
		return
	}
	log.Println("Timetable settings seeded successfully")
}

// SeedLessonPeriods creates a standard teaching day
func SeedLessonPeriods() {
	var count int64
	database.DB.Model(&models.LessonPeriod{}).Count(&count)
	if count > 0 {
		log.Println("Lesson periods already seeded, skipping...")
		return
	}

	periods := []models.LessonPeriod{
		{Name: "Period 1", StartTime: "09:00", EndTime: "10:30", SortOrder: 1},
		{Name: "Period 2", StartTime: "10:45", EndTime: "12:15", SortOrder: 2},
		{Name: "Period 3", StartTime: "13:00", EndTime: "14:30", SortOrder: 3},
		{Name: "Period 4", StartTime: "14:45", EndTime: "16:15", SortOrder: 4},
		{Name: "Evening", StartTime: "16:30", EndTime: "18:00", SortOrder: 5},
	}
	for _, period := range periods {
		if err := database.DB.Create(&period).Error; err != nil {
			log.Printf("Error seeding lesson period %s: %v", period.Name, err)
		}
	}

	log.Println("Lesson periods seeded successfully")
}

// SeedRooms creates a few default rooms
func SeedRooms() {
	var count int64
	database.DB.Model(&models.Room{}).Count(&count)
	if count > 0 {
		log.Println("Rooms already seeded, skipping...")
		return
	}

	rooms := []models.Room{
		{RoomName: "Room A", Capacity: 12, Status: "available"},
		{RoomName: "Room B", Capacity: 8, Status: "available"},
		{RoomName: "Meeting Room", Capacity: 20, Status: "available"},
	}
	for _, room := range rooms {
		if err := database.DB.Create(&room).Error; err != nil {
			log.Printf("Error seeding room %s: %v", room.RoomName, err)
		}
	}

	log.Println("Rooms seeded successfully")
}
