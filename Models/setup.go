package Models

import (
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "database.db"
	}

	connection, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	DB = connection

	// 1. Base entities with no dependencies
	DB.AutoMigrate(
		&User{},
		&FCMToken{},
	)

	// 2. Entities with simple foreign keys
	DB.AutoMigrate(
		&Task{},
		&Message{},
		&Notification{},
		&Announcement{},
		&DailyWorkLog{},
	)

	// 3. Channel messaging, depends on users and channels
	DB.AutoMigrate(
		&Channel{},
		&ChannelMember{},
		&ChannelMessage{},
	)

	seedAdmin()
}

// seedAdmin creates the bootstrap admin account on first run.
func seedAdmin() {
	var count int64
	DB.Model(&User{}).Where("role = ?", RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	admin := User{Name: "Admin", Email: email, Role: RoleAdmin}
	if err := admin.SetPassword(password); err != nil {
		log.Println("Failed to hash admin password:", err)
		return
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Println("Failed to seed admin user:", err)
	}
}
