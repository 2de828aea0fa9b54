package main

import (
	"log"

	"github.com/joho/godotenv"

	"TaskHive/CronJobs"
	"TaskHive/FiberConfig"
	"TaskHive/Models"
	"TaskHive/Notifications"
	"TaskHive/Socket"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment")
	}

	Models.Connect()

	if err := Notifications.InitFirebase(); err != nil {
		log.Println("Failed to initialize Firebase:", err)
	}

	closer := CronJobs.NewWorkLogCloser(Models.DB, true)
	if err := closer.Start(); err != nil {
		log.Println("Failed to start work log closer:", err)
	}

	hub := Socket.NewHub()
	FiberConfig.FiberConfig(hub)
}
