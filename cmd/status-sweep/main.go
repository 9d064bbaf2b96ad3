// Periodic job that advances audit-session statuses by their phase dates.
// Run from cron; each run applies at most one transition per session.
// cmd/status-sweep/main.go
package main

import (
	"accreditation-audit-api/config"
	"accreditation-audit-api/services"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	lifecycle := services.NewLifecycleService(config.DB)
	changes, err := lifecycle.SweepSessions()
	if err != nil {
		log.Fatal("Sweep failed:", err)
	}

	notify := services.NewNotifyService(config.DB)
	for _, change := range changes {
		log.Printf("Session %d: %s -> %s", change.SessionID, change.OldStatus, change.NewStatus)
		if os.Getenv("SWEEP_NOTIFY") != "false" {
			notify.NotifyPhaseChanged(change.SessionID, change.NewStatus)
		}
	}

	log.Printf("Sweep completed: %d session(s) advanced", len(changes))
}
