package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gasline/gasline-api/internal/config"
	"github.com/gasline/gasline-api/internal/database"
	"github.com/gasline/gasline-api/internal/services"
	"github.com/gasline/gasline-api/internal/utils"
)

func main() {
	apiURL := flag.String("url", "", "also ping the running API at this URL")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Perform health check
	result := services.HealthCheck(cfg, db)

	if *apiURL != "" {
		if err := utils.PingURL(*apiURL); err != nil {
			result.Status = "unhealthy"
			result.Details["api_ping_error"] = err.Error()
		} else {
			result.Details["api"] = "ok"
		}
	}

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	// Exit with appropriate code
	if result.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
