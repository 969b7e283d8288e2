package main

import (
	"os"

	"github.com/kyra/interntrack/internal/pkg/logger"
	"github.com/kyra/interntrack/internal/server"
)

// @title Ky'ra Internship Tracker API
// @version 1.0
// @description API for logging internships, course progress and feedback, and for role-scoped impact reports
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@kyra.example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Setup functions log the details; the package default logger is still in place here
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
