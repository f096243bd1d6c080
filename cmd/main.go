package main

import (
	"github.com/duccv/student-service/config"
	"github.com/duccv/student-service/pkg/logger"
	"github.com/duccv/student-service/pkg/server"
	"go.uber.org/zap"

	_ "github.com/duccv/student-service/docs"
)

//	@title			STUDENT SERVICE APIs
//	@version		1.0
//	@description	Teacher authentication and student records.
//	@contact.name	DucCV

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				JWT authorization header, "Bearer <token>"
func main() {
	env := config.GetEnv()

	zapLogger := logger.GetLogger(env.LoggerConfig)
	defer logger.Sync()

	if err := server.StartServer(env); err != nil {
		zapLogger.Fatal("Server stopped", zap.Error(err))
	}
}
