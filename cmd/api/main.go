package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/app"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/shared/apperror"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.Run(); err != nil {
		logger.Fatal("api exited", zap.Error(err))
	}
}
