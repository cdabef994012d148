package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/peregrinehq/habitloop-scheduler/loadtest/internal/stub"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8090"
	}

	r := gin.Default()

	handler := stub.NewHandler(stub.NewTaskStorage())
	handler.Register(r)

	slog.Info("gateway stub listening", slog.String("port", port))

	if err := r.Run(":" + port); err != nil {
		slog.Error("gateway stub exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
