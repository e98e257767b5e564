package main

import (
	"explainer/cmd/handlers"
	"explainer/internal/logger"
)

func main() {
	logger.Init() // Initialize the logger
	handlers.Execute()
}
