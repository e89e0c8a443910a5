package main

import (
	"github.com/econograph/backend/internal/server"
	"github.com/econograph/backend/internal/util"
	"github.com/econograph/backend/pkg/logger"
	"github.com/econograph/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
