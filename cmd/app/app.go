package main

import (
	"os"

	"github.com/DRSN-tech/product-catalog/internal/app"
	config "github.com/DRSN-tech/product-catalog/internal/cfg"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
)

//	@title			Product Catalog API
//	@version		1.0
//	@description	Каталог товаров: создание, мягкое удаление, чтение с пагинацией и обновление.
//	@BasePath		/api/v1

func main() {
	bootLog := logger.NewLogger(os.Getenv("APP_ENV"))

	if err := config.LoadDotEnv(); err != nil {
		bootLog.Errorf(err, "failed to read .env")
		os.Exit(1)
	}

	cfg, err := config.Load(bootLog)
	if err != nil {
		bootLog.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.App.Env)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
