// @title QCM 后端 API
// @version 1.0
// @description 测验编排与评分服务的后端服务器。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"qcm_backend/internal/app"
	"qcm_backend/internal/config"
	"qcm_backend/pkg/configwatcher"
	"qcm_backend/pkg/logger"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	// 配置热更新：目前只调整日志级别
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		logger.ApplyMode(newCfg.Server.Mode)
		logger.Log.Info("Config reloaded, log level applied")
	})

	application.Run()
}
