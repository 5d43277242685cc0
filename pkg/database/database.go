package database

import (
	"fmt"
	"log"

	"qcm_backend/internal/config"
	"qcm_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Subject{},
		&model.Qcm{},
		&model.Question{},
		&model.Answer{},
		&model.Result{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认学科
	var count int64
	db.Model(&model.Subject{}).Count(&count)
	if count == 0 {
		defaultSubjects := []string{
			"Mathématiques",
			"Physique",
			"Informatique",
			"Histoire",
			"Anglais",
		}
		for _, name := range defaultSubjects {
			db.Create(&model.Subject{Name: name})
		}
	}

	return db, nil
}
