package database

import (
	"edu_eval_backend/internal/config"
	"edu_eval_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, mode string, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	logLevel := logger.Info
	if mode == "release" {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式下默认跳过迁移，除非显式指定 -migrate
	if mode == "release" && !migrate {
		return db, nil
	}

	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := seedCompetencies(db); err != nil {
		return nil, err
	}

	return db, nil
}

// 默认关键能力（LOMLOE 八项），表为空时写入
func seedCompetencies(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Competency{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []model.Competency{
		{Code: "CCL", Name: "Competencia en comunicación lingüística", Order: 1},
		{Code: "CP", Name: "Competencia plurilingüe", Order: 2},
		{Code: "STEM", Name: "Competencia matemática y en ciencia, tecnología e ingeniería", Order: 3},
		{Code: "CD", Name: "Competencia digital", Order: 4},
		{Code: "CPSAA", Name: "Competencia personal, social y de aprender a aprender", Order: 5},
		{Code: "CC", Name: "Competencia ciudadana", Order: 6},
		{Code: "CE", Name: "Competencia emprendedora", Order: 7},
		{Code: "CCEC", Name: "Competencia en conciencia y expresión culturales", Order: 8},
	}
	return db.Create(&defaults).Error
}
