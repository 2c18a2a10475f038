package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type ConnConfig struct {
	DbName   string
	Host     string
	Port     string
	User     string
	Password string
}

func (c ConnConfig) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%s dbname=%s sslmode=disable", c.User, c.Password, c.Host, c.Port, c.DbName)
}

// URL 給 golang-migrate 使用
func (c ConnConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.DbName)
}

// GetDbConn 建立postgres連線，gorm log 導向 zerolog
func GetDbConn(cf ConnConfig, logger *zerolog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{}
	if logger != nil {
		gormCfg.Logger = gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(postgres.Open(cf.DSN()), gormCfg)
	if err != nil {
		return nil, err
	}
	return db, nil
}
