package db

import (
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured database. MySQL is used when a DSN is given,
// otherwise the SQLite file.
func Connect(mysqlDSN, sqliteFile string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
	if mysqlDSN != "" {
		return gorm.Open(mysql.Open(mysqlDSN), cfg)
	}
	return gorm.Open(sqlite.Open(sqliteFile), cfg)
}
