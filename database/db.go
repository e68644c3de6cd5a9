// Package database initializes the sqlite store, runs auto-migrations and
// seeds the first administrator account.
package database

import (
	"io/fs"
	"log"
	"os"
	"path"
	"time"

	"blogapi/config"
	"blogapi/database/model"
	"blogapi/util/crypto"
	"blogapi/util/random"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

const defaultAdminEmail = "admin@example.com"

func initModels() error {
	models := []any{
		&model.User{},
		&model.BlogPost{},
		&model.VerificationRequest{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Printf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

func initAdminUser() error {
	empty, err := isTableEmpty("users")
	if err != nil {
		log.Printf("Error checking if users table is empty: %v", err)
		return err
	}
	if !empty {
		return nil
	}

	password := random.Seq(12)
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}
	admin := &model.User{
		Email:     defaultAdminEmail,
		Password:  hash,
		FirstName: "Site",
		LastName:  "Admin",
		Roles:     model.RoleList{model.RoleSuperAdmin},
		Created:   time.Now().Unix(),
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	log.Printf("seeded admin account %s with password %s", defaultAdminEmail, password)
	return nil
}

func isTableEmpty(tableName string) (bool, error) {
	var count int64
	err := db.Table(tableName).Count(&count).Error
	return count == 0, err
}

func InitDB(dbPath string) error {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return err
	}

	var gormLogger logger.Interface
	if config.IsDebug() {
		gormLogger = logger.Default
	} else {
		gormLogger = logger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}

	dsn := dbPath + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"
	db, err = gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if _, err = sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return err
	}

	if err := initModels(); err != nil {
		return err
	}
	return initAdminUser()
}

func CloseDB() error {
	if db != nil {
		if err := Checkpoint(); err != nil {
			log.Printf("error executing checkpoint: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}

// Checkpoint flushes the sqlite WAL into the main database file.
func Checkpoint() error {
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
