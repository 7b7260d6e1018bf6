//go:build integration

package mock

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/kakeibo/backend/config"
	"github.com/kakeibo/backend/internal/infra/db"
	"github.com/kakeibo/backend/internal/integration/persistence"
)

var once sync.Once
var database *Db

// Db is the shared in-memory sqlite database used by every scenario.
type Db struct {
	Database *db.Database
	DbConn   *gorm.DB
	models   []any
}

// NewDb opens the database on first use and migrates every persistence model.
func NewDb() *Db {
	once.Do(func() {
		database = open()
	})
	return database
}

func open() *Db {
	conn, err := db.Open(&config.DatabaseConfig{
		Driver: db.DriverSQLite,
		URL:    "file::memory:?cache=shared",
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	models := persistence.Models()
	if err := conn.AutoMigrate(models...); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	return &Db{
		Database: conn,
		DbConn:   conn.DB(),
		models:   models,
	}
}

// ClearDB deletes every row, children before parents.
func (d *Db) ClearDB() error {
	for i := len(d.models) - 1; i >= 0; i-- {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(d.models[i]).Error
		if err != nil {
			return fmt.Errorf("failed to clear %T: %w", d.models[i], err)
		}
	}
	return nil
}

// Count returns the number of rows in table, optionally filtered by column = value.
func (d *Db) Count(table string, where map[string]any) (int64, error) {
	var count int64
	query := d.DbConn.Table(table)
	for column, value := range where {
		query = query.Where(fmt.Sprintf("%s = ?", column), value)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
