package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Analysis{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	return &Database{gorm: db}, nil
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveAnalysis creates an analysis row.
func (d *Database) SaveAnalysis(a *Analysis) error {
	if a == nil {
		return errors.New("analysis is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(a).Error
}

// GetAnalysis fetches one stored analysis by id.
func (d *Database) GetAnalysis(id uint) (*Analysis, error) {
	var row Analysis
	if err := d.gorm.First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListAnalyses returns a page of stored analyses, newest first, plus the
// total row count.
func (d *Database) ListAnalyses(offset, limit int) ([]Analysis, int64, error) {
	var total int64
	if err := d.gorm.Model(&Analysis{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []Analysis
	err := d.gorm.Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// DeleteAnalysis removes one stored analysis.
func (d *Database) DeleteAnalysis(id uint) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	result := d.gorm.Delete(&Analysis{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountAnalyses returns the number of stored analyses.
func (d *Database) CountAnalyses() (int64, error) {
	var total int64
	err := d.gorm.Model(&Analysis{}).Count(&total).Error
	return total, err
}
