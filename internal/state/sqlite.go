package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/user/retroboard/internal/types"
)

// documentRowID is the primary key of the single row holding the registry.
const documentRowID = 1

type documentRow struct {
	ID        uint `gorm:"primarykey"`
	Body      []byte
	UpdatedAt time.Time
}

func (documentRow) TableName() string {
	return "board_documents"
}

// SQLiteStore keeps the whole registry document as one row of an embedded
// SQLite database. Each Save replaces the row inside a transaction.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLiteStore opens (creating if needed) the database at path and runs migrations.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*types.Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).First(&row, documentRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load board row: %w", err)
	}
	return decodeDocument(row.Body)
}

func (s *SQLiteStore) Save(ctx context.Context, doc *types.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	row := documentRow{ID: documentRowID, Body: data, UpdatedAt: time.Now()}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("save board row: %w", err)
		}
		return nil
	})
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
