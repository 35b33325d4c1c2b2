package db

import (
	"context"
	"time"

	"github.com/prasetyowira/qr-utils/constant"
	"github.com/prasetyowira/qr-utils/domain/generator"
	"github.com/prasetyowira/qr-utils/domain/payload"
	"github.com/prasetyowira/qr-utils/domain/qrerr"
	appLogger "github.com/prasetyowira/qr-utils/infrastructure/logger"
	"github.com/prasetyowira/qr-utils/infrastructure/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// SQLiteRepository implements generator.HistoryRepository
type SQLiteRepository struct {
	db *gorm.DB
}

// ArtifactModel is the GORM model for a generated artifact
type ArtifactModel struct {
	ID             uint   `gorm:"primaryKey"`
	Kind           string `gorm:"index;not null"`
	Path           string `gorm:"not null"`
	Format         string `gorm:"not null"`
	PayloadPreview string
	Version        int
	Bytes          int64
	CreatedAt      time.Time `gorm:"index"`
}

// TableName keeps the table name stable across model renames.
func (ArtifactModel) TableName() string {
	return "artifacts"
}

// GormLogger implements GORM's logger.Interface
type GormLogger struct{}

// LogMode implements the log.Interface method
func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	return l
}

// Info logs info messages
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxInfo(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Warn logs warn messages
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxWarn(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Error logs error messages
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxError(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeDBGeneral,
			Message: msg,
			Type:    constant.ErrTypeDB,
		},
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Trace logs SQL operations
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil {
		appLogger.CtxError(ctx, "SQL error", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBGeneral,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataElapsed: elapsed.String(),
				constant.DataRows:    rows,
				constant.DataSQL:     sql,
			},
		})
		return
	}

	appLogger.CtxDebug(ctx, "SQL query", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataElapsed: elapsed.String(),
			constant.DataRows:    rows,
			constant.DataSQL:     sql,
		},
	})
}

// NewSQLiteRepository opens (and migrates) the history database at dbPath
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	ctx := appLogger.NewRequestContext()

	appLogger.CtxDebug(ctx, "Opening SQLite database", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: &GormLogger{},
	})
	if err != nil {
		appLogger.CtxError(ctx, "Failed to open database", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBOpen,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataPath: dbPath,
			},
		})
		return nil, qrerr.Persistence(constant.CtxDB, dbPath, err)
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(&ArtifactModel{}); err != nil {
		appLogger.CtxError(ctx, "Failed to migrate database schema", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBMigrate,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataPath: dbPath,
			},
		})
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, qrerr.Persistence(constant.CtxDB, dbPath, err)
	}

	appLogger.CtxInfo(ctx, "Database initialized successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	return &SQLiteRepository{db: db}, nil
}

// Store records a generated artifact and sets its ID
func (r *SQLiteRepository) Store(ctx context.Context, artifact *generator.Artifact) error {
	model := ArtifactModel{
		Kind:           string(artifact.Kind),
		Path:           artifact.Path,
		Format:         string(artifact.Format),
		PayloadPreview: artifact.PayloadPreview,
		Version:        artifact.Version,
		Bytes:          artifact.Bytes,
		CreatedAt:      artifact.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		appLogger.CtxError(ctx, "Failed to insert artifact", appLogger.LoggerInfo{
			ContextFunction: constant.CtxStore,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBInsert,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataKind:       model.Kind,
				constant.DataOutputPath: model.Path,
			},
		})
		return result.Error
	}

	artifact.ID = model.ID

	appLogger.CtxDebug(ctx, "Artifact stored successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxStore,
		Data: map[string]interface{}{
			constant.DataKind:         model.Kind,
			constant.DataOutputPath:   model.Path,
			constant.DataRowsAffected: result.RowsAffected,
		},
	})

	return nil
}

// ListRecent returns up to limit artifacts, newest first
func (r *SQLiteRepository) ListRecent(ctx context.Context, limit int) ([]generator.Artifact, error) {
	var models []ArtifactModel

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		appLogger.CtxError(ctx, "Failed to list artifacts", appLogger.LoggerInfo{
			ContextFunction: constant.CtxListRecent,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataLimit: limit,
			},
		})
		return nil, err
	}

	artifacts := make([]generator.Artifact, 0, len(models))
	for _, m := range models {
		artifacts = append(artifacts, generator.Artifact{
			ID:             m.ID,
			Kind:           payload.Kind(m.Kind),
			Path:           m.Path,
			Format:         storage.Format(m.Format),
			PayloadPreview: m.PayloadPreview,
			Version:        m.Version,
			Bytes:          m.Bytes,
			CreatedAt:      m.CreatedAt,
		})
	}

	appLogger.CtxDebug(ctx, "Artifacts listed", appLogger.LoggerInfo{
		ContextFunction: constant.CtxListRecent,
		Data: map[string]interface{}{
			constant.DataLimit: limit,
			constant.DataRows:  len(artifacts),
		},
	})

	return artifacts, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	ctx := context.Background()
	sqlDB, err := r.db.DB()
	if err != nil {
		appLogger.CtxError(ctx, "Failed to get database connection", appLogger.LoggerInfo{
			ContextFunction: constant.CtxClose,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBClose,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return err
	}

	appLogger.CtxInfo(ctx, "Closing database connection", appLogger.LoggerInfo{
		ContextFunction: constant.CtxClose,
	})

	return sqlDB.Close()
}
