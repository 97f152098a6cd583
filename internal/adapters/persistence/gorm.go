package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/config"
	"shelfwise/internal/core/domain"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore persists full state snapshots through GORM. The sqlite driver
// is the default; mysql is available for shared deployments.
type GormStore struct {
	db *gorm.DB
}

// NewStore builds the store selected by configuration
func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return NewNoopStore(), nil
	case config.DriverSQLite:
		return OpenGorm(sqlite.Open(cfg.Storage.SQLitePath), cfg.IsDev())
	case config.DriverMySQL:
		return OpenGorm(mysql.Open(buildDSN(cfg.Storage.MySQL)), cfg.IsDev())
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

// OpenGorm opens a GORM connection and migrates the schema
func OpenGorm(dialector gorm.Dialector, dev bool) (*GormStore, error) {
	gormLogger := logger.Default.LogMode(logger.Error)
	if dev {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &GormStore{db: db}, nil
}

// buildDSN returns the mysql connection string
func buildDSN(d config.MySQLConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.DBName,
	)
}

// Load reads the persisted snapshot and rebuilds the domain state
func (s *GormStore) Load(ctx context.Context) (*domain.State, error) {
	var (
		books   []models.Book
		members []models.Member
		loans   []models.Loan
		meta    models.Meta
	)

	db := s.db.WithContext(ctx)

	if err := db.Order("created_at, id").Find(&books).Error; err != nil {
		return nil, domain.Storagef(err, "load books")
	}
	if err := db.Order("created_at, id").Find(&members).Error; err != nil {
		return nil, domain.Storagef(err, "load members")
	}
	if err := db.Order("borrowed_at, id").Find(&loans).Error; err != nil {
		return nil, domain.Storagef(err, "load loans")
	}

	state := &domain.State{
		Books:        make([]domain.Book, 0, len(books)),
		Members:      make([]domain.Member, 0, len(members)),
		Loans:        make([]domain.Loan, 0, len(loans)),
		NextBookID:   1,
		NextMemberID: 1,
	}
	for _, b := range books {
		state.Books = append(state.Books, b.ToDomain())
	}
	for _, m := range members {
		state.Members = append(state.Members, m.ToDomain())
	}
	for _, l := range loans {
		state.Loans = append(state.Loans, l.ToDomain())
	}

	err := db.First(&meta).Error
	switch {
	case err == nil:
		state.NextBookID = meta.NextBookID
		state.NextMemberID = meta.NextMemberID
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First run against an empty or pre-counter database: derive the
		// counters from the highest ids present.
		for _, b := range state.Books {
			if b.ID >= state.NextBookID {
				state.NextBookID = b.ID + 1
			}
		}
		for _, m := range state.Members {
			if m.ID >= state.NextMemberID {
				state.NextMemberID = m.ID + 1
			}
		}
	default:
		return nil, domain.Storagef(err, "load meta")
	}

	return state, nil
}

// Save rewrites the snapshot in one transaction
func (s *GormStore) Save(ctx context.Context, state *domain.State) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"loans", "books", "members", "snapshot_meta"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}

		for _, b := range state.Books {
			if err := tx.Create(ptr(models.FromDomainBook(b))).Error; err != nil {
				return err
			}
		}
		for _, m := range state.Members {
			if err := tx.Create(ptr(models.FromDomainMember(m))).Error; err != nil {
				return err
			}
		}
		for _, l := range state.Loans {
			if err := tx.Create(ptr(models.FromDomainLoan(l))).Error; err != nil {
				return err
			}
		}

		meta := models.Meta{ID: 1, NextBookID: state.NextBookID, NextMemberID: state.NextMemberID}
		return tx.Create(&meta).Error
	})
	if err != nil {
		return domain.Storagef(err, "save snapshot")
	}
	return nil
}

// Close closes the underlying database connection
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ptr[T any](v T) *T { return &v }
