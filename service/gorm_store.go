package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ZaneerahEssop/QUANTIX-sub001/config"
	"github.com/ZaneerahEssop/QUANTIX-sub001/model"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// GormStore is the relational contract store (postgres in production, sqlite for local runs and tests)
type GormStore struct {
	db *gorm.DB
}

// OpenGormStore connects using the configured driver and migrates the schema
func OpenGormStore(ctx context.Context, cfg *config.StoreConfig) (*GormStore, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	store := NewGormStore(db)
	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	slog.Info("gorm contract store initialized", "driver", cfg.Driver)
	return store, nil
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the contracts, events and vendors tables
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&model.Event{}, &model.Vendor{}, &model.Contract{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (s *GormStore) GetContract(ctx context.Context, id string) (*model.Contract, error) {
	var c model.Contract
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error; err != nil {
		return nil, storeErr("get contract", err)
	}
	return &c, nil
}

func (s *GormStore) GetContractByPair(ctx context.Context, eventID, vendorID string) (*model.Contract, error) {
	var c model.Contract
	if err := s.db.WithContext(ctx).
		Where("event_id = ? AND vendor_id = ?", eventID, vendorID).
		Take(&c).Error; err != nil {
		return nil, storeErr("get contract by pair", err)
	}
	return &c, nil
}

func (s *GormStore) SaveContract(ctx context.Context, c *model.Contract) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Contract
		q := tx.Where("event_id = ? AND vendor_id = ?", c.EventID, c.VendorID)
		if c.ID != "" {
			q = tx.Where("id = ?", c.ID)
		}
		err := q.Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if c.ID == "" {
				c.ID = uuid.New().String()
			}
			return tx.Create(c).Error
		case err != nil:
			return err
		}

		if existing.EventID != c.EventID || existing.VendorID != c.VendorID {
			return fmt.Errorf("contract %s belongs to another event or vendor", existing.ID)
		}
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
		return tx.Save(c).Error
	})
	if err != nil {
		return &StoreError{Op: "save contract", Err: err}
	}
	return nil
}

func (s *GormStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&e).Error; err != nil {
		return nil, storeErr("get event", err)
	}
	return &e, nil
}

func (s *GormStore) CreateEvent(ctx context.Context, e *model.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return &StoreError{Op: "create event", Err: err}
	}
	return nil
}

func (s *GormStore) GetVendor(ctx context.Context, id string) (*model.Vendor, error) {
	var v model.Vendor
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&v).Error; err != nil {
		return nil, storeErr("get vendor", err)
	}
	return &v, nil
}

func (s *GormStore) CreateVendor(ctx context.Context, v *model.Vendor) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return &StoreError{Op: "create vendor", Err: err}
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func storeErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return &StoreError{Op: op, Err: err}
}
