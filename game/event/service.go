// Package event manages global game events. At most one is active.
package event

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/flatearthwars/server/model"
)

// ErrNoActiveEvent is returned when no event is running.
var ErrNoActiveEvent = errors.New("no active event")

// Service manages the global event singleton.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New creates an event Service.
func New(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Active returns the running event or ErrNoActiveEvent.
func (s *Service) Active(ctx context.Context) (*model.Event, error) {
	var e model.Event
	err := s.db.WithContext(ctx).Where("active = ?", true).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveEvent
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create starts a new event, deactivating any running one in the same
// transaction.
func (s *Service) Create(ctx context.Context, name, description string, effect datatypes.JSON) (*model.Event, error) {
	e := &model.Event{
		Name:        name,
		Description: description,
		Effect:      effect,
		Active:      true,
		Timestamp:   time.Now(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Event{}).
			Where("active = ?", true).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Create(e).Error
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("event started", zap.String("name", name))
	return e, nil
}

// Deactivate ends any running event.
func (s *Service) Deactivate(ctx context.Context) error {
	return s.db.WithContext(ctx).Model(&model.Event{}).
		Where("active = ?", true).
		Update("active", false).Error
}
