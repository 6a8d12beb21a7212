// Package battlelog persists battle records asynchronously. Battles are
// append-only history; losing one record under pressure beats stalling an
// attack request on a slow disk.
package battlelog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/flatearthwars/server/model"
)

// Service batches battle records onto the database in the background.
type Service struct {
	db     *gorm.DB
	ch     chan *model.Battle
	stopCh chan struct{}
	wg     sync.WaitGroup
	logger *zap.Logger
}

// New creates a battlelog Service and starts its background worker.
func New(db *gorm.DB, logger *zap.Logger) *Service {
	svc := &Service{
		db:     db,
		ch:     make(chan *model.Battle, 1024),
		stopCh: make(chan struct{}),
		logger: logger,
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// Record enqueues a battle for async DB write.
func (svc *Service) Record(b *model.Battle) {
	if b.Timestamp.IsZero() {
		b.Timestamp = time.Now()
	}
	select {
	case svc.ch <- b:
	default:
		svc.logger.Warn("battle log channel full, dropping record",
			zap.String("attacker", b.Attacker),
			zap.String("defender", b.Defender))
	}
}

// RecentByParticipant returns the latest battles the player fought in,
// as attacker or defender, newest first.
func (svc *Service) RecentByParticipant(ctx context.Context, username string, limit int) ([]model.Battle, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var battles []model.Battle
	err := svc.db.WithContext(ctx).
		Where("attacker = ? OR defender = ?", username, username).
		Order("timestamp DESC").
		Limit(limit).
		Find(&battles).Error
	return battles, err
}

// Stop flushes remaining records and shuts down the worker.
// It blocks until the worker goroutine has finished.
func (svc *Service) Stop(_ context.Context) {
	select {
	case <-svc.stopCh:
	default:
		close(svc.stopCh)
	}
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	batch := make([]*model.Battle, 0, 100)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.Create(&batch).Error; err != nil {
			svc.logger.Error("battle batch write failed", zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case b := <-svc.ch:
			batch = append(batch, b)
			if len(batch) >= 100 {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			// Drain remaining records.
			for {
				select {
				case b := <-svc.ch:
					batch = append(batch, b)
				default:
					flush()
					return
				}
			}
		}
	}
}
