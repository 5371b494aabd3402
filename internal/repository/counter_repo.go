package repository

import (
	"context"

	"hospital-management-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CounterRepository struct {
	db *gorm.DB
}

func NewCounterRepo(db *gorm.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// SeedCounter creates the named counter at start if it does not exist yet.
// An existing counter is left untouched.
func (r *CounterRepository) SeedCounter(ctx context.Context, name string, start int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Counter{Name: name, Seq: start}).Error
}

// ReserveNext increments the named counter and returns the new value.
// The upsert and the locked read share one transaction, so concurrent
// callers always receive distinct values.
func (r *CounterRepository) ReserveNext(ctx context.Context, name string) (int64, error) {
	var counter models.Counter
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"seq": gorm.Expr("seq + 1")}),
		}).Create(&models.Counter{Name: name, Seq: 1}).Error
		if err != nil {
			return err
		}

		return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", name).
			First(&counter).Error
	})
	if err != nil {
		return 0, translate(err)
	}
	return counter.Seq, nil
}
