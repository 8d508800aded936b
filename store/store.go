package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"portfolio-tracker/models"
)

// Store is the gorm-backed holdings store.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) PortfoliosForUser(ctx context.Context, userID uint) ([]models.Portfolio, error) {
	var portfolios []models.Portfolio
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&portfolios).Error
	return portfolios, err
}

func (s *Store) HoldingsForUser(ctx context.Context, userID uint) ([]models.Holding, error) {
	var holdings []models.Holding
	err := s.db.WithContext(ctx).
		Joins("JOIN portfolios ON portfolios.id = holdings.portfolio_id AND portfolios.deleted_at IS NULL").
		Where("portfolios.user_id = ?", userID).
		Order("holdings.id").
		Find(&holdings).Error
	return holdings, err
}

func (s *Store) HoldingBySymbol(ctx context.Context, userID uint, symbol string) (*models.Holding, error) {
	var holding models.Holding
	err := s.db.WithContext(ctx).
		Joins("JOIN portfolios ON portfolios.id = holdings.portfolio_id AND portfolios.deleted_at IS NULL").
		Where("portfolios.user_id = ? AND UPPER(holdings.symbol) = ?", userID, strings.ToUpper(symbol)).
		Order("holdings.id").
		First(&holding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &holding, nil
}
