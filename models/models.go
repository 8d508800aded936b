package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;size:80" json:"username"`
	Email    string `gorm:"size:255" json:"email"`
	Password string `json:"-"`
}

// Portfolio groups holdings under a name. The name decides which market data
// provider its holdings are priced from (see marketdata.ClassifyPortfolio).
type Portfolio struct {
	gorm.Model
	UserID uint   `gorm:"index;uniqueIndex:idx_user_portfolio_name" json:"user_id"`
	Name   string `gorm:"size:255;uniqueIndex:idx_user_portfolio_name" json:"name"`
}

// Holding is a single owned position. Currency and stock positions share this
// shape; only the JSON rendering differs by asset class. Prices and quantities
// are decimals end to end, never binary floats.
type Holding struct {
	gorm.Model
	PortfolioID   uint            `gorm:"index;uniqueIndex:idx_portfolio_symbol" json:"portfolio_id"`
	Symbol        string          `gorm:"size:10;uniqueIndex:idx_portfolio_symbol" json:"symbol"`
	Name          string          `gorm:"size:255" json:"name"`
	PurchasePrice decimal.Decimal `gorm:"type:numeric(20,8)" json:"purchase_price"`
	Quantity      decimal.Decimal `gorm:"type:numeric(20,8)" json:"quantity"`
}
