package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"portfolio-tracker/models"
)

type PortfolioInput struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) CreatePortfolio(c *gin.Context) {
	userID := h.userID(c)

	var input PortfolioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Portfolio
	err := h.DB.Where("user_id = ? AND name = ?", userID, input.Name).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A portfolio with this name already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.internalError(c, "portfolio lookup", err)
		return
	}

	portfolio := models.Portfolio{UserID: userID, Name: input.Name}
	if err := h.DB.Create(&portfolio).Error; err != nil {
		h.internalError(c, "create portfolio", err)
		return
	}

	c.JSON(http.StatusCreated, portfolio)
}

func (h *Handler) ListPortfolios(c *gin.Context) {
	userID := h.userID(c)

	var portfolios []models.Portfolio
	if err := h.DB.Where("user_id = ?", userID).Order("id").Find(&portfolios).Error; err != nil {
		h.internalError(c, "list portfolios", err)
		return
	}

	c.JSON(http.StatusOK, portfolios)
}

func (h *Handler) UpdatePortfolio(c *gin.Context) {
	userID := h.userID(c)

	var input PortfolioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var portfolio models.Portfolio
	if err := h.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&portfolio).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Portfolio not found"})
		return
	}

	if err := h.DB.Model(&portfolio).Update("name", input.Name).Error; err != nil {
		h.internalError(c, "update portfolio", err)
		return
	}

	c.JSON(http.StatusOK, portfolio)
}

func (h *Handler) DeletePortfolio(c *gin.Context) {
	userID := h.userID(c)

	var portfolio models.Portfolio
	if err := h.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&portfolio).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Portfolio not found"})
		return
	}

	tx := h.DB.Begin()
	if err := tx.Where("portfolio_id = ?", portfolio.ID).Delete(&models.Holding{}).Error; err != nil {
		tx.Rollback()
		h.internalError(c, "delete holdings", err)
		return
	}
	if err := tx.Delete(&portfolio).Error; err != nil {
		tx.Rollback()
		h.internalError(c, "delete portfolio", err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		h.internalError(c, "commit delete", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Portfolio deleted successfully"})
}

type HoldingInput struct {
	Symbol        string          `json:"symbol" binding:"required"`
	Name          string          `json:"name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Quantity      decimal.Decimal `json:"quantity"`
}

func (h *Handler) CreateHolding(c *gin.Context) {
	userID := h.userID(c)

	var input HoldingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.PurchasePrice.IsNegative() || !input.Quantity.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "purchase_price must be >= 0 and quantity > 0"})
		return
	}

	var portfolio models.Portfolio
	if err := h.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&portfolio).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Portfolio not found"})
		return
	}

	// Symbols are stored uppercase so the enrichment join and the provider
	// calls agree on casing.
	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))

	var existing models.Holding
	err := h.DB.Where("portfolio_id = ? AND UPPER(symbol) = ?", portfolio.ID, symbol).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A holding with this symbol already exists in this portfolio"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.internalError(c, "holding lookup", err)
		return
	}

	holding := models.Holding{
		PortfolioID:   portfolio.ID,
		Symbol:        symbol,
		Name:          input.Name,
		PurchasePrice: input.PurchasePrice,
		Quantity:      input.Quantity,
	}
	if err := h.DB.Create(&holding).Error; err != nil {
		h.internalError(c, "create holding", err)
		return
	}

	c.JSON(http.StatusCreated, holding)
}

type UpdateHoldingInput struct {
	Name          *string          `json:"name"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Quantity      *decimal.Decimal `json:"quantity"`
}

func (h *Handler) UpdateHolding(c *gin.Context) {
	userID := h.userID(c)

	var input UpdateHoldingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holding, ok := h.ownedHolding(c, userID)
	if !ok {
		return
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.PurchasePrice != nil {
		if input.PurchasePrice.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "purchase_price must be >= 0"})
			return
		}
		updates["purchase_price"] = *input.PurchasePrice
	}
	if input.Quantity != nil {
		if !input.Quantity.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be > 0"})
			return
		}
		updates["quantity"] = *input.Quantity
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	if err := h.DB.Model(&holding).Updates(updates).Error; err != nil {
		h.internalError(c, "update holding", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Holding updated successfully"})
}

func (h *Handler) DeleteHolding(c *gin.Context) {
	userID := h.userID(c)

	holding, ok := h.ownedHolding(c, userID)
	if !ok {
		return
	}

	if err := h.DB.Delete(&holding).Error; err != nil {
		h.internalError(c, "delete holding", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Holding deleted successfully"})
}

// ownedHolding loads the holding in the :id path param and verifies it
// belongs to the user. It writes the 404 itself.
func (h *Handler) ownedHolding(c *gin.Context, userID uint) (models.Holding, bool) {
	var holding models.Holding
	err := h.DB.
		Joins("JOIN portfolios ON portfolios.id = holdings.portfolio_id AND portfolios.deleted_at IS NULL").
		Where("holdings.id = ? AND portfolios.user_id = ?", c.Param("id"), userID).
		First(&holding).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Holding not found"})
		return models.Holding{}, false
	}
	return holding, true
}
