package handler

import (
	"github.com/gin-gonic/gin"
	currencyapp "github.com/quoteflow/backend/internal/application/currency"
	"github.com/shopspring/decimal"
)

// CurrencyHandler handles currency conversion API endpoints
type CurrencyHandler struct {
	BaseHandler
	rates *currencyapp.RateService
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(rates *currencyapp.RateService) *CurrencyHandler {
	return &CurrencyHandler{rates: rates}
}

// CreateRateRequest is the request body for a new conversion entry
type CreateRateRequest struct {
	From  string          `json:"from" binding:"required,len=3"`
	To    string          `json:"to" binding:"required,len=3"`
	Rate  decimal.Decimal `json:"rate" binding:"required"`
	Notes string          `json:"notes"`
}

// UpdateRateRequest is the request body for editing a conversion entry.
// The currency pair itself is immutable.
type UpdateRateRequest struct {
	Rate  *decimal.Decimal `json:"rate"`
	Notes *string          `json:"notes"`
}

// ConvertRequest is the request body for a currency conversion
type ConvertRequest struct {
	From   string          `json:"from" binding:"required,len=3"`
	To     string          `json:"to" binding:"required,len=3"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateRate handles POST /currency/rates
func (h *CurrencyHandler) CreateRate(c *gin.Context) {
	var req CreateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.rates.Create(c.Request.Context(), currencyapp.CreateRateRequest{
		From:  req.From,
		To:    req.To,
		Rate:  req.Rate,
		Notes: req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListRates handles GET /currency/rates
func (h *CurrencyHandler) ListRates(c *gin.Context) {
	rates, err := h.rates.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rates)
}

// UpdateRate handles PUT /currency/rates/:id
func (h *CurrencyHandler) UpdateRate(c *gin.Context) {
	var req UpdateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.rates.Update(c.Request.Context(), c.Param("id"), currencyapp.UpdateRateRequest{
		Rate:  req.Rate,
		Notes: req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteRate handles DELETE /currency/rates/:id
func (h *CurrencyHandler) DeleteRate(c *gin.Context) {
	if err := h.rates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Convert handles POST /currency/convert
func (h *CurrencyHandler) Convert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.rates.Convert(c.Request.Context(), currencyapp.ConvertRequest{
		From:   req.From,
		To:     req.To,
		Amount: req.Amount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers all currency routes
func (h *CurrencyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	currency := rg.Group("/currency")
	{
		currency.POST("/rates", h.CreateRate)
		currency.GET("/rates", h.ListRates)
		currency.PUT("/rates/:id", h.UpdateRate)
		currency.DELETE("/rates/:id", h.DeleteRate)
		currency.POST("/convert", h.Convert)
	}
}
