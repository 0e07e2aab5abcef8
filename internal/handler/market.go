package handler

import (
	"net/http"
	"strings"

	"github.com/osse101/Underworld_Go/internal/catalog"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/economy"
)

// TradeRequest is the body of POST /characters/{id}/trades
type TradeRequest struct {
	Symbol string `json:"symbol" validate:"required,max=16"`
	Shares int64  `json:"shares" validate:"min=1"`
	Side   string `json:"side" validate:"required,oneof=buy sell"`
}

// CatalogResponse lists every game definition
type CatalogResponse struct {
	Locations    []domain.Location     `json:"locations"`
	Crimes       []domain.Crime        `json:"crimes"`
	Missions     []domain.Mission      `json:"missions"`
	Gyms         []domain.Gym          `json:"gyms"`
	Items        []domain.Item         `json:"items"`
	Properties   []domain.Property     `json:"properties"`
	Stocks       []domain.StockListing `json:"stocks"`
	Achievements []domain.Achievement  `json:"achievements"`
}

// MarketHandler exposes the stock market and the catalog
type MarketHandler struct {
	economy economy.Service
	catalog catalog.Catalog
}

// NewMarketHandler creates a MarketHandler
func NewMarketHandler(svc economy.Service, cat catalog.Catalog) *MarketHandler {
	return &MarketHandler{economy: svc, catalog: cat}
}

// HandleInstruments lists current instrument prices
func (h *MarketHandler) HandleInstruments(w http.ResponseWriter, r *http.Request) {
	instruments, err := h.economy.Instruments(r.Context())
	if err != nil {
		respondServiceError(w, r, "list instruments", err)
		return
	}
	respondJSON(w, http.StatusOK, instruments)
}

// HandlePortfolio lists the character's stock positions
func (h *MarketHandler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}

	positions, err := h.economy.Portfolio(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "portfolio", err)
		return
	}
	if positions == nil {
		positions = []domain.StockPosition{}
	}
	respondJSON(w, http.StatusOK, positions)
}

// HandleTrade buys or sells shares at the current price
func (h *MarketHandler) HandleTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	var req TradeRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Trade stock"); err != nil {
		return
	}

	result, err := h.economy.TradeStock(r.Context(), id, strings.ToUpper(req.Symbol), req.Shares, economy.Side(req.Side))
	if err != nil {
		respondServiceError(w, r, "trade stock", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleCatalog returns every crime, mission, gym, item, property, location, stock and achievement
func (h *MarketHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CatalogResponse{
		Locations:    h.catalog.Locations(),
		Crimes:       h.catalog.Crimes(),
		Missions:     h.catalog.Missions(),
		Gyms:         h.catalog.Gyms(),
		Items:        h.catalog.Items(),
		Properties:   h.catalog.Properties(),
		Stocks:       h.catalog.Stocks(),
		Achievements: h.catalog.Achievements(),
	})
}
