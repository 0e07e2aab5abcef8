package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/economy"
	"github.com/osse101/Underworld_Go/internal/logger"
)

// TransferRequest is the body of POST /characters/{id}/transfer
type TransferRequest struct {
	To     string `json:"to" validate:"required,uuid"`
	Amount string `json:"amount" validate:"required,money"`
}

// AmountRequest carries a bare amount for bank and admin operations
type AmountRequest struct {
	Amount string `json:"amount" validate:"required,money"`
	Reason string `json:"reason,omitempty" validate:"max=128"`
}

// BuyItemRequest is the body of POST /characters/{id}/items/buy
type BuyItemRequest struct {
	ItemID   string `json:"item_id" validate:"required,max=64"`
	Quantity int    `json:"quantity" validate:"min=1,max=10000"`
}

// ItemRequest names one item
type ItemRequest struct {
	ItemID string `json:"item_id" validate:"required,max=64"`
}

// PropertyRequest is the body of POST /characters/{id}/properties
type PropertyRequest struct {
	PropertyID string `json:"property_id" validate:"required,max=64"`
}

// TravelRequest is the body of POST /characters/{id}/travel
type TravelRequest struct {
	LocationID string `json:"location_id" validate:"required,max=64"`
}

// PlaceBountyRequest is the body of POST /characters/{id}/bounties
type PlaceBountyRequest struct {
	TargetID    string `json:"target_id" validate:"required,uuid"`
	Amount      string `json:"amount" validate:"required,money"`
	Description string `json:"description,omitempty" validate:"max=256"`
}

// TransferResponse confirms a completed transfer
type TransferResponse struct {
	Message string `json:"message"`
	Amount  string `json:"amount"`
}

// EconomyHandler exposes the ledger, shop, inventory, property, bounty and travel operations
type EconomyHandler struct {
	economy economy.Service
}

// NewEconomyHandler creates an EconomyHandler
func NewEconomyHandler(svc economy.Service) *EconomyHandler {
	return &EconomyHandler{economy: svc}
}

// HandleTransfer moves on-hand money to another character
func (h *EconomyHandler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	var req TransferRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Transfer"); err != nil {
		return
	}

	amount := parseMoney(req.Amount)
	if err := h.economy.Transfer(r.Context(), id, parseUUID(req.To), amount); err != nil {
		respondServiceError(w, r, "transfer", err)
		return
	}

	logger.FromContext(r.Context()).Info("Money transferred", "from", id, "to", req.To, "amount", amount.String())
	respondJSON(w, http.StatusOK, TransferResponse{Message: "Transfer complete", Amount: domain.FormatMoney(amount)})
}

// HandleDeposit moves on-hand money into the bank
func (h *EconomyHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	h.amountAction(w, r, "deposit", func(id uuid.UUID, req AmountRequest) (*domain.Character, error) {
		return h.economy.Deposit(r.Context(), id, parseMoney(req.Amount))
	})
}

// HandleWithdraw moves bank money back on hand
func (h *EconomyHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	h.amountAction(w, r, "withdraw", func(id uuid.UUID, req AmountRequest) (*domain.Character, error) {
		return h.economy.Withdraw(r.Context(), id, parseMoney(req.Amount))
	})
}

// HandleCredit grants money outside gameplay (admin)
func (h *EconomyHandler) HandleCredit(w http.ResponseWriter, r *http.Request) {
	h.amountAction(w, r, "credit", func(id uuid.UUID, req AmountRequest) (*domain.Character, error) {
		return h.economy.Credit(r.Context(), id, parseMoney(req.Amount), req.Reason)
	})
}

// HandleDebit removes money outside gameplay (admin)
func (h *EconomyHandler) HandleDebit(w http.ResponseWriter, r *http.Request) {
	h.amountAction(w, r, "debit", func(id uuid.UUID, req AmountRequest) (*domain.Character, error) {
		return h.economy.Debit(r.Context(), id, parseMoney(req.Amount), req.Reason)
	})
}

func (h *EconomyHandler) amountAction(w http.ResponseWriter, r *http.Request, op string, fn func(uuid.UUID, AmountRequest) (*domain.Character, error)) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	var req AmountRequest
	if err := DecodeAndValidateRequest(r, w, &req, op); err != nil {
		return
	}

	c, err := fn(id, req)
	if err != nil {
		respondServiceError(w, r, op, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// HandleBuyItem buys items from the shop
func (h *EconomyHandler) HandleBuyItem(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	var req BuyItemRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Buy item"); err != nil {
		return
	}

	result, err := h.economy.BuyItem(r.Context(), id, req.ItemID, req.Quantity)
	if err != nil {
		respondServiceError(w, r, "buy item", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleUseItem consumes one item and applies its effect
func (h *EconomyHandler) HandleUseItem(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	var req ItemRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Use item"); err != nil {
		return
	}

	c, err := h.economy.UseItem(r.Context(), id, req.ItemID)
	if err != nil {
		respondServiceError(w, r, "use item", err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// HandleEquipItem equips a weapon or armor
func (h *EconomyHandler) HandleEquipItem(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	var req ItemRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Equip item"); err != nil {
		return
	}

	items, err := h.economy.EquipItem(r.Context(), id, req.ItemID)
	if err != nil {
		respondServiceError(w, r, "equip item", err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// HandleInventory lists owned items
func (h *EconomyHandler) HandleInventory(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}

	items, err := h.economy.Inventory(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "inventory", err)
		return
	}
	if items == nil {
		items = []domain.InventoryItem{}
	}
	respondJSON(w, http.StatusOK, items)
}

// HandleBuyProperty buys a property
func (h *EconomyHandler) HandleBuyProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	var req PropertyRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Buy property"); err != nil {
		return
	}

	owned, err := h.economy.BuyProperty(r.Context(), id, req.PropertyID)
	if err != nil {
		respondServiceError(w, r, "buy property", err)
		return
	}
	respondJSON(w, http.StatusCreated, owned)
}

// HandleProperties lists owned properties
func (h *EconomyHandler) HandleProperties(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}

	owned, err := h.economy.Properties(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "list properties", err)
		return
	}
	if owned == nil {
		owned = []domain.OwnedProperty{}
	}
	respondJSON(w, http.StatusOK, owned)
}

// HandleTravel moves the character to another location
func (h *EconomyHandler) HandleTravel(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	var req TravelRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Travel"); err != nil {
		return
	}

	c, err := h.economy.Travel(r.Context(), id, req.LocationID)
	if err != nil {
		respondServiceError(w, r, "travel", err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// HandlePlaceBounty escrows money on a target; {id} is the placer
func (h *EconomyHandler) HandlePlaceBounty(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	var req PlaceBountyRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Place bounty"); err != nil {
		return
	}

	b, err := h.economy.PlaceBounty(r.Context(), id, parseUUID(req.TargetID), parseMoney(req.Amount), req.Description)
	if err != nil {
		respondServiceError(w, r, "place bounty", err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

// HandleCancelBounty refunds an active bounty to its placer
func (h *EconomyHandler) HandleCancelBounty(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}
	bountyID, ok := uuidParam(w, r, ParamBountyID, ErrMsgInvalidBountyID)
	if !ok {
		return
	}

	b, err := h.economy.CancelBounty(r.Context(), id, bountyID)
	if err != nil {
		respondServiceError(w, r, "cancel bounty", err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

// HandleActiveBounties lists active bounties on {id}, oldest first
func (h *EconomyHandler) HandleActiveBounties(w http.ResponseWriter, r *http.Request) {
	id, ok := CharacterIDParam(w, r)
	if !ok {
		return
	}

	bounties, err := h.economy.ActiveBounties(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "active bounties", err)
		return
	}
	if bounties == nil {
		bounties = []domain.Bounty{}
	}
	respondJSON(w, http.StatusOK, bounties)
}
