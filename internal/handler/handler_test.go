package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Underworld_Go/internal/achievement"
	"github.com/osse101/Underworld_Go/internal/character"
	"github.com/osse101/Underworld_Go/internal/cooldown"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/economy"
	"github.com/osse101/Underworld_Go/internal/encounter"
	"github.com/osse101/Underworld_Go/internal/testing/gametest"
	"github.com/osse101/Underworld_Go/internal/utils"
)

type fixture struct {
	h       *gametest.Harness
	router  chi.Router
	economy economy.Service
}

func newFixture(t *testing.T, roller utils.Roller) *fixture {
	t.Helper()
	h := gametest.NewHarness(t)

	status := cooldown.NewService(h.Store, h.Locks, h.Clock, h.Bus, cooldown.Config{RetryAttempts: 3})
	achievements := achievement.NewService(h.Store, h.Catalog, h.Locks, h.Clock, h.Bus, achievement.Config{RetryAttempts: 3})
	characters := character.NewService(h.Store, h.Locks, h.Clock, h.Bus, character.Config{RetryAttempts: 3})
	encounters := encounter.NewService(h.Store, h.Catalog, h.Locks, h.Clock, roller, h.Bus, achievements, encounter.Config{RetryAttempts: 3})
	econ := economy.NewService(h.Store, h.Catalog, h.Locks, h.Clock, h.Bus, achievements, economy.Config{RetryAttempts: 3})

	ch := NewCharacterHandler(characters, status, achievements, nil)
	eh := NewEncounterHandler(encounters)
	ec := NewEconomyHandler(econ)
	mh := NewMarketHandler(econ, h.Catalog)
	ah := NewAdminHandler(status, map[string]BatchFunc{"regeneration": characters.Regenerate})

	r := chi.NewRouter()
	r.Get("/catalog", mh.HandleCatalog)
	r.Get("/market/instruments", mh.HandleInstruments)
	r.Post("/characters", ch.HandleCreate)
	r.Route("/characters/{id}", func(r chi.Router) {
		r.Get("/", ch.HandleGet)
		r.Delete("/", ch.HandleDelete)
		r.Get("/history", ch.HandleHistory)
		r.Get("/activity", ch.HandleActivity)
		r.Get("/achievements", ch.HandleAchievements)
		r.Get("/cooldown", ch.HandleCooldown)
		r.Post("/crimes", eh.HandleCommitCrime)
		r.Post("/missions", eh.HandleCompleteMission)
		r.Post("/gym", eh.HandleTrain)
		r.Post("/attack", eh.HandleAttack)
		r.Post("/transfer", ec.HandleTransfer)
		r.Post("/bank/deposit", ec.HandleDeposit)
		r.Get("/inventory", ec.HandleInventory)
		r.Post("/items/buy", ec.HandleBuyItem)
		r.Post("/bounties", ec.HandlePlaceBounty)
		r.Get("/bounties", ec.HandleActiveBounties)
		r.Delete("/bounties/{bountyID}", ec.HandleCancelBounty)
		r.Post("/trades", mh.HandleTrade)
		r.Get("/portfolio", mh.HandlePortfolio)
	})
	r.Post("/admin/characters/{id}/status", ah.HandleSetStatus)
	r.Post("/admin/jobs/{job}", ah.HandleRunJob)

	return &fixture{h: h, router: r, economy: econ}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCharacterLifecycle(t *testing.T) {
	f := newFixture(t, utils.NewRoller())

	rec := f.do(t, http.MethodPost, "/characters", CreateCharacterRequest{Name: "Vito", Type: "criminal"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]interface{}](t, rec)
	id := created["id"].(string)
	assert.Equal(t, "$1,000.00", created["money_display"])

	rec = f.do(t, http.MethodGet, "/characters/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "Vito", got["name"])
	assert.Equal(t, true, got["availability"].(map[string]interface{})["available"])

	t.Run("duplicate name is rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/characters", CreateCharacterRequest{Name: "Vito", Type: "criminal"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid body fields", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/characters", CreateCharacterRequest{Name: "", Type: "pirate"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[ValidationErrorResponse](t, rec)
		assert.Contains(t, resp.Fields, "name")
		assert.Contains(t, resp.Fields, "type")
	})

	rec = f.do(t, http.MethodDelete, "/characters/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/characters/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrMsgCharacterNotFound, decode[ErrorResponse](t, rec).Error)
}

func TestCharacterIDParam_Malformed(t *testing.T) {
	f := newFixture(t, utils.NewRoller())
	rec := f.do(t, http.MethodGet, "/characters/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrMsgInvalidCharacterID, decode[ErrorResponse](t, rec).Error)
}

func TestCommitCrime_CooldownAndJail(t *testing.T) {
	t.Run("second attempt inside cooldown is 429", func(t *testing.T) {
		// success, not caught
		f := newFixture(t, utils.NewScriptedRoller(0.10, 0.50).WithInts(500))
		c := f.h.Seed(t, nil)
		path := fmt.Sprintf("/characters/%s/crimes", c.ID)

		rec := f.do(t, http.MethodPost, path, CrimeRequest{CrimeID: "shoplift"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		result := decode[encounter.CrimeResult](t, rec)
		assert.True(t, result.Crime.Success)
		assert.Nil(t, result.JailedUntil)

		rec = f.do(t, http.MethodPost, path, CrimeRequest{CrimeID: "shoplift"})
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		resp := decode[ErrorResponse](t, rec)
		require.NotNil(t, resp.RetryAt)
		assert.True(t, resp.RetryAt.Equal(gametest.Start.Add(2*time.Minute)))

		rec = f.do(t, http.MethodGet, path[:len(path)-len("/crimes")]+"/cooldown?action="+domain.CrimeAction("shoplift"), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, decode[cooldown.Readiness](t, rec).Ready)
	})

	t.Run("caught character is locked", func(t *testing.T) {
		f := newFixture(t, utils.NewScriptedRoller(0.10, 0.05).WithInts(0))
		c := f.h.Seed(t, nil)
		path := fmt.Sprintf("/characters/%s/crimes", c.ID)

		rec := f.do(t, http.MethodPost, path, CrimeRequest{CrimeID: "shoplift"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, decode[encounter.CrimeResult](t, rec).JailedUntil)

		f.h.Clock.Advance(3 * time.Minute)
		rec = f.do(t, http.MethodPost, path, CrimeRequest{CrimeID: "shoplift"})
		require.Equal(t, http.StatusLocked, rec.Code)
		resp := decode[ErrorResponse](t, rec)
		assert.Equal(t, string(domain.StatusJailed), resp.Detail)
		require.NotNil(t, resp.RetryAt)
		assert.True(t, resp.RetryAt.Equal(gametest.Start.Add(5*time.Minute)))
	})

	t.Run("unknown crime is 404", func(t *testing.T) {
		f := newFixture(t, utils.NewRoller())
		c := f.h.Seed(t, nil)
		rec := f.do(t, http.MethodPost, fmt.Sprintf("/characters/%s/crimes", c.ID), CrimeRequest{CrimeID: "arson"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unmet requirement is 403", func(t *testing.T) {
		f := newFixture(t, utils.NewRoller())
		c := f.h.Seed(t, nil)
		rec := f.do(t, http.MethodPost, fmt.Sprintf("/characters/%s/crimes", c.ID), CrimeRequest{CrimeID: "car_theft"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.NotEmpty(t, decode[ErrorResponse](t, rec).Detail)
	})
}

func TestTrain_ValidatesStat(t *testing.T) {
	f := newFixture(t, utils.NewRoller())
	c := f.h.Seed(t, nil)

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/characters/%s/gym", c.ID), TrainRequest{GymID: "street", Stat: "luck", Energy: 10})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ValidationErrorResponse](t, rec).Fields, "stat")

	rec = f.do(t, http.MethodPost, fmt.Sprintf("/characters/%s/gym", c.ID), TrainRequest{GymID: "street", Stat: "Strength", Energy: 10})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestTransfer(t *testing.T) {
	f := newFixture(t, utils.NewRoller())
	from := f.h.Seed(t, nil)
	to := f.h.Seed(t, nil)
	path := fmt.Sprintf("/characters/%s/transfer", from.ID)

	rec := f.do(t, http.MethodPost, path, TransferRequest{To: to.ID.String(), Amount: "250.50"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "$250.50", decode[TransferResponse](t, rec).Amount)
	assert.True(t, f.h.Load(t, to.ID).Money.Equal(domain.Money("1250.50")))

	rec = f.do(t, http.MethodPost, path, TransferRequest{To: to.ID.String(), Amount: "5000"})
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Detail, "money")

	rec = f.do(t, http.MethodPost, path, TransferRequest{To: to.ID.String(), Amount: "1.001"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ValidationErrorResponse](t, rec).Fields, "amount")

	rec = f.do(t, http.MethodPost, path, map[string]string{"to": to.ID.String(), "amount": "{"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShopAndInventory(t *testing.T) {
	f := newFixture(t, utils.NewRoller())
	c := f.h.Seed(t, nil)

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/characters/%s/inventory", c.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = f.do(t, http.MethodPost, fmt.Sprintf("/characters/%s/items/buy", c.ID), BuyItemRequest{ItemID: "medkit", Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[economy.PurchaseResult](t, rec)
	assert.Equal(t, 2, result.Owned)
	assert.True(t, result.Cost.Equal(domain.Money("80.00")))

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/characters/%s/inventory", c.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.InventoryItem](t, rec), 1)
}

func TestBounties(t *testing.T) {
	f := newFixture(t, utils.NewRoller())
	placer := f.h.Seed(t, nil)
	target := f.h.Seed(t, nil)

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/characters/%s/bounties", placer.ID),
		PlaceBountyRequest{TargetID: target.ID.String(), Amount: "100", Description: "owes me"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bounty := decode[domain.Bounty](t, rec)

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/characters/%s/bounties", target.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Bounty](t, rec), 1)

	rec = f.do(t, http.MethodDelete, fmt.Sprintf("/characters/%s/bounties/%s", placer.ID, bounty.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, f.h.Load(t, placer.ID).Money.Equal(domain.Money("1000.00")))

	rec = f.do(t, http.MethodDelete, fmt.Sprintf("/characters/%s/bounties/nope", placer.ID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarket(t *testing.T) {
	f := newFixture(t, utils.NewRoller())
	require.NoError(t, f.economy.SeedInstruments(context.Background()))
	c := f.h.Seed(t, nil)

	rec := f.do(t, http.MethodGet, "/market/instruments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.StockInstrument](t, rec), 1)

	rec = f.do(t, http.MethodPost, fmt.Sprintf("/characters/%s/trades", c.ID), TradeRequest{Symbol: "shdw", Shares: 2, Side: "buy"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(2), decode[economy.TradeResult](t, rec).Shares)

	rec = f.do(t, http.MethodPost, fmt.Sprintf("/characters/%s/trades", c.ID), TradeRequest{Symbol: "SHDW", Shares: 2, Side: "hold"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/characters/%s/portfolio", c.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.StockPosition](t, rec), 1)
}

func TestCatalog(t *testing.T) {
	f := newFixture(t, utils.NewRoller())
	rec := f.do(t, http.MethodGet, "/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cat := decode[CatalogResponse](t, rec)
	assert.Len(t, cat.Crimes, 3)
	assert.Len(t, cat.Locations, 2)
}

func TestAdmin(t *testing.T) {
	f := newFixture(t, utils.NewRoller())
	c := f.h.Seed(t, nil)

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/admin/characters/%s/status", c.ID), SetStatusRequest{Status: "hospitalized", Minutes: 10})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decode[cooldown.Availability](t, rec).Available)

	rec = f.do(t, http.MethodPost, "/admin/jobs/regeneration", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "regeneration", decode[JobRunResponse](t, rec).Job)

	rec = f.do(t, http.MethodPost, "/admin/jobs/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMapServiceError(t *testing.T) {
	release := gametest.Start.Add(time.Hour)
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"character", fmt.Errorf("load: %w", domain.ErrCharacterNotFound), http.StatusNotFound, ErrMsgCharacterNotFound},
		{"catalog", domain.ErrCatalogNotFound, http.StatusNotFound, ErrMsgNotFoundError},
		{"unavailable", domain.UnavailableError{Status: domain.StatusJailed, ReleaseAt: release}, http.StatusLocked, ErrMsgUnavailableError},
		{"cooldown", cooldown.ErrOnCooldown{Action: "crime:x", AvailableAt: release, Remaining: time.Hour}, http.StatusTooManyRequests, ErrMsgOnCooldownError},
		{"insufficient", domain.InsufficientInt(domain.ResourceEnergy, 10, 2), http.StatusPaymentRequired, ErrMsgInsufficientError},
		{"ineligible", domain.IneligibleError{Gate: "level"}, http.StatusForbidden, ErrMsgIneligibleError},
		{"conflict", domain.ErrConflict, http.StatusConflict, ErrMsgConflictError},
		{"transient", domain.ErrTransient, http.StatusServiceUnavailable, ErrMsgTransientError},
		{"invalid", domain.ErrInvalidInput, http.StatusBadRequest, ErrMsgInvalidInputError},
		{"invariant hides detail", domain.ErrInvariantViolation, http.StatusInternalServerError, ErrMsgGenericServerError},
		{"nil", nil, http.StatusInternalServerError, ErrMsgUnknownError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := mapServiceError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, resp.Error)
		})
	}

	t.Run("unavailable carries release time", func(t *testing.T) {
		_, resp := mapServiceError(domain.UnavailableError{Status: domain.StatusJailed, ReleaseAt: release})
		require.NotNil(t, resp.RetryAt)
		assert.True(t, resp.RetryAt.Equal(release))
	})
}
