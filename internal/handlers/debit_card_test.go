package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"testing"
	"time"

	"finch/internal/models"
	"finch/internal/repositories"
	"finch/internal/services/debitcard"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repositories so handler tests exercise the real service
// without a database.

type memCardRepo struct {
	cards  map[uint]*models.DebitCard
	nextID uint
	used   map[uint]bool
}

func newMemCardRepo() *memCardRepo {
	return &memCardRepo{
		cards: make(map[uint]*models.DebitCard),
		used:  make(map[uint]bool),
	}
}

func (r *memCardRepo) Create(card *models.DebitCard) error {
	r.nextID++
	card.ID = r.nextID
	copied := *card
	r.cards[card.ID] = &copied
	return nil
}

func (r *memCardRepo) GetByID(cardID uint) (*models.DebitCard, error) {
	card, ok := r.cards[cardID]
	if !ok {
		return nil, repositories.ErrCardNotFound
	}
	copied := *card
	return &copied, nil
}

func (r *memCardRepo) GetByUserID(userID uint) ([]*models.DebitCard, error) {
	var out []*models.DebitCard
	for _, card := range r.cards {
		if card.UserID == userID {
			copied := *card
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCardRepo) SetDisabledAt(cardID uint, disabledAt *time.Time) (*models.DebitCard, error) {
	card, ok := r.cards[cardID]
	if !ok {
		return nil, repositories.ErrCardNotFound
	}
	if disabledAt != nil || card.DisabledAt != nil {
		card.DisabledAt = disabledAt
	}
	copied := *card
	return &copied, nil
}

func (r *memCardRepo) Delete(cardID uint) error {
	if _, ok := r.cards[cardID]; !ok {
		return repositories.ErrCardNotFound
	}
	if r.used[cardID] {
		return repositories.ErrCardInUse
	}
	delete(r.cards, cardID)
	return nil
}

type memTxRepo struct {
	repo   *memCardRepo
	nextID uint
	txs    []*models.DebitCardTransaction
}

func (r *memTxRepo) Create(tx *models.DebitCardTransaction) error {
	if _, ok := r.repo.cards[tx.DebitCardID]; !ok {
		return repositories.ErrCardNotFound
	}
	r.nextID++
	tx.ID = r.nextID
	r.txs = append(r.txs, tx)
	r.repo.used[tx.DebitCardID] = true
	return nil
}

func (r *memTxRepo) GetByCardID(cardID uint) ([]*models.DebitCardTransaction, error) {
	var out []*models.DebitCardTransaction
	for _, tx := range r.txs {
		if tx.DebitCardID == cardID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type testEnv struct {
	app     *fiber.App
	cards   *memCardRepo
	service debitcard.Service
}

// newTestEnv builds a fiber app with the card routes mounted behind a
// middleware that takes the caller identity from the X-User-ID header.
func newTestEnv() *testEnv {
	cardRepo := newMemCardRepo()
	txRepo := &memTxRepo{repo: cardRepo}
	service := debitcard.NewService(cardRepo, txRepo)

	cardHandler := NewDebitCardHandler(service)
	txHandler := NewDebitCardTransactionHandler(service)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		userID, err := strconv.Atoi(c.Get("X-User-ID"))
		if err != nil || userID <= 0 {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		c.Locals("claims", &models.UserClaims{UserID: uint(userID)})
		return c.Next()
	})

	api := app.Group("/api")
	api.Get("/debit-cards", cardHandler.ListCards)
	api.Post("/debit-cards", cardHandler.CreateCard)
	api.Get("/debit-cards/:id", cardHandler.GetCard)
	api.Put("/debit-cards/:id", cardHandler.UpdateCard)
	api.Delete("/debit-cards/:id", cardHandler.DeleteCard)
	api.Get("/debit-card-transactions", txHandler.ListTransactions)
	api.Post("/debit-card-transactions", txHandler.CreateTransaction)

	return &testEnv{app: app, cards: cardRepo, service: service}
}

func (e *testEnv) request(t *testing.T, userID uint, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-User-ID", strconv.FormatUint(uint64(userID), 10))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func (e *testEnv) seedCard(t *testing.T, userID uint) *models.DebitCard {
	t.Helper()
	card, err := e.service.Create(context.Background(), userID, models.CardTypeVisa)
	require.NoError(t, err)
	return card
}

func TestListDebitCards(t *testing.T) {
	env := newTestEnv()
	mine := env.seedCard(t, 1)
	other := env.seedCard(t, 2)

	resp := env.request(t, 1, http.MethodGet, "/api/debit-cards", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	got := data[0].(map[string]any)
	assert.Equal(t, float64(mine.ID), got["id"])
	assert.NotEqual(t, float64(other.ID), got["id"])
}

func TestCreateDebitCard(t *testing.T) {
	env := newTestEnv()

	resp := env.request(t, 1, http.MethodPost, "/api/debit-cards", fiber.Map{"type": "visa"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	data := decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, "visa", data["type"])
	assert.Equal(t, float64(1), data["user_id"])
	assert.Nil(t, data["disabled_at"])
}

func TestCreateDebitCard_InvalidType(t *testing.T) {
	env := newTestEnv()

	for _, body := range []fiber.Map{
		{"type": "diners"},
		{"type": ""},
		{},
	} {
		resp := env.request(t, 1, http.MethodPost, "/api/debit-cards", body)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	}
}

func TestGetDebitCard(t *testing.T) {
	env := newTestEnv()
	card := env.seedCard(t, 1)

	t.Run("owner sees the card", func(t *testing.T) {
		resp := env.request(t, 1, http.MethodGet, fmt.Sprintf("/api/debit-cards/%d", card.ID), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		data := decodeBody(t, resp)["data"].(map[string]any)
		assert.Equal(t, float64(card.ID), data["id"])
	})

	t.Run("non-owner gets 403", func(t *testing.T) {
		resp := env.request(t, 2, http.MethodGet, fmt.Sprintf("/api/debit-cards/%d", card.ID), nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("unknown id gets 404", func(t *testing.T) {
		resp := env.request(t, 1, http.MethodGet, "/api/debit-cards/999", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUpdateDebitCard(t *testing.T) {
	env := newTestEnv()

	t.Run("activate clears disabled_at", func(t *testing.T) {
		card := env.seedCard(t, 1)
		_, err := env.service.SetActive(context.Background(), 1, card.ID, false)
		require.NoError(t, err)

		resp := env.request(t, 1, http.MethodPut, fmt.Sprintf("/api/debit-cards/%d", card.ID),
			fiber.Map{"is_active": true})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		data := decodeBody(t, resp)["data"].(map[string]any)
		assert.Nil(t, data["disabled_at"])
	})

	t.Run("deactivate stamps disabled_at", func(t *testing.T) {
		card := env.seedCard(t, 1)

		resp := env.request(t, 1, http.MethodPut, fmt.Sprintf("/api/debit-cards/%d", card.ID),
			fiber.Map{"is_active": false})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		data := decodeBody(t, resp)["data"].(map[string]any)
		assert.NotNil(t, data["disabled_at"])
	})

	t.Run("non-boolean flag gets 422", func(t *testing.T) {
		card := env.seedCard(t, 1)

		for _, flag := range []any{"invalid_value", 1, nil} {
			resp := env.request(t, 1, http.MethodPut, fmt.Sprintf("/api/debit-cards/%d", card.ID),
				fiber.Map{"is_active": flag})
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		}

		// Card state untouched by the rejected requests.
		got, err := env.service.Get(context.Background(), 1, card.ID)
		require.NoError(t, err)
		assert.Nil(t, got.DisabledAt)
	})

	t.Run("non-owner gets 403", func(t *testing.T) {
		card := env.seedCard(t, 1)

		resp := env.request(t, 2, http.MethodPut, fmt.Sprintf("/api/debit-cards/%d", card.ID),
			fiber.Map{"is_active": false})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestDeleteDebitCard(t *testing.T) {
	env := newTestEnv()

	t.Run("card without transactions is deleted", func(t *testing.T) {
		card := env.seedCard(t, 1)

		resp := env.request(t, 1, http.MethodDelete, fmt.Sprintf("/api/debit-cards/%d", card.ID), nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = env.request(t, 1, http.MethodGet, fmt.Sprintf("/api/debit-cards/%d", card.ID), nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("card with a transaction survives", func(t *testing.T) {
		card := env.seedCard(t, 1)
		_, err := env.service.RecordTransaction(context.Background(), 1, models.CreateDebitCardTransactionInput{
			DebitCardID:  card.ID,
			Amount:       100,
			CurrencyCode: models.CurrencySGD,
		})
		require.NoError(t, err)

		resp := env.request(t, 1, http.MethodDelete, fmt.Sprintf("/api/debit-cards/%d", card.ID), nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp = env.request(t, 1, http.MethodGet, fmt.Sprintf("/api/debit-cards/%d", card.ID), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("transaction recorded after the ownership read still blocks", func(t *testing.T) {
		card := env.seedCard(t, 1)

		// The reference lands in the store without going through the
		// service, the way a concurrent request would. The repository's
		// delete must still see it.
		env.cards.used[card.ID] = true

		resp := env.request(t, 1, http.MethodDelete, fmt.Sprintf("/api/debit-cards/%d", card.ID), nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp = env.request(t, 1, http.MethodGet, fmt.Sprintf("/api/debit-cards/%d", card.ID), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("non-owner gets 403", func(t *testing.T) {
		card := env.seedCard(t, 1)

		resp := env.request(t, 2, http.MethodDelete, fmt.Sprintf("/api/debit-cards/%d", card.ID), nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestDebitCardTransactions(t *testing.T) {
	env := newTestEnv()
	card := env.seedCard(t, 1)

	resp := env.request(t, 1, http.MethodPost, "/api/debit-card-transactions", fiber.Map{
		"debit_card_id": card.ID,
		"amount":        2500,
		"currency_code": "VND",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("owner lists card transactions", func(t *testing.T) {
		resp := env.request(t, 1, http.MethodGet,
			fmt.Sprintf("/api/debit-card-transactions?debit_card_id=%d", card.ID), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		data := decodeBody(t, resp)["data"].([]any)
		require.Len(t, data, 1)
	})

	t.Run("non-owner cannot list or record", func(t *testing.T) {
		resp := env.request(t, 2, http.MethodGet,
			fmt.Sprintf("/api/debit-card-transactions?debit_card_id=%d", card.ID), nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = env.request(t, 2, http.MethodPost, "/api/debit-card-transactions", fiber.Map{
			"debit_card_id": card.ID,
			"amount":        100,
			"currency_code": "VND",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
