package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/cryptox"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// CardHandler serves the credit-card endpoints. Field values are
// encrypted before they reach the repository and decrypted only on
// read; plaintext never appears in logs or persists anywhere.
type CardHandler struct {
	Cards  *repository.CardRepo
	Cipher *cryptox.FieldCipher
}

func NewCardHandler(cards *repository.CardRepo, cipher *cryptox.FieldCipher) *CardHandler {
	return &CardHandler{Cards: cards, Cipher: cipher}
}

type cardReq struct {
	Number         string `json:"number"`
	ExpirationDate string `json:"expiration_date"`
	CVV            string `json:"cvv"`
	CardHolderName string `json:"card_holder_name"`
}

type cardResp struct {
	ID             uint64 `json:"id"`
	Number         string `json:"number"`
	ExpirationDate string `json:"expiration_date"`
	CVV            string `json:"cvv"`
	CardHolderName string `json:"card_holder_name"`
}

// Create encrypts each submitted field independently and stores the
// resulting ciphertexts as one row.
func (h *CardHandler) Create(c echo.Context) error {
	var req cardReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Number == "" || req.ExpirationDate == "" || req.CVV == "" || req.CardHolderName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all card fields required"})
	}

	enc, err := h.encryptFields(map[string]string{
		"number":           req.Number,
		"expiration_date":  req.ExpirationDate,
		"cvv":              req.CVV,
		"card_holder_name": req.CardHolderName,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encrypt card failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Cards.Create(ctx, model.CreditCard{
		Number:         enc["number"],
		ExpirationDate: enc["expiration_date"],
		CVV:            enc["cvv"],
		CardHolderName: enc["card_holder_name"],
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create card failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Get decrypts a card row field by field and returns the plaintext.
func (h *CardHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	card, err := h.Cards.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "card not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get card failed"})
	}

	resp := cardResp{ID: card.ID}
	for dst, src := range map[*string]string{
		&resp.Number:         card.Number,
		&resp.ExpirationDate: card.ExpirationDate,
		&resp.CVV:            card.CVV,
		&resp.CardHolderName: card.CardHolderName,
	} {
		v, err := h.Cipher.DecryptField(src)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decrypt card failed"})
		}
		*dst = v
	}
	return c.JSON(http.StatusOK, resp)
}

// Update re-encrypts only the fields present in the request. Per-field
// ciphertexts make the partial write possible.
func (h *CardHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req cardReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	plain := map[string]string{}
	if req.Number != "" {
		plain["number"] = req.Number
	}
	if req.ExpirationDate != "" {
		plain["expiration_date"] = req.ExpirationDate
	}
	if req.CVV != "" {
		plain["cvv"] = req.CVV
	}
	if req.CardHolderName != "" {
		plain["card_holder_name"] = req.CardHolderName
	}
	if len(plain) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	}

	enc, err := h.encryptFields(plain)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encrypt card failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Cards.UpdateFields(ctx, id, enc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "card not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update card failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a card row.
func (h *CardHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Cards.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "card not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete card failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CardHandler) encryptFields(plain map[string]string) (map[string]string, error) {
	enc := make(map[string]string, len(plain))
	for col, v := range plain {
		ct, err := h.Cipher.EncryptField(v)
		if err != nil {
			return nil, err
		}
		enc[col] = ct
	}
	return enc, nil
}
