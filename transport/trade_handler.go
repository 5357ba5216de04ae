package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"TradeEngine/internal/domain/models"
	"TradeEngine/internal/domain/models/transport"
	"TradeEngine/internal/services/trade"
	"TradeEngine/internal/services/tradevalues"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TradeHandler struct {
	log          *slog.Logger
	notifier     valuesNotifier
	tradeService tradeService
	validate     *validator.Validate
}

type valuesNotifier interface {
	FromDirection(direction models.Direction) tradevalues.Snapshot
	UpdateQuantity(direction models.Direction, quantity decimal.Decimal)
	UpdateMargin(direction models.Direction, marginSats decimal.Decimal)
	UpdateLeverage(direction models.Direction, leverage decimal.Decimal)
	UpdateContracts(direction models.Direction, contracts decimal.Decimal)
	UpdateOpenQuantity(direction models.Direction, openQuantity decimal.Decimal)
	CounterpartyMargin(direction models.Direction, leverage decimal.Decimal) *decimal.Decimal
	OrderMatchingFee(direction models.Direction) *decimal.Decimal
}

type tradeService interface {
	SubmitOrder(ctx context.Context, direction models.Direction) (uuid.UUID, error)
	GetOrders(ctx context.Context) ([]models.Order, error)
}

func NewTradeHandler(log *slog.Logger, notifier valuesNotifier, tradeService tradeService, validate *validator.Validate) *TradeHandler {
	return &TradeHandler{
		log:          log,
		notifier:     notifier,
		tradeService: tradeService,
		validate:     validate,
	}
}

func (h *TradeHandler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Route("/api/trade", func(router chi.Router) {
		router.Get("/values/{direction}", h.GetValues)
		router.Post("/values/quantity", h.PostQuantity)
		router.Post("/values/margin", h.PostMargin)
		router.Post("/values/leverage", h.PostLeverage)
		router.Post("/values/contracts", h.PostContracts)
		router.Post("/values/open-quantity", h.PostOpenQuantity)
		router.Post("/counterparty-margin", h.PostCounterpartyMargin)
		router.Get("/fee/{direction}", h.GetOrderMatchingFee)
		router.Post("/orders", h.PostSubmitOrder)
		router.Get("/orders", h.GetOrders)
	})

	return router
}

func (h *TradeHandler) GetValues(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	direction := models.Direction(chi.URLParam(r, "direction"))
	if !direction.Valid() {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(transport.ErrorResponse{
			Error: "Direction must be long or short",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(h.notifier.FromDirection(direction))
}

func (h *TradeHandler) PostQuantity(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req transport.UpdateQuantityRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	h.notifier.UpdateQuantity(req.Direction, req.Quantity)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(h.notifier.FromDirection(req.Direction))
}

func (h *TradeHandler) PostMargin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req transport.UpdateMarginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	h.notifier.UpdateMargin(req.Direction, req.MarginSats)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(h.notifier.FromDirection(req.Direction))
}

func (h *TradeHandler) PostLeverage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req transport.UpdateLeverageRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	h.notifier.UpdateLeverage(req.Direction, req.Leverage)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(h.notifier.FromDirection(req.Direction))
}

func (h *TradeHandler) PostContracts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req transport.UpdateContractsRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	h.notifier.UpdateContracts(req.Direction, req.Contracts)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(h.notifier.FromDirection(req.Direction))
}

func (h *TradeHandler) PostOpenQuantity(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req transport.UpdateOpenQuantityRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	h.notifier.UpdateOpenQuantity(req.Direction, req.OpenQuantity)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(h.notifier.FromDirection(req.Direction))
}

func (h *TradeHandler) PostCounterpartyMargin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req transport.CounterpartyMarginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transport.CounterpartyMarginResponse{
		MarginSats: h.notifier.CounterpartyMargin(req.Direction, req.Leverage),
	})
}

func (h *TradeHandler) GetOrderMatchingFee(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	direction := models.Direction(chi.URLParam(r, "direction"))
	if !direction.Valid() {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(transport.ErrorResponse{
			Error: "Direction must be long or short",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transport.OrderMatchingFeeResponse{
		FeeSats: h.notifier.OrderMatchingFee(direction),
	})
}

func (h *TradeHandler) PostSubmitOrder(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req transport.SubmitOrderRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	orderID, err := h.tradeService.SubmitOrder(r.Context(), req.Direction)
	if err != nil {
		h.log.Error("Failed to submit order", "error", err, "direction", req.Direction)

		switch {
		case errors.Is(err, trade.ErrPriceUnknown):
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(transport.ErrorResponse{
				Error: "No price received yet",
			})
		case errors.Is(err, trade.ErrInvalidLeverage):
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(transport.ErrorResponse{
				Error: "Invalid leverage value",
			})
		case errors.Is(err, trade.ErrQuantityTooSmall),
			errors.Is(err, trade.ErrQuantityTooLarge),
			errors.Is(err, trade.ErrInsufficientMargin):
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(transport.ErrorResponse{
				Error: err.Error(),
			})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(transport.ErrorResponse{
				Error: "Failed to submit order",
			})
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(transport.SubmitOrderResponse{
		OrderID: orderID,
	})
}

func (h *TradeHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	orders, err := h.tradeService.GetOrders(r.Context())
	if err != nil {
		h.log.Error("Failed to get orders", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(transport.ErrorResponse{
			Error: "Failed to get orders",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transport.GetOrdersResponse{
		Orders: orders,
	})
}

func (h *TradeHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.log.Error("Failed to decode request", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(transport.ErrorResponse{
			Error: "Invalid request format",
		})
		return false
	}

	if err := h.validate.Struct(req); err != nil {
		h.log.Error("Validation failed", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(transport.ErrorResponse{
			Error: "Invalid trade parameters",
		})
		return false
	}

	return true
}
