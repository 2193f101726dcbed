package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/neecogreen/checkout-service/internal/entities"
	"github.com/neecogreen/checkout-service/internal/middleware"
	"github.com/neecogreen/checkout-service/pkg/utils"
)

// SaveOrder сохраняет новый заказ.
// @Summary      Save a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      SaveOrderRequest  true  "Order to save"
// @Success      201  {object}  Order
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      401  {object}  utils.ErrorResponse
// @Router       /api/orders [post]
func (h *HTTPHandler) SaveOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req SaveOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.SaveOrder(ctx, SaveOrderToEntity(req, userID))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save order", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusCreated)
}

// ListOrders возвращает заказы пользователя.
// @Summary      List the caller's orders, newest first
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   Order
// @Failure      401  {object}  utils.ErrorResponse
// @Router       /api/orders [get]
func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	orders, err := h.orders.ListUserOrders(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list orders",
			slog.Any("error", err), slog.String("user_id", userID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	result := make([]Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, OrderEntityToJSON(o))
	}
	utils.WriteJSON(w, result, http.StatusOK)
}

// SaveCart полностью перезаписывает корзину пользователя.
// @Summary      Overwrite the caller's cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      SaveCartRequest  true  "Cart contents"
// @Success      200  {object}  Cart
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      401  {object}  utils.ErrorResponse
// @Router       /api/cart [put]
func (h *HTTPHandler) SaveCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req SaveCartRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	cart := entities.Cart{UserID: userID}
	for _, it := range req.Items {
		cart.Items = append(cart.Items, entities.CartItem{
			ItemID:   it.ItemID,
			Quantity: it.Quantity,
		})
	}

	if err := h.carts.SaveCart(ctx, cart); err != nil {
		h.logger.ErrorContext(ctx, "failed to save cart",
			slog.Any("error", err), slog.String("user_id", userID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, Cart{Items: req.Items}, http.StatusOK)
}

// GetCart возвращает корзину пользователя.
// @Summary      Get the caller's cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Cart
// @Failure      401  {object}  utils.ErrorResponse
// @Router       /api/cart [get]
func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	cart, err := h.carts.GetCart(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get cart",
			slog.Any("error", err), slog.String("user_id", userID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, CartEntityToJSON(cart), http.StatusOK)
}

// SignUp регистрирует пользователя.
// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      SignUpRequest  true  "Registration data"
// @Success      201  {object}  TokenResponse
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      409  {object}  utils.ErrorResponse "Email already registered"
// @Router       /api/auth/signup [post]
func (h *HTTPHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SignUpRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	token, err := h.auth.SignUp(ctx, req.Name, req.Email, req.Password)
	if errors.Is(err, entities.ErrEmailTaken) {
		utils.WriteError(w, "email already registered", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to sign up user", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, TokenResponse{Token: token}, http.StatusCreated)
}

// Login аутентифицирует пользователя.
// @Summary      Log a user in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      401  {object}  utils.ErrorResponse
// @Router       /api/auth/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	token, err := h.auth.Login(ctx, req.Email, req.Password)
	if errors.Is(err, entities.ErrInvalidCredentials) {
		utils.WriteError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to log user in", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, TokenResponse{Token: token}, http.StatusOK)
}
