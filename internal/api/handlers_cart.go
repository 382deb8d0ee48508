// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/mercatushq/mercatus/internal/checkout"
	"github.com/mercatushq/mercatus/internal/models"
	"github.com/mercatushq/mercatus/internal/validation"
)

// cartSessionHeader carries the cart session between requests. The server
// mints a session ID on first use and echoes it on every cart response.
const cartSessionHeader = "X-Cart-Session"

// cartSession resolves the session ID from the request, minting one when
// the client has none yet, and echoes it on the response.
func (h *Handler) cartSession(w http.ResponseWriter, r *http.Request) string {
	sessionID := r.Header.Get(cartSessionHeader)
	if sessionID == "" {
		sessionID = checkout.NewSessionID()
	}
	w.Header().Set(cartSessionHeader, sessionID)
	return sessionID
}

// GetCart handles GET /api/v1/cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := h.cartSession(w, r)
	NewResponseWriter(w, r).Success(h.carts.Get(sessionID))
}

// addItemRequest is the body for POST /api/v1/cart.
type addItemRequest struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"min=0"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image" validate:"omitempty,url"`
}

// AddCartItem handles POST /api/v1/cart. Adding an item already in the
// cart merges quantities.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sessionID := h.cartSession(w, r)

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if errs := validation.ValidateStruct(&req); errs != nil {
		rw.ValidationError("Invalid cart item", errs)
		return
	}

	cart := h.carts.AddItem(sessionID, models.CartItem{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		Image:    req.Image,
	})
	rw.Success(cart)
}

// updateQuantityRequest is the body for PUT /api/v1/cart/items/{id}.
type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem handles PUT /api/v1/cart/items/{id}. A quantity of zero
// or less removes the item.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sessionID := h.cartSession(w, r)

	itemID := chi.URLParam(r, "id")

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}

	cart, err := h.carts.UpdateQuantity(sessionID, itemID, req.Quantity)
	if err != nil {
		rw.NotFound("Item not in cart")
		return
	}
	rw.Success(cart)
}

// RemoveCartItem handles DELETE /api/v1/cart/items/{id}.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sessionID := h.cartSession(w, r)

	cart, err := h.carts.RemoveItem(sessionID, chi.URLParam(r, "id"))
	if err != nil {
		rw.NotFound("Item not in cart")
		return
	}
	rw.Success(cart)
}

// ClearCart handles DELETE /api/v1/cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := h.cartSession(w, r)
	h.carts.Clear(sessionID)
	NewResponseWriter(w, r).NoContent()
}

// CartTotals handles GET /api/v1/cart/totals?shipping=. Tax is a flat 8%
// of the item subtotal; the optional shipping parameter folds a selected
// shipping method's cost into the grand total.
func (h *Handler) CartTotals(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sessionID := h.cartSession(w, r)

	shipping := getFloatParam(r, "shipping", 0)
	if shipping < 0 {
		rw.BadRequest("Shipping cost cannot be negative")
		return
	}

	cart := h.carts.Get(sessionID)
	rw.Success(checkout.Totals(cart, shipping))
}
