// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package api

import (
	"math"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/mercatushq/mercatus/internal/checkout"
	"github.com/mercatushq/mercatus/internal/models"
	"github.com/mercatushq/mercatus/internal/validation"
)

// ShippingMethods handles POST /api/v1/checkout/shipping-methods. The
// body carries the destination address; the items come from the cart.
func (h *Handler) ShippingMethods(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sessionID := h.cartSession(w, r)

	var addr models.ShippingAddress
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if errs := validation.ValidateStruct(&addr); errs != nil {
		rw.ValidationError("Invalid shipping address", errs)
		return
	}

	cart := h.carts.Get(sessionID)
	if len(cart.Items) == 0 {
		rw.BadRequest("Cart is empty")
		return
	}

	methods, err := h.shipping.GetRates(r.Context(), &models.ShippingRateRequest{
		ShippingAddress: addr,
		Items:           cart.Items,
	})
	if err != nil {
		rw.ExternalServiceError("shipping", err)
		return
	}

	rw.Success(map[string]interface{}{"methods": methods})
}

// paymentIntentRequest is the body for POST /api/v1/checkout/payment-intent.
// The shipping cost is the one quoted by the shipping-methods call; the
// amount itself is always computed server-side from the cart.
type paymentIntentRequest struct {
	ShippingCost float64 `json:"shipping_cost" validate:"min=0"`
}

// PaymentIntent handles POST /api/v1/checkout/payment-intent. It returns
// the intent's client secret for the client-side payment element; card
// data never reaches this server.
func (h *Handler) PaymentIntent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sessionID := h.cartSession(w, r)

	var req paymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if errs := validation.ValidateStruct(&req); errs != nil {
		rw.ValidationError("Invalid payment request", errs)
		return
	}

	cart := h.carts.Get(sessionID)
	if len(cart.Items) == 0 {
		rw.BadRequest("Cart is empty")
		return
	}

	totals := checkout.Totals(cart, req.ShippingCost)
	amountCents := int64(math.Round(totals.Total * 100))

	intent, err := h.payments.CreatePaymentIntent(r.Context(), amountCents, map[string]string{
		"cart_session": sessionID,
	})
	if err != nil {
		rw.Error(http.StatusBadGateway, ErrCodePaymentFailed, "Payment could not be initialized")
		return
	}

	rw.Success(map[string]interface{}{
		"client_secret": intent.ClientSecret,
		"amount":        intent.Amount,
		"currency":      intent.Currency,
		"totals":        totals,
	})
}
