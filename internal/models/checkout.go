// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package models

// TaxRate is the flat sales tax applied to order subtotals.
const TaxRate = 0.08

// CartItem is one line in a session cart.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

// Cart is the ephemeral per-session cart state. It lives only for the
// session; all durable order state belongs to the upstream commerce system.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
}

// OrderTotals is the derived money breakdown for a cart.
type OrderTotals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ShippingAddress is the destination used for rate calculation.
type ShippingAddress struct {
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// ShippingRateRequest is the payload sent to the shipping-rate endpoint.
type ShippingRateRequest struct {
	ShippingAddress
	Items []CartItem `json:"items"`
}

// ShippingMethod is one rate option returned by the shipping endpoint.
type ShippingMethod struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description,omitempty"`
}

// PaymentIntent is the server-side handle for a client-side payment
// confirmation. Only the client secret crosses to the browser; raw card
// data never reaches this process.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}
