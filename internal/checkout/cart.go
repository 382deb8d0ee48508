// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

// Package checkout implements the cart and checkout flow: session-keyed
// cart state, order totals, shipping-rate lookup, the country/state
// reference API, and Stripe payment-intent creation. Card data never enters
// this process; tokenization happens client-side against the payment
// element.
package checkout

import (
	"errors"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/mercatushq/mercatus/internal/models"
)

// ErrItemNotFound is returned when a cart operation names an absent item.
var ErrItemNotFound = errors.New("cart item not found")

// CartStore holds per-session carts in memory. Carts are ephemeral: they
// are populated during a session and discarded at checkout; durable order
// state lives upstream.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string]*models.Cart
}

// NewCartStore creates an empty store.
func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*models.Cart)}
}

// NewSessionID generates a cart session identifier.
func NewSessionID() string {
	return uuid.New().String()
}

// Get returns the cart for a session, creating an empty one on first use.
func (s *CartStore) Get(sessionID string) models.Cart {
	s.mu.RLock()
	cart, ok := s.carts[sessionID]
	s.mu.RUnlock()
	if !ok {
		return models.Cart{SessionID: sessionID, Items: []models.CartItem{}}
	}

	// Copy so callers never share the stored slice.
	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)
	return models.Cart{SessionID: sessionID, Items: items}
}

// AddItem adds an item to the session cart, merging quantities when the
// item is already present.
func (s *CartStore) AddItem(sessionID string, item models.CartItem) models.Cart {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mu.Lock()
	cart, ok := s.carts[sessionID]
	if !ok {
		cart = &models.Cart{SessionID: sessionID, Items: []models.CartItem{}}
		s.carts[sessionID] = cart
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ID == item.ID {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}
	s.mu.Unlock()

	return s.Get(sessionID)
}

// UpdateQuantity sets an item's quantity; zero or less removes it.
func (s *CartStore) UpdateQuantity(sessionID, itemID string, quantity int) (models.Cart, error) {
	s.mu.Lock()
	cart, ok := s.carts[sessionID]
	if !ok {
		s.mu.Unlock()
		return models.Cart{}, ErrItemNotFound
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ID != itemID {
			continue
		}
		found = true
		if quantity <= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		} else {
			cart.Items[i].Quantity = quantity
		}
		break
	}
	s.mu.Unlock()

	if !found {
		return models.Cart{}, ErrItemNotFound
	}
	return s.Get(sessionID), nil
}

// RemoveItem deletes an item from the session cart.
func (s *CartStore) RemoveItem(sessionID, itemID string) (models.Cart, error) {
	return s.UpdateQuantity(sessionID, itemID, 0)
}

// Clear discards the session cart.
func (s *CartStore) Clear(sessionID string) {
	s.mu.Lock()
	delete(s.carts, sessionID)
	s.mu.Unlock()
}

// Totals derives the money breakdown for a cart with the chosen shipping
// cost. Tax is a flat 8% of the subtotal. All amounts round to cents.
func Totals(cart models.Cart, shipping float64) models.OrderTotals {
	var subtotal float64
	for _, item := range cart.Items {
		subtotal += item.Price * float64(item.Quantity)
	}

	subtotal = roundCents(subtotal)
	tax := roundCents(subtotal * models.TaxRate)
	shipping = roundCents(shipping)

	return models.OrderTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    roundCents(subtotal + shipping + tax),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
