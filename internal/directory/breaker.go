// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package directory

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/mercatushq/mercatus/internal/logging"
	"github.com/mercatushq/mercatus/internal/metrics"
	"github.com/mercatushq/mercatus/internal/models"
)

// CircuitBreakerAPI wraps an API with circuit breaker protection so a down
// or slow directory upstream fails fast instead of tying up handlers.
//
// The breaker uses real time for its interval and timeout windows; unit
// tests should exercise the wrapped client directly.
type CircuitBreakerAPI struct {
	api  API
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

// NewCircuitBreakerAPI wraps api with a circuit breaker. The circuit opens
// after a 60% failure rate over at least 10 requests, stays open for 2
// minutes, and allows 3 probe requests in half-open state.
func NewCircuitBreakerAPI(api API) *CircuitBreakerAPI {
	cbName := "directory-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening directory circuit")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("Directory circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerAPI{api: api, cb: cb, name: cbName}
}

func (c *CircuitBreakerAPI) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := c.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
		}
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
	return result, nil
}

// FetchPage implements API.
func (c *CircuitBreakerAPI) FetchPage(ctx context.Context, page, perPage int, category string) (*models.PlacesPage, error) {
	result, err := c.execute(func() (interface{}, error) {
		return c.api.FetchPage(ctx, page, perPage, category)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.PlacesPage), nil
}

// GetPlace implements API.
func (c *CircuitBreakerAPI) GetPlace(ctx context.Context, id int) (*models.Place, error) {
	result, err := c.execute(func() (interface{}, error) {
		return c.api.GetPlace(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Place), nil
}

// GetUser implements API.
func (c *CircuitBreakerAPI) GetUser(ctx context.Context, id int) (*User, error) {
	result, err := c.execute(func() (interface{}, error) {
		return c.api.GetUser(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*User), nil
}

// GetCategories implements API.
func (c *CircuitBreakerAPI) GetCategories(ctx context.Context) ([]models.Term, error) {
	result, err := c.execute(func() (interface{}, error) {
		return c.api.GetCategories(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Term), nil
}

// GetRegions implements API.
func (c *CircuitBreakerAPI) GetRegions(ctx context.Context) ([]models.Term, error) {
	result, err := c.execute(func() (interface{}, error) {
		return c.api.GetRegions(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Term), nil
}

// GetCities implements API.
func (c *CircuitBreakerAPI) GetCities(ctx context.Context) ([]models.Term, error) {
	result, err := c.execute(func() (interface{}, error) {
		return c.api.GetCities(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Term), nil
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
