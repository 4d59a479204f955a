// Package geocode resolves free-text place names to coordinates so marine
// lookups can accept "Monterey Bay" as well as "36.6,-121.9".
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"
)

var errEmptyPlace = errors.New("place name is empty")

// lookupFunc matches geocoder.Geocoding; swapped out in tests.
type lookupFunc func(geocoder.Address) (geocoder.Location, error)

// Google geocodes through the Google Maps Geocoding API.
type Google struct {
	lookup lookupFunc
}

var setKey sync.Once

// NewGoogle configures the geocoder library with apiKey. The library keeps the
// key in a package variable, so only the first key wins for the process.
func NewGoogle(apiKey string) *Google {
	setKey.Do(func() {
		geocoder.ApiKey = apiKey
	})
	return &Google{lookup: geocoder.Geocoding}
}

// Geocode returns the coordinates of the best match for place.
func (g *Google) Geocode(ctx context.Context, place string) (float64, float64, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return 0, 0, errEmptyPlace
	}

	type result struct {
		loc geocoder.Location
		err error
	}
	done := make(chan result, 1)

	// The library has no context support; give up waiting when ctx ends.
	go func() {
		loc, err := g.lookup(geocoder.Address{City: place})
		done <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return 0, 0, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return 0, 0, fmt.Errorf("geocode %q: %w", place, r.err)
		}
		return r.loc.Latitude, r.loc.Longitude, nil
	}
}
