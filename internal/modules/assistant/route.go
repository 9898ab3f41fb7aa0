// README: Driving estimate from an arrival point to the tour area, via the Google Maps Directions API.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"googlemaps.github.io/maps"
)

var errNoRoute = errors.New("no driving route")

type RouteEstimator interface {
	Estimate(ctx context.Context, origin, destination string) (RouteHint, error)
}

// RouteService asks the Directions API for driving alternatives and reports the fastest.
type RouteService struct {
	client *maps.Client
}

// NewRouteService builds a Directions client for apiKey. The key is not
// verified until the first request.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// Estimate returns the fastest driving alternative from origin to destination.
func (s *RouteService) Estimate(ctx context.Context, origin, destination string) (RouteHint, error) {
	routes, _, err := s.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:       origin,
		Destination:  destination,
		Mode:         maps.TravelModeDriving,
		Alternatives: true,
		Units:        maps.UnitsMetric,
		Language:     "en",
		Region:       "jp",
	})
	if err != nil {
		return RouteHint{}, fmt.Errorf("directions %q -> %q: %w", origin, destination, err)
	}
	return fastestRoute(routes)
}

// fastestRoute sums every leg of each route and keeps the shortest total time.
func fastestRoute(routes []maps.Route) (RouteHint, error) {
	var (
		best    RouteHint
		found   bool
		bestLen int
	)
	for _, r := range routes {
		if len(r.Legs) == 0 {
			continue
		}
		var d time.Duration
		meters := 0
		for _, leg := range r.Legs {
			d += leg.Duration
			meters += leg.Distance.Meters
		}
		if found && d >= best.Duration {
			continue
		}
		best = RouteHint{Duration: d, Minutes: int(d.Round(time.Minute).Minutes())}
		bestLen = meters
		found = true
	}
	if !found {
		return RouteHint{}, errNoRoute
	}
	best.Distance = formatKilometers(bestLen)
	return best, nil
}

func formatKilometers(meters int) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", meters)
	}
	return fmt.Sprintf("%.1f km", float64(meters)/1000)
}
