package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func leg(minutes, meters int) *maps.Leg {
	return &maps.Leg{
		Duration: time.Duration(minutes) * time.Minute,
		Distance: maps.Distance{Meters: meters},
	}
}

func TestFastestRoute_PicksShortestTotal(t *testing.T) {
	routes := []maps.Route{
		{Legs: []*maps.Leg{leg(50, 40000), leg(30, 25000)}},
		{Legs: []*maps.Leg{leg(70, 52300)}},
		{},
	}

	hint, err := fastestRoute(routes)
	require.NoError(t, err)
	assert.Equal(t, 70, hint.Minutes)
	assert.Equal(t, "52.3 km", hint.Distance)
}

func TestFastestRoute_ShortHop(t *testing.T) {
	hint, err := fastestRoute([]maps.Route{{Legs: []*maps.Leg{leg(4, 850)}}})
	require.NoError(t, err)
	assert.Equal(t, 4, hint.Minutes)
	assert.Equal(t, "850 m", hint.Distance)
}

func TestFastestRoute_NoLegs(t *testing.T) {
	_, err := fastestRoute(nil)
	assert.ErrorIs(t, err, errNoRoute)

	_, err = fastestRoute([]maps.Route{{}})
	assert.ErrorIs(t, err, errNoRoute)
}
