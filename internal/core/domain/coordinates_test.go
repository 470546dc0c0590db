package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinatesDMS(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		lat, lon float64
	}{
		{name: "full dms", in: `9°25'22.9"N 99°59'32.5"E`, lat: 9.423028, lon: 99.992361},
		{name: "decimal", in: "9.5120 100.0136", lat: 9.512, lon: 100.0136},
		{name: "comma decimal", in: "9,5 100,25", lat: 9.5, lon: 100.25},
		{name: "southern western", in: `33°51'35.9"S 151°12'40"W`, lat: -33.859972, lon: -151.211111},
		{name: "signed", in: "-12.5 +45", lat: -12.5, lon: 45},
		{name: "trailing comma", in: "9.5, 100.1", lat: 9.5, lon: 100.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCoordinates(tt.in, CoordinateModeDMS)
			require.NoError(t, err)
			assert.InDelta(t, tt.lat, c.Latitude, 1e-6)
			assert.InDelta(t, tt.lon, c.Longitude, 1e-6)
		})
	}
}

func TestParseCoordinatesRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"9.5",
		"1 2 3",
		"abc def",
		"95 100",
		"9 190",
		`9°61' 100`,
		"9x 100",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseCoordinates(in, CoordinateModeDMS)
			assert.ErrorIs(t, err, ErrInvalidCoordinates)
		})
	}
}

func TestParseCoordinatesLiteral(t *testing.T) {
	c, err := ParseCoordinates(`9.4230°N 99.9923°E`, CoordinateModeLiteral)
	require.NoError(t, err)
	assert.InDelta(t, 9.423, c.Latitude, 1e-9)
	assert.InDelta(t, 99.9923, c.Longitude, 1e-9)

	_, err = ParseCoordinates("abc 100", CoordinateModeLiteral)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestParseCoordinateMode(t *testing.T) {
	mode, err := ParseCoordinateMode("")
	require.NoError(t, err)
	assert.Equal(t, CoordinateModeDMS, mode)

	mode, err = ParseCoordinateMode(" Literal ")
	require.NoError(t, err)
	assert.Equal(t, CoordinateModeLiteral, mode)

	_, err = ParseCoordinateMode("utm")
	assert.Error(t, err)
}

func TestCoordinatesString(t *testing.T) {
	assert.Equal(t, "9.423028, 99.992361", Coordinates{Latitude: 9.423028, Longitude: 99.992361}.String())
}
