package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchAirportsFiltersCaseInsensitively(t *testing.T) {
	all := SearchAirports("")
	assert.NotEmpty(t, all)

	byCode := SearchAirports("cgk")
	assert.Len(t, byCode, 1)
	assert.Equal(t, "CGK", byCode[0].Code)

	byCity := SearchAirports("Tokyo")
	codes := make([]string, 0, len(byCity))
	for _, a := range byCity {
		codes = append(codes, a.Code)
	}
	assert.ElementsMatch(t, []string{"NRT", "HND"}, codes)

	assert.Empty(t, SearchAirports("no such place"))
}

func TestSearchAirlinesFiltersByCodeAndName(t *testing.T) {
	byCode := SearchAirlines("QF")
	assert.Len(t, byCode, 1)
	assert.Equal(t, "Qantas", byCode[0].Name)

	byName := SearchAirlines("garuda")
	assert.Len(t, byName, 1)
	assert.Equal(t, "GA", byName[0].Code)

	assert.Empty(t, SearchAirlines("zz"))
}
