package service

import (
	"strings"

	"skysend/internal/domain/entity"
)

// Static reference tables backing the airport/airline pickers. The lists
// cover the routes couriers actually fly; unknown codes are still accepted
// on orders and flights, the tables only feed autocomplete.
var airports = []entity.Airport{
	{Code: "CGK", Name: "Soekarno-Hatta International", City: "Jakarta", Country: "Indonesia"},
	{Code: "DPS", Name: "I Gusti Ngurah Rai International", City: "Denpasar", Country: "Indonesia"},
	{Code: "SUB", Name: "Juanda International", City: "Surabaya", Country: "Indonesia"},
	{Code: "KNO", Name: "Kualanamu International", City: "Medan", Country: "Indonesia"},
	{Code: "UPG", Name: "Sultan Hasanuddin International", City: "Makassar", Country: "Indonesia"},
	{Code: "JOG", Name: "Yogyakarta International", City: "Yogyakarta", Country: "Indonesia"},
	{Code: "SIN", Name: "Changi", City: "Singapore", Country: "Singapore"},
	{Code: "KUL", Name: "Kuala Lumpur International", City: "Kuala Lumpur", Country: "Malaysia"},
	{Code: "BKK", Name: "Suvarnabhumi", City: "Bangkok", Country: "Thailand"},
	{Code: "HKG", Name: "Hong Kong International", City: "Hong Kong", Country: "Hong Kong"},
	{Code: "NRT", Name: "Narita International", City: "Tokyo", Country: "Japan"},
	{Code: "HND", Name: "Haneda", City: "Tokyo", Country: "Japan"},
	{Code: "ICN", Name: "Incheon International", City: "Seoul", Country: "South Korea"},
	{Code: "TPE", Name: "Taoyuan International", City: "Taipei", Country: "Taiwan"},
	{Code: "PVG", Name: "Pudong International", City: "Shanghai", Country: "China"},
	{Code: "SYD", Name: "Kingsford Smith", City: "Sydney", Country: "Australia"},
	{Code: "MEL", Name: "Tullamarine", City: "Melbourne", Country: "Australia"},
	{Code: "DXB", Name: "Dubai International", City: "Dubai", Country: "United Arab Emirates"},
	{Code: "DOH", Name: "Hamad International", City: "Doha", Country: "Qatar"},
	{Code: "AMS", Name: "Schiphol", City: "Amsterdam", Country: "Netherlands"},
	{Code: "LHR", Name: "Heathrow", City: "London", Country: "United Kingdom"},
	{Code: "FRA", Name: "Frankfurt am Main", City: "Frankfurt", Country: "Germany"},
	{Code: "LAX", Name: "Los Angeles International", City: "Los Angeles", Country: "United States"},
	{Code: "SFO", Name: "San Francisco International", City: "San Francisco", Country: "United States"},
}

var airlines = []entity.Airline{
	{Code: "GA", Name: "Garuda Indonesia"},
	{Code: "ID", Name: "Batik Air"},
	{Code: "JT", Name: "Lion Air"},
	{Code: "QG", Name: "Citilink"},
	{Code: "SQ", Name: "Singapore Airlines"},
	{Code: "MH", Name: "Malaysia Airlines"},
	{Code: "TG", Name: "Thai Airways"},
	{Code: "CX", Name: "Cathay Pacific"},
	{Code: "JL", Name: "Japan Airlines"},
	{Code: "NH", Name: "All Nippon Airways"},
	{Code: "KE", Name: "Korean Air"},
	{Code: "EK", Name: "Emirates"},
	{Code: "QR", Name: "Qatar Airways"},
	{Code: "QF", Name: "Qantas"},
	{Code: "KL", Name: "KLM"},
	{Code: "BA", Name: "British Airways"},
}

// SearchAirports returns airports whose code, name, city or country contains
// the query, case-insensitively. An empty query returns the full list.
func SearchAirports(query string) []entity.Airport {
	if query == "" {
		return airports
	}
	q := strings.ToLower(query)
	out := make([]entity.Airport, 0, len(airports))
	for _, a := range airports {
		if strings.Contains(strings.ToLower(a.Code), q) ||
			strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.City), q) ||
			strings.Contains(strings.ToLower(a.Country), q) {
			out = append(out, a)
		}
	}
	return out
}

// SearchAirlines returns airlines whose code or name contains the query,
// case-insensitively. An empty query returns the full list.
func SearchAirlines(query string) []entity.Airline {
	if query == "" {
		return airlines
	}
	q := strings.ToLower(query)
	out := make([]entity.Airline, 0, len(airlines))
	for _, a := range airlines {
		if strings.Contains(strings.ToLower(a.Code), q) ||
			strings.Contains(strings.ToLower(a.Name), q) {
			out = append(out, a)
		}
	}
	return out
}
