package entity

// Airport is a static reference record keyed by IATA code.
type Airport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Airline is a static reference record keyed by IATA code.
type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
