package forecast

// RawPayload mirrors the Open-Meteo forecast response shape: parallel
// time-indexed arrays for hourly fields plus a daily aggregate object.
type RawPayload struct {
	Hourly RawHourly              `json:"hourly"`
	Daily  map[string]interface{} `json:"daily"`
}

// RawHourly holds the provider's parallel hourly arrays. For index i in
// Time, each field value is read from its array at index i; a missing
// array or missing index degrades to the documented default.
type RawHourly struct {
	Time                     []string   `json:"time"`
	Temperature2M            []*float64 `json:"temperature_2m"`
	PrecipitationProbability []float64  `json:"precipitation_probability"`
	Precipitation            []float64  `json:"precipitation"`
	CloudCover               []float64  `json:"cloudcover"`
	RelativeHumidity2M       []float64  `json:"relative_humidity_2m"`
	PressureMSL              []float64  `json:"pressure_msl"`
	WindSpeed10M             []float64  `json:"wind_speed_10m"`
	WindGusts10M             []float64  `json:"wind_gusts_10m"`
}
