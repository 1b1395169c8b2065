// Package record mirrors the plant and record payloads exchanged with the
// observation API.
package record

import (
	"encoding/json"
	"strconv"
)

// Weather is the API tag for a day's weather.
type Weather string

const (
	WeatherSunny   Weather = "sunny"
	WeatherCloudy  Weather = "cloudy"
	WeatherRainy   Weather = "rainy"
	WeatherThunder Weather = "thunder"
)

// Weathers lists the tags accepted by the API.
var Weathers = []Weather{WeatherSunny, WeatherCloudy, WeatherRainy, WeatherThunder}

// FromJapanese maps a Japanese weather name to its API tag. API tags are
// returned as they are.
func FromJapanese(s string) (Weather, bool) {
	switch s {
	case "晴れ", string(WeatherSunny):
		return WeatherSunny, true
	case "曇り", string(WeatherCloudy):
		return WeatherCloudy, true
	case "雨", string(WeatherRainy):
		return WeatherRainy, true
	case "雷", string(WeatherThunder):
		return WeatherThunder, true
	}
	return "", false
}

// Plant is an observed plant as returned by GET /plants.
type Plant struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

// PlantEntry is one plant's observation inside a record. Type is the plant
// name in list responses and the plant id when fetching a single record, so
// it is kept as raw JSON.
type PlantEntry struct {
	Type    json.RawMessage `json:"type"`
	Height  *float64        `json:"height"`
	Comment string          `json:"comment"`
	Image   *string         `json:"image"`
}

// TypeName returns Type as text: the plant name, or the id in decimal.
func (p PlantEntry) TypeName() string {
	var s string
	if err := json.Unmarshal(p.Type, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(p.Type, &n); err == nil {
		return n.String()
	}
	return string(p.Type)
}

// Record is a day's observation.
type Record struct {
	ID          int64        `json:"id"`
	Date        string       `json:"date"`
	CreatedAt   string       `json:"createdAt"`
	Weather     Weather      `json:"weather"`
	Temperature float64      `json:"temperature"`
	Plants      []PlantEntry `json:"plants"`
}

// Today is the response of GET /records/today.
type Today struct {
	Exists bool    `json:"exists"`
	Record *Record `json:"record,omitempty"`
}

// PlantInput is one plant's entry when saving a record.
type PlantInput struct {
	Height        string `json:"height,omitempty"`
	Comment       string `json:"comment,omitempty"`
	ImageFilename string `json:"imageFilename,omitempty"`
}

// Input is the body of POST /records and PUT /records/{id}. PlantRecords
// is keyed by plant id. Date is only honoured on update.
type Input struct {
	Date         string                `json:"date,omitempty"`
	Weather      Weather               `json:"weather"`
	Temperature  float64               `json:"temperature"`
	PlantRecords map[string]PlantInput `json:"plantRecords"`
}

// Saved is the reply to a create, update or delete.
type Saved struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

// Upload is the response of POST /upload/image.
type Upload struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// FormatID renders a record or plant id for use in a path.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
