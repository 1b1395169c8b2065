package format

// DefaultWeatherIcon is shown for weather values without an icon.
const DefaultWeatherIcon = "☀️"

var weatherIcons = map[string]string{
	"sunny":   "☀️",
	"cloudy":  "☁️",
	"rainy":   "🌧️",
	"thunder": "⛈️",
	"晴れ":      "☀️",
	"曇り":      "☁️",
	"雨":       "🌧️",
	"雷":       "⛈️",
}

var weatherNames = map[string]string{
	"sunny":   "晴れ",
	"cloudy":  "曇り",
	"rainy":   "雨",
	"thunder": "雷",
	"晴れ":      "晴れ",
	"曇り":      "曇り",
	"雨":       "雨",
	"雷":       "雷",
}

// Labels carry furigana and only exist for the API tags.
var weatherLabels = map[string]string{
	"sunny":   "晴れ（はれ）",
	"cloudy":  "曇り（くもり）",
	"rainy":   "雨（あめ）",
	"thunder": "雷（かみなり）",
}

var weatherJapanese = map[string]string{
	"sunny":   "晴れ",
	"cloudy":  "曇り",
	"rainy":   "雨",
	"thunder": "雷",
}

func LookupWeatherIcon(weather string) (string, bool) {
	v, ok := weatherIcons[weather]
	return v, ok
}

func LookupWeatherName(weather string) (string, bool) {
	v, ok := weatherNames[weather]
	return v, ok
}

func LookupWeatherLabel(weather string) (string, bool) {
	v, ok := weatherLabels[weather]
	return v, ok
}

func LookupWeatherJapanese(weather string) (string, bool) {
	v, ok := weatherJapanese[weather]
	return v, ok
}

// WeatherIcon returns the emoji for weather, or DefaultWeatherIcon.
func WeatherIcon(weather string) string {
	if v, ok := LookupWeatherIcon(weather); ok {
		return v
	}
	return DefaultWeatherIcon
}

// WeatherName returns the Japanese name for an API tag or Japanese name.
// Unknown values are returned unchanged.
func WeatherName(weather string) string {
	if v, ok := LookupWeatherName(weather); ok {
		return v
	}
	return weather
}

// WeatherLabel returns the furigana label for an API tag.
func WeatherLabel(weather string) string {
	if v, ok := LookupWeatherLabel(weather); ok {
		return v
	}
	return weather
}

// WeatherToJapanese converts an API tag (sunny, cloudy, ...) to Japanese.
func WeatherToJapanese(weather string) string {
	if v, ok := LookupWeatherJapanese(weather); ok {
		return v
	}
	return weather
}
