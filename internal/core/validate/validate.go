// Package validate provides the field validators used before a record is
// submitted. Every validator returns nil when the value is acceptable or an
// error whose message can be shown to the user as is.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/hay-kot/criterio"
)

// DefaultFieldName is used when a caller does not name the field.
const DefaultFieldName = "この項目"

// MaxImageSize is the largest image the upload endpoint accepts.
const MaxImageSize = 3 * 1024 * 1024

var (
	ErrImageType = errors.New("画像ファイルのみアップロード可能です")
	ErrImageSize = errors.New("ファイルサイズは3MB以下にしてください")
	ErrWeather   = errors.New("有効な天気を選択してください")
)

// Weathers lists every accepted weather value, API tags first.
var Weathers = []string{"sunny", "cloudy", "rainy", "thunder", "晴れ", "曇り", "雨", "雷"}

// numberPrefix matches the leading number of a string, so "12cm" reads as 12.
var numberPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// File describes an image picked for upload. Path is where the CLI reads
// it from.
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"type"`
	Size        int64  `json:"size"`
	Path        string `json:"path,omitempty"`
}

// Bound returns a pointer to v for use as a Number limit.
func Bound(v float64) *float64 {
	return &v
}

// Required fails when value is empty or only whitespace.
func Required(value, fieldName string) error {
	if fieldName == "" {
		fieldName = DefaultFieldName
	}
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%sは必須です", fieldName)
	}
	return nil
}

// Number checks that value is numeric and within the optional limits.
// An empty value passes; presence is checked with Required.
func Number(value, fieldName string, minValue, maxValue *float64) error {
	if value == "" {
		return nil
	}
	if fieldName == "" {
		fieldName = DefaultFieldName
	}

	num, ok := ParseNumber(value)
	if !ok {
		return fmt.Errorf("%sは数値で入力してください", fieldName)
	}
	if minValue != nil && num < *minValue {
		return fmt.Errorf("%sは%s以上で入力してください", fieldName, formatBound(*minValue))
	}
	if maxValue != nil && num > *maxValue {
		return fmt.Errorf("%sは%s以下で入力してください", fieldName, formatBound(*maxValue))
	}
	return nil
}

// Temperature accepts -50 to 60 degrees.
func Temperature(value string) error {
	return Number(value, "気温", Bound(-50), Bound(60))
}

// Height accepts 0 to 1000 centimetres.
func Height(value string) error {
	return Number(value, "高さ", Bound(0), Bound(1000))
}

// Image checks the content type and size of a picked file. A nil file passes.
func Image(file *File) error {
	if file == nil {
		return nil
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return ErrImageType
	}
	if file.Size > MaxImageSize {
		return ErrImageSize
	}
	return nil
}

// Weather checks value against Weathers.
func Weather(value string) error {
	if !slices.Contains(Weathers, value) {
		return ErrWeather
	}
	return nil
}

// TemperatureField returns a criterio validator for temperatures.
func TemperatureField(field, value string) error {
	return criterio.Run(field, value, Temperature)
}

// HeightField returns a criterio validator for plant heights.
func HeightField(field, value string) error {
	return criterio.Run(field, value, Height)
}

// WeatherField returns a criterio validator for weather values.
func WeatherField(field, value string) error {
	return criterio.Run(field, value, Weather)
}

// ParseNumber reads the leading number of s, ignoring leading whitespace and
// anything after the number.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	m := numberPrefix.FindString(s)
	if m == "" {
		return 0, false
	}
	// Out-of-range exponents come back as ±Inf, which the limits then reject.
	num, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return num, true
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
