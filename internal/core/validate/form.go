package validate

import (
	"sort"

	"github.com/hay-kot/criterio"
)

// RecordForm is the daily observation form as entered by the user.
type RecordForm struct {
	Weather      string               `json:"weather"`
	Temperature  string               `json:"temperature"`
	PlantRecords map[string]PlantForm `json:"plantRecords,omitempty"`
}

// PlantForm holds the per-plant inputs, keyed by plant id in RecordForm.
type PlantForm struct {
	Height  string `json:"height,omitempty"`
	Comment string `json:"comment,omitempty"`
	Image   *File  `json:"image,omitempty"`
}

// PlantErrors holds the messages for one plant's inputs.
type PlantErrors struct {
	Height string `json:"height,omitempty"`
	Image  string `json:"image,omitempty"`
}

// FormErrors maps each failing field to its message.
type FormErrors struct {
	Weather     string                 `json:"weather,omitempty"`
	Temperature string                 `json:"temperature,omitempty"`
	Plants      map[string]PlantErrors `json:"plants,omitempty"`
}

// FormResult is the outcome of RecordForm validation.
type FormResult struct {
	IsValid bool       `json:"isValid"`
	Errors  FormErrors `json:"errors"`

	fields criterio.FieldErrorsBuilder
}

// Err returns the findings as criterio field errors, or nil when valid.
// Plant fields are keyed "plants.<id>.height" and "plants.<id>.image".
func (r FormResult) Err() error {
	return r.fields.ToError()
}

// ValidateRecordForm checks the whole form. Weather is only checked for
// presence, temperature for presence and range, and each plant's height and
// image only when they were filled in.
func ValidateRecordForm(form RecordForm) FormResult {
	var res FormResult

	if err := Required(form.Weather, "天気"); err != nil {
		res.Errors.Weather = err.Error()
		res.fields = res.fields.Append("weather", err)
	}

	tempErr := Required(form.Temperature, "気温")
	if tempErr == nil {
		tempErr = Temperature(form.Temperature)
	}
	if tempErr != nil {
		res.Errors.Temperature = tempErr.Error()
		res.fields = res.fields.Append("temperature", tempErr)
	}

	// Sorted so the criterio errors come out in a stable order.
	ids := make([]string, 0, len(form.PlantRecords))
	for id := range form.PlantRecords {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		plant := form.PlantRecords[id]
		var pe PlantErrors

		if plant.Height != "" {
			if err := Height(plant.Height); err != nil {
				pe.Height = err.Error()
				res.fields = res.fields.Append("plants."+id+".height", err)
			}
		}
		if plant.Image != nil {
			if err := Image(plant.Image); err != nil {
				pe.Image = err.Error()
				res.fields = res.fields.Append("plants."+id+".image", err)
			}
		}

		if pe != (PlantErrors{}) {
			if res.Errors.Plants == nil {
				res.Errors.Plants = make(map[string]PlantErrors)
			}
			res.Errors.Plants[id] = pe
		}
	}

	res.IsValid = res.Errors.Weather == "" && res.Errors.Temperature == "" && len(res.Errors.Plants) == 0
	return res
}

// FieldMessages flattens the errors into field path → message, using the
// same keys as Err.
func (r FormResult) FieldMessages() map[string]string {
	out := make(map[string]string)
	if r.Errors.Weather != "" {
		out["weather"] = r.Errors.Weather
	}
	if r.Errors.Temperature != "" {
		out["temperature"] = r.Errors.Temperature
	}
	for id, pe := range r.Errors.Plants {
		if pe.Height != "" {
			out["plants."+id+".height"] = pe.Height
		}
		if pe.Image != "" {
			out["plants."+id+".image"] = pe.Image
		}
	}
	return out
}
