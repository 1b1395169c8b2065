package format

// DefaultPlantIcon is shown for plants without a dedicated icon.
const DefaultPlantIcon = "🌱"

// English tags map to the short names.
var plantNames = map[string]string{
	"向日葵（ひまわり）":     "向日葵（ひまわり）",
	"秋桜（コスモス）":      "秋桜（コスモス）",
	"朝顔":            "朝顔（あさがお）",
	"朝顔（あさがお）":      "朝顔（あさがお）",
	"ひまわり":          "向日葵（ひまわり）",
	"コスモス":          "秋桜（コスモス）",
	"sunflower":     "ひまわり",
	"cosmos":        "コスモス",
	"morning-glory": "朝顔（あさがお）",
}

var plantIcons = map[string]string{
	"向日葵（ひまわり）":     "🌻",
	"秋桜（コスモス）":      "🌸",
	"朝顔（あさがお）":      "🌺",
	"sunflower":     "🌻",
	"cosmos":        "🌸",
	"morning-glory": "🌺",
}

var plantFurigana = map[string]string{
	"向日葵（ひまわり）": "向日葵（ひまわり）",
	"秋桜（コスモス）":  "秋桜（コスモス）",
	"朝顔":        "朝顔（あさがお）",
	"朝顔（あさがお）":  "朝顔（あさがお）",
}

func LookupPlantName(plant string) (string, bool) {
	v, ok := plantNames[plant]
	return v, ok
}

func LookupPlantIcon(plant string) (string, bool) {
	v, ok := plantIcons[plant]
	return v, ok
}

func LookupPlantNameWithFurigana(plant string) (string, bool) {
	v, ok := plantFurigana[plant]
	return v, ok
}

// PlantName returns the display name for a plant type, or the input.
func PlantName(plant string) string {
	if v, ok := LookupPlantName(plant); ok {
		return v
	}
	return plant
}

// PlantIcon returns the emoji for a plant type, or DefaultPlantIcon.
func PlantIcon(plant string) string {
	if v, ok := LookupPlantIcon(plant); ok {
		return v
	}
	return DefaultPlantIcon
}

// PlantNameWithFurigana adds the reading to a known Japanese plant name.
func PlantNameWithFurigana(plant string) string {
	if v, ok := LookupPlantNameWithFurigana(plant); ok {
		return v
	}
	return plant
}
