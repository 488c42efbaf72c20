package weather

import "strings"

// UnitCelsius is the unit tag attached to snapshots built from the temp_c field.
const UnitCelsius = "C"

// Snapshot is the most recent successfully fetched weather for one location.
type Snapshot struct {
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"` // short condition label, e.g. "Partly cloudy"
	Location    string  `json:"location"`    // resolved place name
	Unit        string  `json:"unit"`
}

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// ClassifyCondition buckets a free-text condition label into a Condition.
// Order matters: "Patchy light rain with thunder" is a storm, not rain.
func ClassifyCondition(text string) Condition {
	t := strings.ToLower(text)
	switch {
	case t == "":
		return ConditionUnknown
	case hasAny(t, "thunder", "storm"):
		return ConditionStorm
	case hasAny(t, "snow", "sleet", "blizzard", "ice pellets"):
		return ConditionSnow
	case hasAny(t, "rain", "shower", "drizzle"):
		return ConditionRain
	case hasAny(t, "mist", "fog", "haze"):
		return ConditionMist
	case hasAny(t, "cloud", "overcast"):
		return ConditionCloudy
	case hasAny(t, "sunny", "clear"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}

// hasAny returns true if s contains any of the substrings.
func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
