package weather

import (
	"fmt"
	"strconv"
	"strings"
)

// TemperatureMessage describes a temperature. Celsius readings get a
// qualitative message picked from half-open bands; any other unit is
// rendered bare, e.g. "15°F".
func TemperatureMessage(temperature float64, unit string) string {
	t := formatNumber(temperature)
	if unit != UnitCelsius {
		return t + "°" + unit
	}

	switch {
	case temperature < 0:
		return fmt.Sprintf("It's freezing at %s°C! Bundle up!", t)
	case temperature < 10:
		return fmt.Sprintf("It's quite cold at %s°C. Wear warm clothes.", t)
	case temperature < 20:
		return fmt.Sprintf("The temperature is %s°C. Comfortable for a light jacket.", t)
	case temperature < 30:
		return fmt.Sprintf("It's a pleasant %s°C. Enjoy the nice weather!", t)
	default:
		return fmt.Sprintf("It's hot at %s°C. Stay hydrated!", t)
	}
}

var conditionMessages = map[string]string{
	"sunny":         "It's a beautiful sunny day!",
	"partly cloudy": "Expect some clouds and sunshine.",
	"cloudy":        "It's cloudy today.",
	"overcast":      "The sky is overcast.",
	"rain":          "Don't forget your umbrella! It's raining.",
	"thunderstorm":  "Thunderstorms are expected today.",
	"snow":          "Bundle up! It's snowing.",
	"mist":          "It's misty outside.",
	"fog":           "Be careful, there's fog outside.",
}

// ConditionMessage maps a condition label to a friendly sentence. The
// lookup is case-insensitive; unknown labels come back unchanged.
func ConditionMessage(description string) string {
	if msg, ok := conditionMessages[strings.ToLower(description)]; ok {
		return msg
	}
	return description
}

// LocationMessage qualifies a place name with the time of day for the given
// hour (0-23). Hours from 18 through 5 are night.
func LocationMessage(location string, hour int) string {
	if hour >= 18 || hour < 6 {
		return " " + location + " at Night"
	}
	return " " + location + " During the Day"
}

// formatNumber prints the shortest representation that round-trips,
// so 22 is "22" and 9.999 stays "9.999".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
