package widget

import (
	"time"

	"github.com/i474232898/weather-widget/internal/weather"
)

const (
	Title       = "Weather Widget"
	Description = "Search for the current weather conditions in your city."
	Placeholder = "Enter a city name"
)

// Icon names the glyph shown next to a result line.
type Icon string

const (
	IconThermometer Icon = "thermometer"
	IconMapPin      Icon = "map-pin"
	IconCloud       Icon = "cloud"
	IconSun         Icon = "sun"
	IconRain        Icon = "rain"
	IconSnow        Icon = "snow"
	IconStorm       Icon = "storm"
	IconMist        Icon = "mist"
)

var glyphs = map[Icon]string{
	IconThermometer: "🌡",
	IconMapPin:      "📍",
	IconCloud:       "☁",
	IconSun:         "☀",
	IconRain:        "☂",
	IconSnow:        "❄",
	IconStorm:       "⚡",
	IconMist:        "≋",
}

// Glyph returns a single-character rendering of the icon.
func (i Icon) Glyph() string {
	return glyphs[i]
}

// View is the frontend-neutral visual tree of the widget.
type View struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Form        Form         `json:"form"`
	ResetLabel  string       `json:"resetLabel"`
	Error       string       `json:"error,omitempty"`
	Result      *ResultPanel `json:"result,omitempty"`
	Highlighted bool         `json:"highlighted"`
}

type Form struct {
	Query          string `json:"query"`
	Placeholder    string `json:"placeholder"`
	SubmitLabel    string `json:"submitLabel"`
	SubmitDisabled bool   `json:"submitDisabled"`
}

type ResultPanel struct {
	Lines []Line `json:"lines"`
}

type Line struct {
	Icon Icon   `json:"icon"`
	Text string `json:"text"`
}

// Render builds the view for state. now is only used for the day/night
// qualifier on the location line.
func Render(state InteractionState, now time.Time) View {
	v := View{
		Title:       Title,
		Description: Description,
		Form: Form{
			Query:          state.Query,
			Placeholder:    Placeholder,
			SubmitLabel:    "Search",
			SubmitDisabled: state.IsLoading,
		},
		ResetLabel:  "Reset",
		Error:       state.Error,
		Highlighted: state.IsHovered,
	}
	if state.IsLoading {
		v.Form.SubmitLabel = "Loading..."
	}

	if s := state.Snapshot; s != nil {
		v.Result = &ResultPanel{Lines: []Line{
			{Icon: IconThermometer, Text: weather.TemperatureMessage(s.Temperature, s.Unit)},
			{Icon: conditionIcon(weather.ClassifyCondition(s.Description)), Text: weather.ConditionMessage(s.Description)},
			{Icon: IconMapPin, Text: weather.LocationMessage(s.Location, now.Hour())},
		}}
	}

	return v
}

func conditionIcon(c weather.Condition) Icon {
	switch c {
	case weather.ConditionClear:
		return IconSun
	case weather.ConditionRain:
		return IconRain
	case weather.ConditionSnow:
		return IconSnow
	case weather.ConditionStorm:
		return IconStorm
	case weather.ConditionMist:
		return IconMist
	default:
		return IconCloud
	}
}
