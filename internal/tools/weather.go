package tools

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"xantus-mcp-go/internal/validate"
)

var weatherDescriptions = []string{
	"clear sky",
	"few clouds",
	"scattered clouds",
	"overcast",
	"light rain",
	"moderate rain",
	"thunderstorm",
	"light snow",
	"mist",
}

// WeatherTool generates a mock weather report. Deterministic in shape
// only, not in value; no external call is made.
type WeatherTool struct {
	logger zerolog.Logger
}

// NewWeatherTool creates a new mock weather tool.
func NewWeatherTool(logger zerolog.Logger) *WeatherTool {
	return &WeatherTool{
		logger: logger.With().Str("component", "weather_tool").Logger(),
	}
}

// Name returns the name of the tool.
func (t *WeatherTool) Name() string {
	return "weather"
}

// Definition returns the tool definition.
func (t *WeatherTool) Definition() Definition {
	return Definition{
		Name:        t.Name(),
		Description: "Get mock weather information for a location",
		InputSchema: validate.Schema{
			Type: "object",
			Properties: map[string]validate.Property{
				"location": {
					Type:        "string",
					Description: "City or place name",
				},
				"units": {
					Type:        "string",
					Description: "Unit system for the report",
					Enum:        []string{"metric", "imperial", "kelvin"},
					Default:     "metric",
				},
				"forecast": {
					Type:        "boolean",
					Description: "Include a five day forecast",
					Default:     false,
				},
			},
			Required: []string{"location"},
		},
	}
}

// Call formats a multi-line human-readable report as the sole content
// block.
func (t *WeatherTool) Call(ctx context.Context, tc ToolContext, args map[string]any) (*Response, error) {
	location, _ := args["location"].(string)
	location = validate.SanitizeString(location)
	if location == "" {
		return ErrorResponse("Location must not be empty"), nil
	}

	units, _ := args["units"].(string)
	if units == "" {
		units = "metric"
	}
	switch units {
	case "metric", "imperial", "kelvin":
	default:
		return ErrorResponse(fmt.Sprintf("Unsupported units: %s", units)), nil
	}

	forecast, _ := args["forecast"].(bool)

	t.logger.Debug().
		Str("request_id", tc.RequestID).
		Str("location", location).
		Str("units", units).
		Bool("forecast", forecast).
		Msg("Generating weather report")

	var b strings.Builder
	temp := t.randomTemp(units)
	feelsLike := temp + rand.Float64()*4 - 2

	fmt.Fprintf(&b, "Weather Report for %s\n", location)
	fmt.Fprintf(&b, "Temperature: %.1f%s (feels like %.1f%s)\n",
		temp, unitSymbol(units), feelsLike, unitSymbol(units))
	fmt.Fprintf(&b, "Conditions: %s\n", weatherDescriptions[rand.Intn(len(weatherDescriptions))])
	fmt.Fprintf(&b, "Humidity: %d%%\n", 30+rand.Intn(61))
	fmt.Fprintf(&b, "Pressure: %d hPa\n", 980+rand.Intn(61))
	fmt.Fprintf(&b, "Wind: %.1f %s", rand.Float64()*30, windUnit(units))

	if forecast {
		b.WriteString("\n\nFive Day Forecast:")
		for day := 1; day <= 5; day++ {
			date := time.Now().AddDate(0, 0, day).Format("2006-01-02")
			fmt.Fprintf(&b, "\n%s: %.1f%s, %s",
				date,
				t.randomTemp(units),
				unitSymbol(units),
				weatherDescriptions[rand.Intn(len(weatherDescriptions))])
		}
	}

	return TextResponse(b.String()), nil
}

func (t *WeatherTool) randomTemp(units string) float64 {
	celsius := rand.Float64()*45 - 10
	switch units {
	case "imperial":
		return celsius*9/5 + 32
	case "kelvin":
		return celsius + 273.15
	}
	return celsius
}

func unitSymbol(units string) string {
	switch units {
	case "imperial":
		return "°F"
	case "kelvin":
		return "K"
	}
	return "°C"
}

func windUnit(units string) string {
	if units == "imperial" {
		return "mph"
	}
	return "m/s"
}
