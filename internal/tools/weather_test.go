package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callWeather(t *testing.T, args map[string]any) *Response {
	t.Helper()
	tool := NewWeatherTool(zerolog.Nop())
	resp, err := tool.Call(context.Background(), NewToolContext("req_test"), args)
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.Content)
	return resp
}

func TestWeather_ReportShape(t *testing.T) {
	resp := callWeather(t, map[string]any{"location": "Lisbon"})
	require.False(t, resp.IsError)
	require.Len(t, resp.Content, 1)

	report := resp.Content[0].Text
	assert.Contains(t, report, "Weather Report for Lisbon")
	assert.Contains(t, report, "Temperature:")
	assert.Contains(t, report, "°C")
	assert.Contains(t, report, "Humidity:")
	assert.Contains(t, report, "Pressure:")
	assert.Contains(t, report, "Wind:")
	assert.NotContains(t, report, "Forecast")
}

func TestWeather_Units(t *testing.T) {
	resp := callWeather(t, map[string]any{"location": "Oslo", "units": "imperial"})
	assert.Contains(t, resp.Content[0].Text, "°F")
	assert.Contains(t, resp.Content[0].Text, "mph")

	resp = callWeather(t, map[string]any{"location": "Oslo", "units": "kelvin"})
	assert.Contains(t, resp.Content[0].Text, "K")
}

func TestWeather_Forecast(t *testing.T) {
	resp := callWeather(t, map[string]any{"location": "Tokyo", "forecast": true})
	report := resp.Content[0].Text

	assert.Contains(t, report, "Five Day Forecast:")
	// One line per forward-dated day.
	forecastSection := report[strings.Index(report, "Five Day Forecast:"):]
	assert.Equal(t, 5, strings.Count(forecastSection, "\n"))
}

func TestWeather_EmptyLocation(t *testing.T) {
	resp := callWeather(t, map[string]any{"location": "  "})
	assert.True(t, resp.IsError)
}

func TestWeather_UnsupportedUnits(t *testing.T) {
	resp := callWeather(t, map[string]any{"location": "Paris", "units": "rankine"})
	assert.True(t, resp.IsError)
	assert.Contains(t, resp.Content[0].Text, "Unsupported units")
}

func TestWeather_LocationSanitized(t *testing.T) {
	resp := callWeather(t, map[string]any{"location": `<b>"Berlin"</b>`})
	require.False(t, resp.IsError)
	assert.Contains(t, resp.Content[0].Text, "Weather Report for bBerlin/b")
}
