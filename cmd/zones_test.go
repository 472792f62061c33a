package main

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListZones(t *testing.T) {
	c := testConfig(t)

	var buf bytes.Buffer
	require.NoError(t, listZones(&buf, c, 2024, ""))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, []string{"ID", "NAME", "INTENSITY", "TIER", "COLOR"}, strings.Fields(lines[0]))
	assert.Contains(t, lines[1], "north")
	assert.Contains(t, lines[1], "78%")
	assert.Contains(t, lines[1], "High")
	assert.Contains(t, lines[1], "bg-orange-500")
	assert.Contains(t, lines[4], "Very High")
}

func TestListZones_SpanishHexUnknownYear(t *testing.T) {
	c := testConfig(t)
	c.Display.Locale = "es"

	var buf bytes.Buffer
	require.NoError(t, listZones(&buf, c, 0, "hex"))
	out := buf.String()
	assert.Contains(t, out, "Muy alta")
	assert.Contains(t, out, "#ef4444")

	buf.Reset()
	require.NoError(t, listZones(&buf, c, 1999, ""))
	assert.Equal(t, "No zones for 1999.\n", buf.String())
}

func TestClassifyValues(t *testing.T) {
	c := testConfig(t)

	var buf bytes.Buffer
	require.NoError(t, classifyValues(&buf, c, []string{"39", "40", "60", "80", "150", "-5"}, ""))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, []string{"39", "Low", "bg-green-500"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"40", "Medium", "bg-yellow-500"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"60", "High", "bg-orange-500"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"80", "Very", "High", "bg-red-500"}, strings.Fields(lines[4]))
	assert.Equal(t, []string{"150", "Very", "High", "bg-red-500"}, strings.Fields(lines[5]))
	assert.Equal(t, []string{"-5", "Low", "bg-green-500"}, strings.Fields(lines[6]))
}

func TestClassifyValues_InvalidInput(t *testing.T) {
	c := testConfig(t)

	err := classifyValues(&bytes.Buffer{}, c, []string{"78", "lots"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid intensity "lots"`)
}

func TestLayoutZones_Radial(t *testing.T) {
	c := testConfig(t)

	var buf bytes.Buffer
	require.NoError(t, layoutZones(&buf, c, 2024, "radial", "south", 0))

	var descs []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &descs))
	require.Len(t, descs, 8)
	assert.Equal(t, 45.0, descs[1]["angle"])
	assert.Equal(t, true, descs[3]["selected"])
}

func TestLayoutZones_NaNStep(t *testing.T) {
	c := testConfig(t)

	var buf bytes.Buffer
	require.NoError(t, layoutZones(&buf, c, 2024, "radial", "", math.NaN()))

	var descs []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &descs))
	require.Len(t, descs, 8)
	assert.Equal(t, 90.0, descs[2]["angle"])
}

func TestLayoutZones_GeoJSON(t *testing.T) {
	c := testConfig(t)

	var buf bytes.Buffer
	require.NoError(t, layoutZones(&buf, c, 0, "geojson", "", 0))

	var fc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc["type"])
	assert.Len(t, fc["features"], 8)
}

func TestLayoutZones_UnknownStrategy(t *testing.T) {
	c := testConfig(t)

	err := layoutZones(&bytes.Buffer{}, c, 2024, "spiral", "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}

func TestForecastZones(t *testing.T) {
	c := testConfig(t)

	var buf bytes.Buffer
	require.NoError(t, forecastZones(&buf, c, 0, "", ""))
	out := buf.String()

	assert.Contains(t, out, "Forecast 2025 from 2024 (linear)")
	assert.Regexp(t, `north\s+North Monterrey\s+78%\s+81%\s+Very High\s+bg-red-500\s+\+1\.5`, out)
	assert.Regexp(t, `northeast\s+Northeast Monterrey\s+85%\s+91%`, out)
	assert.Contains(t, out, "Holdout 2024")
	assert.Regexp(t, `linear\s+3\.00\s+5\.07\s+3\.7%`, out)
	assert.Regexp(t, `naive\s+3\.75\s+3\.87\s+4\.8%\s+best`, out)
}

func TestForecastZones_SingleYearAndErrors(t *testing.T) {
	c := testConfig(t)

	var buf bytes.Buffer
	require.NoError(t, forecastZones(&buf, c, 2022, "naive", "hex"))
	assert.Contains(t, buf.String(), "Forecast 2023 from 2022 (naive)")
	assert.Contains(t, buf.String(), "#ef4444")
	assert.Contains(t, buf.String(), "Not enough history to validate.")

	buf.Reset()
	require.NoError(t, forecastZones(&buf, c, 1999, "linear", ""))
	assert.Equal(t, "No zones for 1999.\n", buf.String())

	err := forecastZones(&buf, c, 0, "prophet", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown method "prophet"`)
}
