package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"success", TypeSuccess},
		{"warning", TypeWarning},
		{"error", TypeError},
		{"info", TypeInfo},
		{"ERROR", TypeError},
		{" warning ", TypeWarning},
		{"", TypeInfo},
		{"critical", TypeInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseType(tt.in))
		})
	}
}

func TestParseIconPosition(t *testing.T) {
	assert.Equal(t, IconTop, ParseIconPosition(""))
	assert.Equal(t, IconBottom, ParseIconPosition("bottom"))
	assert.Equal(t, IconLeft, ParseIconPosition("Left"))
	assert.Equal(t, IconRight, ParseIconPosition("right"))
	assert.Equal(t, IconTop, ParseIconPosition("diagonal"))
}

func TestPayload_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		check   func(t *testing.T, n Notification)
	}{
		{
			name:    "empty payload degrades to defaults",
			payload: Payload{},
			check: func(t *testing.T, n Notification) {
				assert.Equal(t, TypeInfo, n.Type)
				assert.Equal(t, int64(5000), n.Expiry)
				assert.Equal(t, "", n.Title)
				assert.Equal(t, "", n.Description)
				assert.Equal(t, IconTop, n.PositionIcon)
				assert.Empty(t, n.ID)
			},
		},
		{
			name: "explicit fields are kept",
			payload: Payload{
				Type:          "error",
				Title:         "Failed",
				Description:   "x",
				Expiry:        1000,
				Icon:          "fa-skull",
				IconAnimation: "spin",
				IconColor:     "#ffffff",
				BorderColor:   "#000000",
				PositionIcon:  "left",
			},
			check: func(t *testing.T, n Notification) {
				assert.Equal(t, TypeError, n.Type)
				assert.Equal(t, "Failed", n.Title)
				assert.Equal(t, "x", n.Description)
				assert.Equal(t, int64(1000), n.Expiry)
				assert.Equal(t, "fa-skull", n.Icon)
				assert.Equal(t, "spin", n.IconAnimation)
				assert.Equal(t, "#ffffff", n.IconColor)
				assert.Equal(t, "#000000", n.BorderColor)
				assert.Equal(t, IconLeft, n.PositionIcon)
			},
		},
		{
			name:    "negative expiry falls back",
			payload: Payload{Expiry: -10},
			check: func(t *testing.T, n Notification) {
				assert.Equal(t, int64(5000), n.Expiry)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.payload.Normalize(0))
		})
	}
}

func TestPayload_NormalizeCustomDefault(t *testing.T) {
	n := Payload{}.Normalize(2 * time.Second)
	assert.Equal(t, int64(2000), n.Expiry)
	assert.Equal(t, 2*time.Second, n.ExpiryDuration())
}

func TestParsePayload(t *testing.T) {
	p, err := ParsePayload([]byte(`{"type":"success","title":"Saved","expiry":1500,"positionIcon":"right"}`))
	require.NoError(t, err)
	assert.Equal(t, "success", p.Type)
	assert.Equal(t, "Saved", p.Title)
	assert.Equal(t, int64(1500), p.Expiry)
	assert.Equal(t, "right", p.PositionIcon)

	p, err = ParsePayload(nil)
	require.NoError(t, err)
	assert.Equal(t, Payload{}, p)

	_, err = ParsePayload([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestParsePayload_Lenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Payload
	}{
		{"numeric string expiry", `{"title":"t","expiry":"3000"}`, Payload{Title: "t", Expiry: 3000}},
		{"fractional expiry", `{"expiry":1500.5}`, Payload{Expiry: 1500}},
		{"unusable expiry", `{"expiry":"soon"}`, Payload{}},
		{"negative expiry", `{"expiry":-5}`, Payload{}},
		{"huge expiry is clamped", `{"expiry":1e300}`, Payload{Expiry: MaxExpiry}},
		{"non-string type", `{"type":7,"title":"t"}`, Payload{Title: "t"}},
		{"numeric title", `{"title":123,"description":true}`, Payload{Title: "123", Description: "true"}},
		{"object title", `{"title":{"a":1},"positionIcon":["left"]}`, Payload{}},
		{"null fields", `{"title":null,"expiry":null,"type":null}`, Payload{}},
		{"not an object", `"hello"`, Payload{}},
		{"wrong types keep good fields", `{"type":"error","title":"Failed","expiry":"x","iconColor":5}`, Payload{Type: "error", Title: "Failed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePayload([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestPayload_NormalizeClampsExpiry(t *testing.T) {
	n := Payload{Expiry: 9300000000000000}.Normalize(0)
	assert.Equal(t, MaxExpiry, n.Expiry)
	assert.Positive(t, n.ExpiryDuration())
	assert.Greater(t, n.ExpiryDuration(), 290*365*24*time.Hour)
}

func TestPayload_NormalizeSanitizesText(t *testing.T) {
	n := Payload{Title: " Disk\x07full ", Description: "a\x00b\nnext\tcol"}.Normalize(0)
	assert.Equal(t, "Disk full", n.Title)
	assert.Equal(t, "a b\nnext\tcol", n.Description)
}

func TestNotification_Remaining(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	n := Notification{CreatedAt: start, ExpiresAt: start.Add(4 * time.Second)}

	assert.Equal(t, 1.0, n.Remaining(start))
	assert.InDelta(t, 0.75, n.Remaining(start.Add(time.Second)), 1e-9)
	assert.InDelta(t, 0.5, n.Remaining(start.Add(2*time.Second)), 1e-9)
	assert.Equal(t, 0.0, n.Remaining(start.Add(5*time.Second)))

	var zero Notification
	assert.Equal(t, 0.0, zero.Remaining(start))
}

func TestNotification_PayloadRoundTrip(t *testing.T) {
	in := Payload{Type: "warning", Title: "Low fuel", Description: "10%", Expiry: 3000, PositionIcon: "bottom"}
	n := in.Normalize(0)
	assert.Equal(t, in, n.Payload())
}

func TestNewID(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := NewID(now)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(id, IDPrefix))
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
