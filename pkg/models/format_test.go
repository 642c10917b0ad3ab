package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	toon "github.com/toon-format/toon-go"
)

// TestCatalogSerializesToJSON ensures the static catalog round-trips.
func TestCatalogSerializesToJSON(t *testing.T) {
	data, err := json.Marshal(MetricGroups)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	var back []MetricGroup
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if len(back) != len(MetricGroups) || back[0].Chart != MetricGroups[0].Chart {
		t.Errorf("catalog changed in round trip: %+v", back)
	}
}

// TestCatalogSerializesToTOON ensures the catalog can be handed to an assistant.
func TestCatalogSerializesToTOON(t *testing.T) {
	out, err := toon.Marshal(MetricGroups, toon.WithIndent(2))
	if err != nil {
		t.Fatalf("toon.Marshal failed: %v", err)
	}
	if !strings.Contains(string(out), "grip_speed") {
		t.Errorf("TOON output missing group slug: %s", out)
	}
}

func TestDirectionImplementsStringer(t *testing.T) {
	var s fmt.Stringer = DirectionOptimal
	if s.String() != "optimal" {
		t.Errorf("DirectionOptimal.String() = %q", s.String())
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{45, "45.00"},
		{-22.5, "-22.50"},
		{0, "0.00"},
		{1.0 / 3.0, "0.33"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatValueDuration(t *testing.T) {
	if got := FormatValue(1500 * time.Millisecond); got != "1.50" {
		t.Errorf("FormatValue(1.5s) = %q, want 1.50", got)
	}
}
