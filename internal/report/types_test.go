package report

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMetadataMarshaling(t *testing.T) {
	meta := Metadata{
		Institution: "Test institute",
		Identity:    "Jan Novak, 1990-01-01",
		GeneratedAt: time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC),
		Version:     "1.0.0",
	}

	data, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("failed to marshal Metadata: %v", err)
	}

	var unmarshaled Metadata
	if err := json.Unmarshal(data, &unmarshaled); err != nil {
		t.Fatalf("failed to unmarshal Metadata: %v", err)
	}

	if unmarshaled.Identity != meta.Identity {
		t.Errorf("Identity = %q, want %q", unmarshaled.Identity, meta.Identity)
	}
	if !unmarshaled.GeneratedAt.Equal(meta.GeneratedAt) {
		t.Errorf("GeneratedAt = %v, want %v", unmarshaled.GeneratedAt, meta.GeneratedAt)
	}
}

func TestDocumentHelpers(t *testing.T) {
	var doc Document
	doc.Add(
		Heading{Text: "A", Level: 1},
		Paragraph{Text: "text"},
		Image{Name: "x"},
		PageBreak{},
		Heading{Text: "B", Level: 2},
		Image{Name: "y"},
	)

	got := doc.Headings()
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("Headings() = %v, want [A B]", got)
	}
	if doc.Images() != 2 {
		t.Errorf("Images() = %d, want 2", doc.Images())
	}
}
