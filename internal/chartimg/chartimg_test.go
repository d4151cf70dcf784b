package chartimg

import (
	"bytes"
	"testing"

	"crypto-nexus/internal/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderProducesPNG(t *testing.T) {
	points := []domain.ChartPoint{
		{Time: "10:00", Price: 100},
		{Time: "11:00", Price: 105},
		{Time: "12:00", Price: 103},
	}

	png, err := Render("BTC 1d", points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("output does not look like a PNG: % x", png[:8])
	}
}

func TestRenderRejectsShortSeries(t *testing.T) {
	if _, err := Render("BTC", []domain.ChartPoint{{Time: "10:00", Price: 1}}); err == nil {
		t.Fatal("expected error for a single point")
	}
	if _, err := Render("BTC", nil); err == nil {
		t.Fatal("expected error for an empty series")
	}
}
