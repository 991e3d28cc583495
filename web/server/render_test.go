package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type sseTestEvent struct {
	Type string
	Data string
}

// parseSSEStream splits a captured SSE body into events. JSON payloads never
// contain raw newlines, so blank lines delimit frames.
func parseSSEStream(t *testing.T, body string) []sseTestEvent {
	t.Helper()

	var events []sseTestEvent
	for _, block := range strings.Split(body, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		var ev sseTestEvent
		for _, line := range strings.Split(block, "\n") {
			if after, ok := strings.CutPrefix(line, "event: "); ok {
				ev.Type = after
			}
			if after, ok := strings.CutPrefix(line, "data: "); ok {
				ev.Data = after
			}
		}
		events = append(events, ev)
	}
	return events
}

// streamRender performs a full render request and returns the SSE events.
func streamRender(t *testing.T, s *Server, query string) []sseTestEvent {
	t.Helper()

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/render?" + query)
	if err != nil {
		t.Fatalf("GET /api/render: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want text/event-stream", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading stream: %v", err)
	}
	return parseSSEStream(t, string(body))
}

// decodePNG checks a base64 payload decodes as a PNG of the given size.
func decodePNG(t *testing.T, b64 string, wantWidth, wantHeight int) {
	t.Helper()

	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("decoding base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != wantWidth || bounds.Dy() != wantHeight {
		t.Errorf("image size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), wantWidth, wantHeight)
	}
}

func TestHandleRender_StreamsPasses(t *testing.T) {
	s := newTestServer(t, testConfig())

	events := streamRender(t, s, "scene=default&width=64&maxSamples=2&maxPasses=2&tiles=false")
	if len(events) == 0 {
		t.Fatal("no SSE events received")
	}

	var passes []PassUpdate
	var consoles []string
	for _, ev := range events {
		switch ev.Type {
		case "passComplete":
			var p PassUpdate
			if err := json.Unmarshal([]byte(ev.Data), &p); err != nil {
				t.Fatalf("decoding pass update: %v", err)
			}
			passes = append(passes, p)
		case "console":
			var msg ConsoleMessage
			if err := json.Unmarshal([]byte(ev.Data), &msg); err != nil {
				t.Fatalf("decoding console message: %v", err)
			}
			consoles = append(consoles, msg.Message)
		case "error":
			t.Fatalf("unexpected error event: %s", ev.Data)
		case "tile":
			t.Fatalf("tile event received with tiles=false")
		}
	}

	if len(passes) != 2 {
		t.Fatalf("got %d passComplete events, want 2", len(passes))
	}

	first, last := passes[0], passes[1]
	if first.PassNumber != 1 || last.PassNumber != 2 {
		t.Errorf("pass numbers = %d, %d, want 1, 2", first.PassNumber, last.PassNumber)
	}
	if first.IsLast || !last.IsLast {
		t.Errorf("IsLast = %t, %t, want false, true", first.IsLast, last.IsLast)
	}
	if first.TotalPasses != 2 || last.TotalPasses != 2 {
		t.Errorf("TotalPasses = %d, %d, want 2, 2", first.TotalPasses, last.TotalPasses)
	}
	if first.AverageSamples != 1 || last.AverageSamples != 2 {
		t.Errorf("average samples = %v, %v, want 1, 2", first.AverageSamples, last.AverageSamples)
	}
	if first.TotalPixels != 64*36 {
		t.Errorf("TotalPixels = %d, want %d", first.TotalPixels, 64*36)
	}
	if first.ObjectCount != 8 {
		t.Errorf("ObjectCount = %d, want 8", first.ObjectCount)
	}
	decodePNG(t, last.ImageData, 64, 36)

	if len(consoles) == 0 {
		t.Fatal("no console events received")
	}
	if !strings.Contains(consoles[0], "Starting progressive render") {
		t.Errorf("first console message = %q, want the render start line", consoles[0])
	}

	if events[len(events)-1].Type != "complete" {
		t.Errorf("last event = %q, want complete", events[len(events)-1].Type)
	}
}

func TestHandleRender_TileEvents(t *testing.T) {
	s := newTestServer(t, testConfig())

	events := streamRender(t, s, "scene=default&width=64&maxSamples=1&maxPasses=1")

	var tiles []TileUpdate
	for _, ev := range events {
		if ev.Type == "error" {
			t.Fatalf("unexpected error event: %s", ev.Data)
		}
		if ev.Type != "tile" {
			continue
		}
		var tile TileUpdate
		if err := json.Unmarshal([]byte(ev.Data), &tile); err != nil {
			t.Fatalf("decoding tile update: %v", err)
		}
		tiles = append(tiles, tile)
	}

	// A 64x36 image with 64-pixel tiles is a single tile.
	if len(tiles) != 1 {
		t.Fatalf("got %d tile events, want 1", len(tiles))
	}

	tile := tiles[0]
	if tile.TileX != 0 || tile.TileY != 0 {
		t.Errorf("tile position = (%d, %d), want (0, 0)", tile.TileX, tile.TileY)
	}
	if tile.TileSize != 64 {
		t.Errorf("TileSize = %d, want 64", tile.TileSize)
	}
	if tile.TileNumber != 1 || tile.TotalTiles != 1 {
		t.Errorf("tile counters = %d/%d, want 1/1", tile.TileNumber, tile.TotalTiles)
	}
	if tile.PassNumber != 1 || tile.TotalPasses != 1 {
		t.Errorf("pass counters = %d/%d, want 1/1", tile.PassNumber, tile.TotalPasses)
	}
	decodePNG(t, tile.ImageData, 64, 36)

	if events[len(events)-1].Type != "complete" {
		t.Errorf("last event = %q, want complete", events[len(events)-1].Type)
	}
}

func TestHandleRender_InvalidParams(t *testing.T) {
	s := newTestServer(t, testConfig())

	events := streamRender(t, s, "width=banana")

	if len(events) != 1 {
		t.Fatalf("got %d events, want a single error event: %v", len(events), events)
	}
	if events[0].Type != "error" {
		t.Fatalf("event type = %q, want error", events[0].Type)
	}
	if !strings.Contains(events[0].Data, "invalid width") {
		t.Errorf("error data = %q, want it to mention invalid width", events[0].Data)
	}
}

func TestHandleRender_UnknownScene(t *testing.T) {
	s := newTestServer(t, testConfig())

	events := streamRender(t, s, "scene=nope&width=64")

	var errEvent *sseTestEvent
	for i := range events {
		if events[i].Type == "error" {
			errEvent = &events[i]
		}
		if events[i].Type == "passComplete" || events[i].Type == "complete" {
			t.Fatalf("render proceeded for unknown scene: %v", events[i])
		}
	}
	if errEvent == nil {
		t.Fatalf("no error event in %v", events)
	}
	if !strings.Contains(errEvent.Data, "unknown scene") {
		t.Errorf("error data = %q, want it to mention the unknown scene", errEvent.Data)
	}
}
