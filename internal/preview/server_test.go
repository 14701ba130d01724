package preview

import (
	"context"
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/VantageDataChat/GoSlides/export"
	"github.com/VantageDataChat/GoSlides/fonts"
	"github.com/VantageDataChat/GoSlides/internal/store"
	"github.com/VantageDataChat/GoSlides/render/record"
	"github.com/VantageDataChat/GoSlides/scene"
)

type memDocs map[string]*scene.Document

func (m memDocs) List(context.Context) ([]store.Summary, error) {
	var out []store.Summary
	for _, d := range m {
		out = append(out, store.Summary{ID: d.Presentation.ID, Title: d.Presentation.Title, SlideCount: d.SlideCount()})
	}
	return out, nil
}

func (m memDocs) Load(_ context.Context, id string) (*scene.Document, error) {
	d, ok := m[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return d.Clone(), nil
}

func newTestServer(t *testing.T) (*httptest.Server, *scene.Document) {
	t.Helper()
	doc := scene.New("Preview")
	el := scene.NewElement(scene.ElementShape, 100, 100, 200, 100)
	el.Shape = &scene.ShapeContent{Kind: scene.ShapeRectangle}
	el.Style.Fill = scene.Solid("#3366FF")
	doc.OrderedSlides()[0].AddElement(el)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	exp := export.New(&export.Options{Scale: 1, Fonts: fonts.NewCacheDirs(), Logger: log})
	srv := httptest.NewServer(New(memDocs{doc.Presentation.ID: doc}, exp, log).Handler())
	t.Cleanup(srv.Close)
	return srv, doc
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] != export.Version {
		t.Errorf("body = %v", body)
	}
}

func TestListPresentations(t *testing.T) {
	srv, doc := newTestServer(t)
	var list []store.Summary
	if err := json.NewDecoder(get(t, srv.URL+"/presentations").Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != doc.Presentation.ID {
		t.Errorf("list = %+v", list)
	}
}

func TestSlidePNG(t *testing.T) {
	srv, doc := newTestServer(t)
	slideID := doc.Presentation.SlideIDs[0]
	resp := get(t, srv.URL+"/presentations/"+doc.Presentation.ID+"/slides/"+slideID+".png")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 960 || b.Dy() != 540 {
		t.Errorf("bounds = %v", b)
	}
}

func TestSlideOps(t *testing.T) {
	srv, doc := newTestServer(t)
	slideID := doc.Presentation.SlideIDs[0]
	resp := get(t, srv.URL+"/presentations/"+doc.Presentation.ID+"/slides/"+slideID+"/ops")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	ops, err := record.ReadJSON(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	fills := 0
	for _, op := range ops {
		if op.Kind == record.OpFill {
			fills++
		}
	}
	// background and rectangle
	if fills < 2 {
		t.Errorf("got %d fill ops in %d ops", fills, len(ops))
	}
}

func TestNotFound(t *testing.T) {
	srv, doc := newTestServer(t)
	for _, path := range []string{
		"/presentations/missing",
		"/presentations/missing/slides/x.png",
		"/presentations/" + doc.Presentation.ID + "/slides/missing/ops",
	} {
		if resp := get(t, srv.URL+path); resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s status = %d", path, resp.StatusCode)
		}
	}
}

func TestLive(t *testing.T) {
	srv, doc := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/presentations/" + doc.Presentation.ID + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	slideID := doc.Presentation.SlideIDs[0]
	if err := conn.WriteJSON(LiveRequest{SlideID: slideID}); err != nil {
		t.Fatal(err)
	}
	var resp LiveResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.SlideID != slideID || resp.Error != "" || len(resp.Ops) == 0 {
		t.Errorf("response = %+v", resp)
	}

	if err := conn.WriteJSON(LiveRequest{SlideID: "missing"}); err != nil {
		t.Fatal(err)
	}
	resp = LiveResponse{}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error == "" || len(resp.Ops) != 0 {
		t.Errorf("missing slide response = %+v", resp)
	}
}
