package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/infrastructure/store"
	"github.com/inkboard/inkboard/internal/pkg/logger"
	"github.com/inkboard/inkboard/internal/services"
)

type nopBroadcaster struct{}

func (nopBroadcaster) Send(string, any) error { return nil }

type nopPersister struct{}

func (nopPersister) UpsertShapes(context.Context, []domain.Shape) error { return nil }
func (nopPersister) DeleteShape(context.Context, string) error          { return nil }
func (nopPersister) LoadAll(context.Context) ([]domain.Shape, error)    { return nil, nil }
func (nopPersister) Close() error                                       { return nil }

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore(50)
	log := logger.NewStd(false)
	canvas := domain.CanvasSettings{Width: 1920, Height: 1080, HistoryDepth: 50}
	tools := services.NewToolbox(mem, nopBroadcaster{}, nopPersister{}, log, "api", canvas)
	interpreter := &services.InterpreterService{
		Rules:  services.NewRuleParser(mem, tools),
		Logger: log,
	}
	upgrade := func(w http.ResponseWriter, r *http.Request) {}
	return NewServer(interpreter, mem, upgrade, time.Minute, "127.0.0.1:0", log), mem
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandleInterpretSuccess(t *testing.T) {
	server, mem := newTestServer(t)

	rec := postJSON(t, server.handleInterpret, `{"text":"create a red circle"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp interpretResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Type != domain.ResponseSuccess {
		t.Fatalf("got %+v", resp)
	}
	if len(mem.All()) != 1 {
		t.Fatal("shape not created")
	}
}

func TestHandleInterpretRejectsEmptyText(t *testing.T) {
	server, _ := newTestServer(t)
	if rec := postJSON(t, server.handleInterpret, `{"text":""}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if rec := postJSON(t, server.handleInterpret, `not json`); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestConfirmFlow(t *testing.T) {
	server, mem := newTestServer(t)
	mem.Upsert(domain.Shape{ID: "a", Type: domain.ShapeCircle})
	mem.Upsert(domain.Shape{ID: "b", Type: domain.ShapeCircle})

	rec := postJSON(t, server.handleInterpret, `{"text":"delete everything"}`)
	var resp interpretResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Type != domain.ResponseConfirmation || resp.ConfirmID == "" {
		t.Fatalf("got %+v", resp)
	}
	if len(mem.All()) != 2 {
		t.Fatal("destructive op ran before confirmation")
	}

	// Claim the deferred action.
	req := httptest.NewRequest(http.MethodPost, "/v1/confirm/"+resp.ConfirmID, nil)
	req.SetPathValue("id", resp.ConfirmID)
	confirmRec := httptest.NewRecorder()
	server.handleConfirm(confirmRec, req)
	if confirmRec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d, body = %s", confirmRec.Code, confirmRec.Body)
	}
	if len(mem.All()) != 0 {
		t.Fatal("shapes remain after confirmed delete")
	}

	// Claiming is one-shot.
	repeatRec := httptest.NewRecorder()
	server.handleConfirm(repeatRec, req)
	if repeatRec.Code != http.StatusNotFound {
		t.Fatalf("second claim status = %d, want 404", repeatRec.Code)
	}
}

func TestConfirmUnknownID(t *testing.T) {
	server, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/confirm/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	server.handleConfirm(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestConfirmRegistryTTL(t *testing.T) {
	registry := newConfirmRegistry(time.Millisecond)
	id := registry.add(func() domain.AIResponse { return domain.SuccessResponse("ok", nil) })

	time.Sleep(5 * time.Millisecond)
	if _, ok := registry.claim(id); ok {
		t.Fatal("expired confirmation must not be claimable")
	}
}

func TestHandleShapes(t *testing.T) {
	server, mem := newTestServer(t)
	mem.Upsert(domain.Shape{ID: "a", Type: domain.ShapeCircle})

	req := httptest.NewRequest(http.MethodGet, "/v1/shapes", nil)
	rec := httptest.NewRecorder()
	server.handleShapes(rec, req)

	var body struct {
		Shapes []domain.Shape `json:"shapes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Shapes) != 1 || body.Shapes[0].ID != "a" {
		t.Fatalf("got %+v", body.Shapes)
	}
}
