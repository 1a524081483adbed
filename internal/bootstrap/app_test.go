package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NancyCima/Azure-Dashboard/internal/llm"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/config"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/telemetry"
	"github.com/NancyCima/Azure-Dashboard/internal/users"
	"github.com/NancyCima/Azure-Dashboard/internal/workitems"
)

func strPtr(s string) *string { return &s }

func testConfig() config.Config {
	return config.Config{
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		TrackerMode:     "gateway",
		TrackerTimeout:  time.Second,
		CheckedTag:      "US Checked",
		LLMProvider:     "placeholder",
		LLMTimeout:      time.Second,
		DefaultLanguage: "es",
		MaxImages:       2,
		MaxImageBytes:   1 << 20,
	}
}

func buildTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	src := workitems.NewMemorySource([]workitems.WorkItem{
		{ID: 1, Title: "Login", WorkItemType: workitems.TypeUserStory, State: "Active", Tags: strPtr("US New"), Description: "<div>Como usuario quiero iniciar sesión</div>"},
		{ID: 2, Title: "Login API", WorkItemType: "Task", State: "Active", Dependencies: []int{1}},
		{ID: 3, Title: "Perfil", WorkItemType: workitems.TypeUserStory, State: "New"},
	})
	repo := users.NewMemoryRepo()
	hash, err := users.HashPassword("secreto")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := repo.Create(context.Background(), "ana", hash); err != nil {
		t.Fatalf("create user: %v", err)
	}

	app, err := BuildWith(context.Background(), testConfig(), Options{
		Logger: telemetry.NewTestLogger(t),
		Source: src,
		LLM:    llm.PlaceholderClient{Reply: "Criterios de Aceptación Sugeridos:\n- Validar el correo\nSugerencias Generales:\n- Mostrar errores claros\n"},
		Users:  repo,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return app
}

func TestWorkItemsExcludeNewStoriesAndDependents(t *testing.T) {
	app := buildTestApp(t)

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/workitems", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var items []workitems.WorkItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].ID != 3 {
		t.Fatalf("expected only item 3, got %+v", items)
	}
}

func TestLoginThenMarkChecked(t *testing.T) {
	app := buildTestApp(t)

	form := url.Values{"username": {"ana"}, "password": {"secreto"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/mark-user-story-checked/3", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("mark checked: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	items, err := app.Source.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, it := range items {
		if it.ID == 3 && (it.Tags == nil || *it.Tags != "US Checked") {
			t.Fatalf("expected tag on item 3, got %v", it.Tags)
		}
	}
}

func TestAnalyzeTicketEndToEnd(t *testing.T) {
	app := buildTestApp(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	ticket := `{"id": 3, "title": "Perfil", "description": "El usuario puede editar su perfil y cambiar su correo electrónico desde la configuración"}`
	if err := writer.WriteField("ticket", ticket); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze-ticket", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var payload struct {
		Status   string `json:"status"`
		Criteria struct {
			SuggestedCriteria  []string `json:"suggestedCriteria"`
			GeneralSuggestions []string `json:"generalSuggestions"`
		} `json:"criteria"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Status != "success" || len(payload.Criteria.SuggestedCriteria) != 1 || len(payload.Criteria.GeneralSuggestions) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestBuildLLMSelection(t *testing.T) {
	logger := telemetry.NewNoOpLogger()
	cfg := testConfig()

	cfg.LLMProvider = "openai"
	client, err := BuildLLM(cfg, logger)
	if err != nil {
		t.Fatalf("openai without key in dev: %v", err)
	}
	if _, ok := client.(llm.PlaceholderClient); !ok {
		t.Fatalf("expected placeholder without key, got %T", client)
	}

	cfg.Env = "production"
	if _, err := BuildLLM(cfg, logger); err == nil {
		t.Fatalf("expected error without key in production")
	}

	cfg.LLMProvider = "cohere"
	if _, err := BuildLLM(cfg, logger); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestBuildWithoutDatabaseFallsBackInDev(t *testing.T) {
	cfg := testConfig()
	app, err := BuildWith(context.Background(), cfg, Options{Logger: telemetry.NewTestLogger(t)})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if app.DB != nil || app.Cache != nil {
		t.Fatalf("expected no database or cache")
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	cfg.Env = "production"
	cfg.JWTSecret = "x"
	if _, err := BuildWith(context.Background(), cfg, Options{Logger: telemetry.NewTestLogger(t)}); err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}
