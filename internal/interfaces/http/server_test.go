package http

import (
	"bufio"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appConversation "github.com/rag-assistant/backend/internal/application/conversation"
	appDocument "github.com/rag-assistant/backend/internal/application/document"
	"github.com/rag-assistant/backend/internal/application/query"
	"github.com/rag-assistant/backend/internal/application/settings"
	"github.com/rag-assistant/backend/internal/infrastructure/chunking"
	"github.com/rag-assistant/backend/internal/infrastructure/config"
	infraRetrieval "github.com/rag-assistant/backend/internal/infrastructure/retrieval"
	"github.com/rag-assistant/backend/internal/infrastructure/storage"
	"github.com/rag-assistant/backend/internal/infrastructure/watcher"
	"github.com/rag-assistant/backend/internal/infrastructure/websocket"
	"github.com/rag-assistant/backend/internal/interfaces/http/handler"
	"github.com/rag-assistant/backend/internal/interfaces/http/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Detail  string          `json:"detail"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	dir := t.TempDir()

	store, err := storage.NewSessionStoreAt(filepath.Join(dir, "sessions"))
	require.NoError(t, err)
	db, err := storage.OpenDB(filepath.Join(dir, "rag.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	docs, err := storage.NewDocumentRepository(db)
	require.NoError(t, err)
	chunker, err := chunking.NewTokenChunkerWithSize(512, 4096)
	require.NoError(t, err)

	bus := watcher.NewEventBus()
	t.Cleanup(bus.Close)

	providerCfg := &config.ProviderConfig{Timeout: time.Second}
	settingsStore := infraRetrieval.NewSettingsStoreAt(filepath.Join(dir, "settings.json"), filepath.Join(dir, ".key"))
	provider, err := infraRetrieval.NewSwitchableProvider(providerCfg, settingsStore)
	require.NoError(t, err)

	locks := appConversation.NewSessionLocks()
	engine, err := appConversation.NewEngine(store, provider, bus, locks, &config.ConversationConfig{TopK: 2, Method: "hybrid"})
	require.NoError(t, err)

	hub := websocket.NewHub()
	return NewRouter(&Handlers{
		Conversation: handler.NewConversationHandler(engine, appConversation.NewEmitter(engine)),
		Session:      handler.NewSessionHandler(appConversation.NewSessionService(store, bus, locks)),
		Query:        handler.NewQueryHandler(query.NewService(provider, &config.QueryConfig{TopK: 3, Method: "hybrid"})),
		Document: handler.NewDocumentHandler(appDocument.NewService(
			docs, storage.NewFileBlobStoreAt(filepath.Join(dir, "documents")), chunker, bus)),
		Provider:  handler.NewProviderHandler(settings.NewService(provider, settingsStore, providerCfg)),
		WebSocket: handler.NewWebSocketHandler(websocket.NewUpgrader(hub, &config.WebSocketConfig{ReadBufferSize: 1024, WriteBufferSize: 1024})),
	}, nil)
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestHealth(t *testing.T) {
	r := setupRouter(t)
	w, _ := do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestQuery(t *testing.T) {
	r := setupRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/v1/query", `{"question":"什么是RAG","top_k":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	var answer struct {
		Answer   string           `json:"answer"`
		Sources  []map[string]any `json:"sources"`
		Metadata map[string]any   `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &answer))
	assert.Contains(t, answer.Answer, "什么是RAG")
	assert.Len(t, answer.Sources, 2)
	assert.Contains(t, answer.Metadata, "query_time_ms")

	w, env = do(t, r, http.MethodPost, "/api/v1/query", `{"question":"q","method":"fuzzy"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeValidation, env.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/query", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConversationAndSessions(t *testing.T) {
	r := setupRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/v1/conversation", `{"question":"first"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var turn appConversation.TurnResult
	require.NoError(t, json.Unmarshal(env.Data, &turn))
	require.NotEmpty(t, turn.SessionID)

	w, env = do(t, r, http.MethodPost, "/api/v1/conversation",
		`{"question":"second","session_id":"`+turn.SessionID+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var next appConversation.TurnResult
	require.NoError(t, json.Unmarshal(env.Data, &next))
	assert.Equal(t, turn.SessionID, next.SessionID)

	w, env = do(t, r, http.MethodGet, "/api/v1/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	var summaries []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &summaries))
	require.Len(t, summaries, 1)
	assert.EqualValues(t, 4, summaries[0]["message_count"])

	w, env = do(t, r, http.MethodGet, "/api/v1/sessions/"+turn.SessionID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var session map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.Equal(t, "first", session["title"])

	w, env = do(t, r, http.MethodGet, "/api/v1/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeSessionNotFound, env.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/v1/sessions/"+turn.SessionID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodDelete, "/api/v1/sessions/"+turn.SessionID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = do(t, r, http.MethodPost, "/api/v1/conversation", `{"question":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeValidation, env.Code)
}

func readSSE(t *testing.T, body string) []string {
	t.Helper()
	var data []string
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		if line, ok := strings.CutPrefix(scanner.Text(), "data:"); ok {
			data = append(data, line)
		}
	}
	return data
}

func TestConversationStream(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversation/stream",
		strings.NewReader(`{"question":"stream me"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	assert.NotContains(t, w.Body.String(), "event:")
	assert.True(t, strings.HasPrefix(w.Body.String(), "data:{"))
	assert.True(t, strings.HasSuffix(w.Body.String(), "data:[DONE]\n\n"))

	data := readSSE(t, w.Body.String())
	require.GreaterOrEqual(t, len(data), 3)
	assert.Equal(t, "[DONE]", data[len(data)-1])

	var first, last map[string]any
	require.NoError(t, json.Unmarshal([]byte(data[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(data[len(data)-2]), &last))
	assert.Equal(t, "metadata", first["type"])
	assert.Equal(t, "end", last["type"])
	assert.Equal(t, first["session_id"], last["session_id"])

	w, _ = do(t, r, http.MethodGet, "/api/v1/sessions/"+first["session_id"].(string), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestConversationStream_EmptyQuestion(t *testing.T) {
	r := setupRouter(t)
	w, env := do(t, r, http.MethodPost, "/api/v1/conversation/stream", `{"question":" "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeValidation, env.Code)
}

func upload(t *testing.T, r *gin.Engine, field, filename string, content []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestDocuments(t *testing.T) {
	r := setupRouter(t)

	w, env := upload(t, r, "file", "manual.txt", []byte("hello knowledge base"))
	require.Equal(t, http.StatusOK, w.Code)
	var uploaded struct {
		DocumentID string `json:"document_id"`
		ChunkCount int    `json:"chunk_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &uploaded))
	require.NotEmpty(t, uploaded.DocumentID)
	assert.Equal(t, 1, uploaded.ChunkCount)

	w, _ = upload(t, r, "other", "manual.txt", []byte("x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/v1/documents", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	w, _ = do(t, r, http.MethodGet, "/api/v1/documents/"+uploaded.DocumentID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/v1/documents/"+uploaded.DocumentID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/v1/documents/"+uploaded.DocumentID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeDocumentNotFound, env.Code)
}

func TestProviderSettings(t *testing.T) {
	r := setupRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/v1/provider/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"mode":"mock"`)

	w, env = do(t, r, http.MethodPost, "/api/v1/provider/settings",
		`{"endpoint":"http://localhost:9000","credential":"secret-token"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"mode":"remote"`)
	assert.NotContains(t, string(env.Data), "secret-token")

	w, _ = do(t, r, http.MethodPost, "/api/v1/provider/settings", `{"endpoint":"ftp://x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
