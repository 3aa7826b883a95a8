package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"lecturapozos/internal/app/client/config"
	"lecturapozos/internal/utils/logger"
)

type uploadCall struct {
	Ref      string
	RefID    int
	Field    string
	Filename string
	Mime     string
}

// fakeBackend эмулирует контракт удаленного API поверх chi
type fakeBackend struct {
	server *httptest.Server

	mu           sync.Mutex
	healthy      bool
	nextID       int
	createStatus []int
	failFields   map[string]bool
	creates      []Payload
	uploads      []uploadCall
	authHeaders  []string
	pozos        []Pozo
	lecturas     []Lectura
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{
		healthy:    true,
		nextID:     100,
		failFields: make(map[string]bool),
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", b.handleHealth)
		r.Post("/auth/local", b.handleLogin)
		r.Post("/auth/local/register", b.handleRegister)
		r.Post("/lectura-pozos", b.handleCreate)
		r.Get("/lectura-pozos", b.handleListLecturas)
		r.Get("/pozos", b.handleListPozos)
		r.Post("/upload", b.handleUpload)
	})

	b.server = httptest.NewServer(r)
	t.Cleanup(b.server.Close)

	return b
}

func (b *fakeBackend) config(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Env:                    logger.EnvLocal,
		ServerAddress:          b.server.URL,
		APIPrefix:              "/api",
		ConfigDir:              dir,
		TokenPath:              dir + "/token",
		DataPath:               dir + "/data.db",
		HTTPTimeout:            5,
		ProbeInterval:          1,
		FollowUpOnMissedSignal: true,
	}
}

func (b *fakeBackend) client(t *testing.T) *httpClient {
	t.Helper()
	h, err := NewHTTPClient(b.config(t), logger.Discard())
	if err != nil {
		t.Fatalf("Ошибка создания HTTP клиента: %v", err)
	}
	h.SetToken("test-token")
	return h
}

// respondCreate задает коды ответа для следующих вызовов создания показания
func (b *fakeBackend) respondCreate(statuses ...int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createStatus = append(b.createStatus, statuses...)
}

func (b *fakeBackend) failUpload(field string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failFields[field] = true
}

func (b *fakeBackend) setHealthy(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.healthy = v
}

func (b *fakeBackend) createCalls() []Payload {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Payload(nil), b.creates...)
}

func (b *fakeBackend) uploadCalls() []uploadCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]uploadCall(nil), b.uploads...)
}

func (b *fakeBackend) handleHealth(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	healthy := b.healthy
	b.mu.Unlock()

	if !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (b *fakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]string{"message": "bad request"}})
		return
	}
	if req.Password != "secreto" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]string{"message": "Invalid identifier or password"}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"jwt":  "jwt-" + req.Identifier,
		"user": User{ID: 7, Username: req.Identifier, Email: req.Identifier + "@example.mx"},
	})
}

func (b *fakeBackend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]string{"message": "bad request"}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"jwt":  "jwt-" + req.Username,
		"user": User{ID: 8, Username: req.Username, Email: req.Email},
	})
}

func (b *fakeBackend) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data Payload `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]string{"message": "bad request"}})
		return
	}

	b.mu.Lock()
	b.creates = append(b.creates, req.Data)
	b.authHeaders = append(b.authHeaders, r.Header.Get("Authorization"))
	status := http.StatusOK
	if len(b.createStatus) > 0 {
		status = b.createStatus[0]
		b.createStatus = b.createStatus[1:]
	}
	id := 0
	if status == http.StatusOK {
		b.nextID++
		id = b.nextID
		b.lecturas = append(b.lecturas, Lectura{ID: id, Payload: req.Data})
	}
	b.mu.Unlock()

	switch status {
	case http.StatusOK:
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": id, "attributes": req.Data}})
	case http.StatusConflict:
		writeJSON(w, http.StatusConflict, map[string]any{"error": map[string]string{"message": "Ya existe una lectura para este periodo"}})
	default:
		writeJSON(w, status, map[string]any{"error": map[string]string{"message": "internal"}})
	}
}

func (b *fakeBackend) handleListLecturas(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := make([]map[string]any, 0, len(b.lecturas))
	for _, l := range b.lecturas {
		data = append(data, map[string]any{"id": l.ID, "attributes": l})
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (b *fakeBackend) handleListPozos(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := make([]map[string]any, 0, len(b.pozos))
	for _, p := range b.pozos {
		data = append(data, map[string]any{
			"id":         p.ID,
			"attributes": map[string]string{"nombre": p.Nombre, "bateria": p.Bateria},
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (b *fakeBackend) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]string{"message": err.Error()}})
		return
	}

	refID, _ := strconv.Atoi(r.FormValue("refId"))
	call := uploadCall{
		Ref:   r.FormValue("ref"),
		RefID: refID,
		Field: r.FormValue("field"),
	}
	if files := r.MultipartForm.File["files"]; len(files) > 0 {
		call.Filename = files[0].Filename
		call.Mime = files[0].Header.Get("Content-Type")
	}

	b.mu.Lock()
	b.uploads = append(b.uploads, call)
	fail := b.failFields[call.Field]
	b.mu.Unlock()

	if fail {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": map[string]string{"message": "storage down"}})
		return
	}
	writeJSON(w, http.StatusOK, []UploadedFile{{ID: 1, Name: call.Filename, Mime: call.Mime}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
