package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/duccv/student-service/config"
	"github.com/duccv/student-service/internal/model"
	"github.com/duccv/student-service/internal/repository"
	"github.com/duccv/student-service/internal/service"
	"github.com/duccv/student-service/pkg/database"
	"github.com/duccv/student-service/pkg/password"
	"github.com/duccv/student-service/pkg/token"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const validNim = "12345678901234567890"

type testServer struct {
	engine *gin.Engine
	tokens *token.Manager
	now    time.Time
}

func newTestServer(t *testing.T, validationStatus int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := database.NewDatabaseFactory()
	db, err := f.CreateDatabase("test", &config.DatabaseConfig{
		Type:         "sqlite",
		SqliteConfig: config.SqliteConfig{Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("CreateDatabase: %v", err)
	}
	t.Cleanup(func() { f.CloseAll() })

	repos, err := repository.New(db)
	if err != nil {
		t.Fatalf("repository.New: %v", err)
	}

	ts := &testServer{now: time.Now()}
	ts.tokens, err = token.NewManager("handler-secret", token.WithClock(func() time.Time { return ts.now }))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	hasher := password.NewHasher()
	hasher.SetCost(bcrypt.MinCost)

	h := New(
		service.NewAuthService(repos.Teachers, ts.tokens, hasher),
		service.NewStudentService(repos.Students, false),
		ts.tokens,
		validationStatus,
	)
	ts.engine = gin.New()
	h.Register(ts.engine)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, bearer string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

type tokenBody struct {
	JWT     string `json:"jwt"`
	Teacher struct {
		Username string `json:"username"`
	} `json:"teacher"`
}

type messageBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func (ts *testServer) register(t *testing.T, username string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/teacher/register", "", map[string]string{"username": username, "password": "pw"})
	if w.Code != http.StatusOK {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	return decode[tokenBody](t, w).JWT
}

func validStudent() map[string]string {
	return map[string]string{
		"nim":     validNim,
		"nisn":    "1234567890",
		"name":    "A",
		"email":   "a@b.co",
		"address": "X",
		"phone":   "081234567890",
	}
}

func TestPing(t *testing.T) {
	ts := newTestServer(t, 0)
	w := ts.do(t, http.MethodGet, "/ping", "", nil)
	if w.Code != http.StatusOK || w.Body.String() != "pong\n" {
		t.Errorf("ping = %d %q", w.Code, w.Body.String())
	}
}

func TestTeacherFlow(t *testing.T) {
	ts := newTestServer(t, 0)

	w := ts.do(t, http.MethodPost, "/teacher/register", "", map[string]string{"username": "alice", "password": "pw"})
	if w.Code != http.StatusOK {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	reg := decode[tokenBody](t, w)
	if reg.JWT == "" || reg.Teacher.Username != "alice" {
		t.Errorf("register body = %s", w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Error("register response leaks the password hash")
	}

	w = ts.do(t, http.MethodPost, "/teacher/register", "", map[string]string{"username": "alice", "password": "x"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register = %d, want 409", w.Code)
	}

	w = ts.do(t, http.MethodPost, "/teacher/login", "", map[string]string{"username": "alice", "password": "pw"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	login := decode[tokenBody](t, w)

	w = ts.do(t, http.MethodGet, "/teacher/me", login.JWT, nil)
	if w.Code != http.StatusOK || w.Body.String() != `{"teacher":{"username":"alice"}}` {
		t.Errorf("me = %d %s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodPost, "/teacher/refresh", login.JWT, nil)
	if w.Code != http.StatusOK || decode[tokenBody](t, w).Teacher.Username != "alice" {
		t.Errorf("refresh = %d %s", w.Code, w.Body.String())
	}
}

func TestLoginFailures(t *testing.T) {
	ts := newTestServer(t, 0)
	ts.register(t, "alice")

	tests := []struct {
		name    string
		body    any
		status  int
		message string
	}{
		{"wrong password", map[string]string{"username": "alice", "password": "bad"}, http.StatusUnauthorized, "Wrong password"},
		{"unknown teacher", map[string]string{"username": "bob", "password": "pw"}, http.StatusUnauthorized, "Teacher not found"},
		{"missing password", map[string]string{"username": "alice"}, http.StatusBadRequest, "Invalid request payload"},
		{"malformed json", "{", http.StatusBadRequest, "Invalid request payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/teacher/login", "", tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if got := decode[messageBody](t, w).Message; got != tt.message {
				t.Errorf("message = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestTokenRejected(t *testing.T) {
	ts := newTestServer(t, 0)
	token := ts.register(t, "alice")

	ts.now = ts.now.Add(time.Hour + time.Second)
	for _, path := range []string{"/teacher/me", "/students"} {
		if w := ts.do(t, http.MethodGet, path, token, nil); w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s with expired token = %d, want 401", path, w.Code)
		}
	}
	if w := ts.do(t, http.MethodPost, "/teacher/refresh", token, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("refresh with expired token = %d, want 401", w.Code)
	}
	if w := ts.do(t, http.MethodGet, "/students", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("GET /students without token = %d, want 401", w.Code)
	}
}

func TestMe_TeacherVanished(t *testing.T) {
	ts := newTestServer(t, 0)
	ghost, err := ts.tokens.Issue("ghost")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if w := ts.do(t, http.MethodGet, "/teacher/me", ghost, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("me for missing teacher = %d, want 401", w.Code)
	}
	if w := ts.do(t, http.MethodPost, "/teacher/refresh", ghost, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("refresh for missing teacher = %d, want 401", w.Code)
	}
}

func TestCreateStudent(t *testing.T) {
	invalid := map[string]string{
		"nim": "123", "nisn": "1234567890", "name": "", "email": "bad", "address": "X", "phone": "1",
	}

	t.Run("valid then duplicate", func(t *testing.T) {
		ts := newTestServer(t, 0)
		token := ts.register(t, "alice")

		w := ts.do(t, http.MethodPost, "/student", token, validStudent())
		if w.Code != http.StatusOK {
			t.Fatalf("create: %d %s", w.Code, w.Body.String())
		}
		if got := decode[model.Student](t, w); got.Nim != validNim || got.Phone != "081234567890" {
			t.Errorf("created = %+v", got)
		}

		if w := ts.do(t, http.MethodPost, "/student", token, validStudent()); w.Code != http.StatusConflict {
			t.Errorf("duplicate create = %d, want 409", w.Code)
		}
	})

	t.Run("validation failure uses default 401", func(t *testing.T) {
		ts := newTestServer(t, 0)
		token := ts.register(t, "alice")

		w := ts.do(t, http.MethodPost, "/student", token, invalid)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		body := decode[messageBody](t, w)
		if body.Message != "Invalid input" {
			t.Errorf("message = %q", body.Message)
		}
		for _, f := range []string{"name", "email", "nim", "phone"} {
			if body.Errors[f] == "" {
				t.Errorf("missing error for %s in %v", f, body.Errors)
			}
		}
		for _, f := range []string{"nisn", "address"} {
			if _, ok := body.Errors[f]; ok {
				t.Errorf("unexpected error for %s", f)
			}
		}
	})

	t.Run("validation status is configurable", func(t *testing.T) {
		ts := newTestServer(t, http.StatusUnprocessableEntity)
		token := ts.register(t, "alice")
		if w := ts.do(t, http.MethodPost, "/student", token, invalid); w.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", w.Code)
		}
	})

	t.Run("missing field is a bad request", func(t *testing.T) {
		ts := newTestServer(t, 0)
		token := ts.register(t, "alice")
		body := validStudent()
		delete(body, "phone")
		if w := ts.do(t, http.MethodPost, "/student", token, body); w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("token checked before body", func(t *testing.T) {
		ts := newTestServer(t, 0)
		w := ts.do(t, http.MethodPost, "/student", "forged", invalid)
		if w.Code != http.StatusUnauthorized || decode[messageBody](t, w).Message != "Invalid token" {
			t.Errorf("forged token = %d %s", w.Code, w.Body.String())
		}
	})
}

func TestStudentCRUD(t *testing.T) {
	ts := newTestServer(t, 0)
	token := ts.register(t, "alice")

	w := ts.do(t, http.MethodGet, "/students", token, nil)
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("empty list = %d %s", w.Code, w.Body.String())
	}

	if w := ts.do(t, http.MethodPost, "/student", token, validStudent()); w.Code != http.StatusOK {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodGet, "/students", token, nil)
	etag := w.Header().Get("ETag")
	if w.Code != http.StatusOK || etag == "" {
		t.Fatalf("list = %d etag=%q", w.Code, etag)
	}
	if list := decode[[]model.Student](t, w); len(list) != 1 || list[0].Nim != validNim {
		t.Errorf("list = %+v", list)
	}

	w = ts.do(t, http.MethodGet, "/students", token, nil, "If-None-Match", etag)
	if w.Code != http.StatusNotModified || w.Body.Len() != 0 {
		t.Errorf("conditional list = %d %q, want 304", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodGet, "/student/"+validNim, token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("get = %d", w.Code)
	}

	update := validStudent()
	delete(update, "nim")
	update["name"] = "Renamed"
	w = ts.do(t, http.MethodPut, "/student/"+validNim, token, update)
	if w.Code != http.StatusOK || decode[model.Student](t, w).Name != "Renamed" {
		t.Errorf("update = %d %s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodGet, "/students", token, nil, "If-None-Match", etag)
	if w.Code != http.StatusOK {
		t.Errorf("list after update with stale etag = %d, want 200", w.Code)
	}

	w = ts.do(t, http.MethodDelete, "/student/"+validNim, token, nil)
	if w.Code != http.StatusOK || decode[model.Student](t, w).Name != "Renamed" {
		t.Errorf("delete = %d %s", w.Code, w.Body.String())
	}

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := ts.do(t, method, "/student/"+validNim, token, nil)
		if w.Code != http.StatusNotFound || decode[messageBody](t, w).Message != "Student not found" {
			t.Errorf("%s missing = %d %s", method, w.Code, w.Body.String())
		}
	}
	if w := ts.do(t, http.MethodPut, "/student/"+validNim, token, update); w.Code != http.StatusNotFound {
		t.Errorf("PUT missing = %d, want 404", w.Code)
	}
}
