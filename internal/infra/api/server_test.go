//go:build !integration

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"line-relay/internal/domain/model"
	"line-relay/internal/infra/adapters/line"
	"line-relay/internal/infra/api"
	"line-relay/internal/infra/i18n"
	"line-relay/internal/infra/memory"
	"line-relay/internal/infra/metrics"
	"line-relay/internal/usecase"
)

const testSecret = "channel-secret"

// stubMessenger records sends and fails them when err is set.
type stubMessenger struct {
	mu      sync.Mutex
	replies []string
	pushes  []model.UserID
	err     error
}

func (s *stubMessenger) Reply(ctx context.Context, token string, msgs ...model.OutboundMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, token)
	return s.err
}

func (s *stubMessenger) Push(ctx context.Context, to model.UserID, msgs ...model.OutboundMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushes = append(s.pushes, to)
	return s.err
}

type testEnv struct {
	srv       *httptest.Server
	registry  *memory.UserRegistry
	messenger *stubMessenger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	metrics.MustRegister()
	l := zerolog.Nop()
	logger := &l

	tr, err := i18n.NewTranslator(i18n.LocalesFS, "ja")
	if err != nil {
		t.Fatalf("translator: %v", err)
	}
	reg := memory.NewUserRegistry()
	m := &stubMessenger{}
	userUC := usecase.NewUserUseCase(reg, logger, false)
	webhookUC := usecase.NewWebhookUseCase(userUC, m, tr, logger)
	pushUC := usecase.NewPushUseCase(m, logger, false)

	srv := httptest.NewServer(api.NewServer(webhookUC, pushUC, userUC, testSecret, logger).Router())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, registry: reg, messenger: m}
}

func (e *testEnv) callback(t *testing.T, body []byte, signature string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, e.srv.URL+"/callback", bytes.NewReader(body))
	req.Header.Set(line.SignatureHeader, signature)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("callback request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) post(t *testing.T, path, body string) (*http.Response, map[string]string) {
	t.Helper()
	resp, err := http.Post(e.srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	var out map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func (e *testEnv) users(t *testing.T) []string {
	t.Helper()
	resp, err := http.Get(e.srv.URL + "/users")
	if err != nil {
		t.Fatalf("GET /users: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /users status %d", resp.StatusCode)
	}
	var ids []string
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		t.Fatalf("decode /users: %v", err)
	}
	return ids
}

func messageBody(users ...string) []byte {
	var events []string
	for i, u := range users {
		events = append(events, `{"type":"message","replyToken":"rt`+u+`","timestamp":1700000000000,`+
			`"source":{"type":"user","userId":"`+u+`"},`+
			`"message":{"id":"`+string(rune('0'+i))+`","type":"text","text":"hi"}}`)
	}
	return []byte(`{"destination":"Ubot","events":[` + strings.Join(events, ",") + `]}`)
}

func TestPush_Success(t *testing.T) {
	env := newTestEnv(t)
	resp, out := env.post(t, "/push", `{"to":"U1","message":"hello"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if out["status"] != "success" {
		t.Fatalf("unexpected body %v", out)
	}
	if len(env.messenger.pushes) != 1 || env.messenger.pushes[0] != "U1" {
		t.Fatalf("unexpected pushes %v", env.messenger.pushes)
	}
}

func TestPush_InvalidBody(t *testing.T) {
	cases := map[string]string{
		"missing to":       `{"message":"hello"}`,
		"missing message":  `{"to":"U1"}`,
		"not json":         `to=U1`,
		"trailing garbage": `{"to":"U1","message":"hi"}xyz`,
		"two objects":      `{"to":"U1","message":"hi"}{"to":"U2","message":"hi"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			resp, out := env.post(t, "/push", body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			if out["status"] != "error" || !strings.Contains(out["message"], "'to' and 'message' are required") {
				t.Fatalf("unexpected body %v", out)
			}
			if len(env.messenger.pushes) != 0 {
				t.Fatal("nothing should be pushed")
			}
		})
	}
}

func TestPush_TransportFailure(t *testing.T) {
	env := newTestEnv(t)
	env.messenger.err = errors.New("line push: The property, 'to', in the request body is invalid")

	resp, out := env.post(t, "/push", `{"to":"U1","message":"hello"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if out["status"] != "error" || !strings.Contains(out["message"], "is invalid") {
		t.Fatalf("error body should carry the failure, got %v", out)
	}
}

func TestCallback_RecordsUsersAndReplies(t *testing.T) {
	env := newTestEnv(t)
	body := messageBody("A", "B")

	resp := env.callback(t, body, line.ComputeSignature(testSecret, body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	ids := env.users(t)
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "A" || ids[1] != "B" {
		t.Fatalf("expected [A B], got %v", ids)
	}
	if len(env.messenger.replies) != 2 {
		t.Fatalf("expected 2 replies, got %v", env.messenger.replies)
	}
}

func TestCallback_InvalidSignature(t *testing.T) {
	env := newTestEnv(t)
	body := messageBody("A")

	for name, sig := range map[string]string{
		"empty":        "",
		"wrong secret": line.ComputeSignature("other-secret", body),
		"garbage":      "not base64!",
	} {
		t.Run(name, func(t *testing.T) {
			resp := env.callback(t, body, sig)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}

	if ids := env.users(t); len(ids) != 0 {
		t.Fatalf("registry must stay untouched, got %v", ids)
	}
	if len(env.messenger.replies) != 0 {
		t.Fatal("no handler may run on a bad signature")
	}
}

func TestCallback_MalformedPayload(t *testing.T) {
	env := newTestEnv(t)
	body := []byte(`{"events":[{"type":`)
	resp := env.callback(t, body, line.ComputeSignature(testSecret, body))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCallback_EmptyEvents(t *testing.T) {
	env := newTestEnv(t)
	body := []byte(`{"destination":"Ubot","events":[]}`)
	resp := env.callback(t, body, line.ComputeSignature(testSecret, body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestCallback_ReplyFailureIs500(t *testing.T) {
	env := newTestEnv(t)
	env.messenger.err = errors.New("invalid reply token")
	body := messageBody("A")

	resp := env.callback(t, body, line.ComputeSignature(testSecret, body))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if ids := env.users(t); len(ids) != 1 {
		t.Fatalf("the sender is recorded before the reply, got %v", ids)
	}
}

func TestCallback_BodyTooLarge(t *testing.T) {
	env := newTestEnv(t)
	body := bytes.Repeat([]byte("a"), api.MaxCallbackBody+1)
	resp := env.callback(t, body, line.ComputeSignature(testSecret, body))
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.StatusCode)
	}
}

func TestUsers_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	resp, err := http.Get(env.srv.URL + "/users")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var raw bytes.Buffer
	_, _ = raw.ReadFrom(resp.Body)
	if got := strings.TrimSpace(raw.String()); got != "[]" {
		t.Fatalf("expected [], got %q", got)
	}
}

func TestHealthMetricsAndTraceHeader(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(api.TraceHeader) == "" {
		t.Error("responses should carry a trace id")
	}

	resp, err = http.Get(env.srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var raw bytes.Buffer
	_, _ = raw.ReadFrom(resp.Body)
	if !strings.Contains(raw.String(), "users_registered_total") {
		t.Error("metrics output should include the registry counter")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)
	resp, err := http.Get(env.srv.URL + "/push")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
