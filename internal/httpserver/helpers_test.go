package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"turtlemint-b2b/internal/chatbot"
	"turtlemint-b2b/internal/document"
	"turtlemint-b2b/internal/llm"
	"turtlemint-b2b/internal/messaging"
	custrepo "turtlemint-b2b/internal/repository/customer"
	policyrepo "turtlemint-b2b/internal/repository/policy"
	"turtlemint-b2b/internal/seed"
	customersvc "turtlemint-b2b/internal/service/customer"
	"turtlemint-b2b/internal/service/engagement"
	"turtlemint-b2b/internal/service/notification"
	"turtlemint-b2b/internal/service/onboarding"
	"turtlemint-b2b/internal/service/payment"
	policysvc "turtlemint-b2b/internal/service/policy"

	"github.com/gin-gonic/gin"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// markerCompleter answers by prompt marker, like the simulated backend but
// with replies the test controls.
type markerCompleter struct {
	analysis   string
	extraction string
	rewrite    string
	err        error
}

func (m *markerCompleter) Complete(_ context.Context, prompt string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	switch {
	case strings.Contains(prompt, llm.MarkerAnalysis):
		return m.analysis, nil
	case strings.Contains(prompt, llm.MarkerExtraction):
		return m.extraction, nil
	case strings.Contains(prompt, llm.MarkerRewrite):
		return m.rewrite, nil
	}
	return "", nil
}

type testEnv struct {
	router *gin.Engine
	sender *messaging.Simulated
}

// newTestDeps wires every service over seeded in-memory stores.
func newTestDeps(t *testing.T, completer llm.Completer) (Deps, *messaging.Simulated) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	logger := logDiscard()

	customers := custrepo.NewMemory()
	policies := policyrepo.NewMemory(customers)
	if err := seed.Apply(ctx, customers, policies, time.Now()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	sender := messaging.NewSimulated(logger)

	return Deps{
		Policies:      policysvc.New(policies, completer, logger),
		Customers:     customersvc.New(customers),
		Onboarding:    onboarding.New(policies, customers, completer, document.Discard{}, logger),
		Engagement:    engagement.New(policies, sender, completer, engagement.Options{HighValuePremium: 20000, SendTimeout: time.Second}, logger),
		Notifications: notification.New(policies, customers, sender, logger),
		Payments:      payment.New(policies, logger),
		Chatbot:       chatbot.New(chatbot.ModeRules, completer),
	}, sender
}

func newTestEnv(t *testing.T, completer llm.Completer) *testEnv {
	t.Helper()
	deps, sender := newTestDeps(t, completer)
	router, err := buildRouter(logDiscard(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return &testEnv{router: router, sender: sender}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) upload(t *testing.T, path, field string, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	return e.serve(multipartRequest(t, path, field, files))
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func multipartRequest(t *testing.T, path, field string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}
