package middleware

import (
	"bitwise74/task-api/internal/model"
	"bitwise74/task-api/internal/service"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(NewRequestIDMiddleware())
	r.Use(mw...)
	r.Any("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userID"))
	})

	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequestID(t *testing.T) {
	rec := do(newEngine(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get("X-Request-ID"), 10)
}

type fakeVerifier struct {
	token string
	err   error
}

func (f fakeVerifier) Verify(_ context.Context, token string) (*model.Account, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}

	if token != f.token {
		return nil, "", service.ErrUnauthorized
	}

	return &model.Account{ID: "acc-1"}, token, nil
}

func TestAuthMiddleware(t *testing.T) {
	r := newEngine(NewAuthMiddleware(fakeVerifier{token: "good"}))

	cases := map[string]struct {
		header string
		code   int
	}{
		"valid":        {"Bearer good", http.StatusOK},
		"no header":    {"", http.StatusUnauthorized},
		"wrong token":  {"Bearer bad", http.StatusUnauthorized},
		"wrong scheme": {"Basic good", http.StatusUnauthorized},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			rec := do(r, req)
			assert.Equal(t, tc.code, rec.Code)

			if tc.code == http.StatusOK {
				assert.Equal(t, "acc-1", rec.Body.String())
				return
			}

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Please authenticate.", body["error"])
			assert.NotEmpty(t, body["requestID"])
		})
	}
}

func TestAuthMiddlewareStoreFailure(t *testing.T) {
	r := newEngine(NewAuthMiddleware(fakeVerifier{err: errors.New("db down")}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")

	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)
}

func TestBodySizeLimiter(t *testing.T) {
	r := newEngine(BodySizeLimiter(8))

	rec := do(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this is far too large")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, Burst: 2})
	r := newEngine(rl.Handler())

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, do(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, TTL: time.Minute})
	rl.visitor("1.1.1.1")
	rl.visitor("2.2.2.2")
	rl.visitors["2.2.2.2"].lastSeen = time.Now().Add(-time.Hour)

	rl.cleanup(time.Now())

	assert.Contains(t, rl.visitors, "1.1.1.1")
	assert.NotContains(t, rl.visitors, "2.2.2.2")
}

func TestTurnstile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		ok := body["secret"] == "s3cret" && body["response"] == "human"
		_ = json.NewEncoder(w).Encode(response{Success: ok})
	}))
	defer srv.Close()

	r := newEngine(NewTurnstileMiddleware(TurnstileConfig{
		Enabled:   true,
		Secret:    "s3cret",
		VerifyURL: srv.URL,
		Client:    srv.Client(),
	}))

	cases := map[string]struct {
		token string
		code  int
	}{
		"passes":   {"human", http.StatusOK},
		"fails":    {"robot", http.StatusUnauthorized},
		"no token": {"", http.StatusBadRequest},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tc.token != "" {
				req.Header.Set("TurnstileToken", tc.token)
			}

			assert.Equal(t, tc.code, do(r, req).Code)
		})
	}
}

func TestTurnstileDisabled(t *testing.T) {
	r := newEngine(NewTurnstileMiddleware(TurnstileConfig{}))

	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodPost, "/", nil)).Code)
}
