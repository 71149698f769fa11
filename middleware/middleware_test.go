package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
)

const testSecret = "super-secret-jwt-token"

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestAuthenticator_Subject(t *testing.T) {
	valid := jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	expired := jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}
	noSubject := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	testCases := []struct {
		name    string
		header  string
		secret  string
		want    string
		wantErr string
	}{
		{name: "valid", header: "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), valid), secret: testSecret, want: "user-1"},
		{name: "lowercase scheme", header: "bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), valid), secret: testSecret, want: "user-1"},
		{name: "missing header", secret: testSecret, wantErr: "Missing Authorization header"},
		{name: "not bearer", header: "Basic abc", secret: testSecret, wantErr: "Invalid Authorization header format"},
		{name: "expired", header: "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), expired), secret: testSecret, wantErr: "Invalid token"},
		{name: "wrong secret", header: "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("other"), valid), secret: testSecret, wantErr: "Invalid token"},
		{name: "no subject", header: "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), noSubject), secret: testSecret, wantErr: "Invalid token"},
		{name: "unsigned", header: "Bearer " + signed(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid), secret: testSecret, wantErr: "Invalid token"},
		{name: "secret unset", header: "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), valid), wantErr: "Invalid token"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodDelete, "/comments/c1", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			sub, err := NewAuthenticator(tc.secret).Subject(r)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, errs.KindAuth, errs.KindOf(err))
				assert.Equal(t, tc.wantErr, errs.Message(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, sub)
		})
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	testCases := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{name: "wildcard", allowed: []string{"*"}, method: http.MethodGet, origin: "https://app.example", wantStatus: http.StatusTeapot, wantOrigin: "https://app.example"},
		{name: "listed origin", allowed: []string{"https://app.example"}, method: http.MethodGet, origin: "https://app.example", wantStatus: http.StatusTeapot, wantOrigin: "https://app.example"},
		{name: "unlisted origin", allowed: []string{"https://app.example"}, method: http.MethodGet, origin: "https://evil.example", wantStatus: http.StatusTeapot},
		{name: "preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: "https://app.example", wantStatus: http.StatusNoContent, wantOrigin: "https://app.example"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(tc.method, "/feeds", nil)
			r.Header.Set("Origin", tc.origin)
			w := httptest.NewRecorder()

			NewCORS(tc.allowed).Handler(next).ServeHTTP(w, r)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestLogging_RequestID(t *testing.T) {
	var seen string
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/feeds", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	r := httptest.NewRequest(http.MethodGet, "/feeds", nil)
	r.Header.Set(RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestMetrics_LabelsByRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	router := mux.NewRouter()
	router.Use(m.Handler)
	router.HandleFunc("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, id := range []string{"a", "b"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/"+id, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("/users/{id}", "GET", "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
}
