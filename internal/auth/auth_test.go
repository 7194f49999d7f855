package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	g := NewGate("admin123")

	assert.NoError(t, g.Check("admin123"))
	assert.ErrorIs(t, g.Check("x"), ErrUnauthorized)
	assert.ErrorIs(t, g.Check(""), ErrUnauthorized)
	assert.ErrorIs(t, g.Check("admin1234"), ErrUnauthorized)
	assert.ErrorIs(t, g.Check("ADMIN123"), ErrUnauthorized)
}

func TestCheck_EmptySecretRejectsAll(t *testing.T) {
	g := NewGate("")
	assert.ErrorIs(t, g.Check(""), ErrUnauthorized)
	assert.ErrorIs(t, g.Check("anything"), ErrUnauthorized)
}

func TestMiddleware(t *testing.T) {
	g := NewGate("s3cret")
	deny := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := g.Middleware(deny, next)

	for _, tc := range []struct {
		target string
		want   int
	}{
		{"/admin/confirmados?senha=s3cret", http.StatusNoContent},
		{"/admin/confirmados?senha=x", http.StatusUnauthorized},
		{"/admin/confirmados", http.StatusUnauthorized},
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))
		assert.Equal(t, tc.want, rec.Code, tc.target)
	}
}
