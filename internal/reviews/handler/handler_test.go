package handler

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"tradesmarket/internal/reviews/service"
	"tradesmarket/platform/httpkit"
	"tradesmarket/platform/logger"
	"tradesmarket/platform/validator"
)

// newTestRouter wires handlers without storage; every case here must be
// rejected before the service is reached.
func newTestRouter(authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(service.New(nil, nil, nil, nil, logger.NewNop()), validator.New())

	r := gin.New()
	if authenticated {
		r.Use(func(c *gin.Context) {
			c.Set(httpkit.ContextUserIDKey, uuid.New())
			c.Set(httpkit.ContextRolesKey, []string{})
			c.Next()
		})
	}
	r.GET("/reviews", h.List)
	r.GET("/reviews/:id", h.GetByID)
	r.POST("/reviews", h.Create)
	r.PUT("/reviews/:id/response", h.Respond)
	r.PUT("/reviews/:id/helpful", h.MarkHelpful)
	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func reviewBody(rating int, comment, extra string) string {
	return `{"projectId":"` + uuid.New().String() + `","professionalId":"` + uuid.New().String() +
		`","rating":` + strconv.Itoa(rating) + `,"comment":` + comment + extra + `}`
}

func TestHandlerRejectsMalformedInput(t *testing.T) {
	r := newTestRouter(true)

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		message string
	}{
		{"bad id", http.MethodGet, "/reviews/abc", "", msgInvalidReviewID},
		{"bad helpful id", http.MethodPut, "/reviews/abc/helpful", "", msgInvalidReviewID},
		{"bad response id", http.MethodPut, "/reviews/abc/response", `{"text":"thanks"}`, msgInvalidReviewID},
		{"broken json", http.MethodPost, "/reviews", "{", msgInvalidRequest},
		{"bad project id", http.MethodPost, "/reviews", `{"projectId":"x","rating":5,"comment":"ok"}`, msgInvalidRequest},
		{"rating too high", http.MethodPost, "/reviews", reviewBody(6, `"Solid work"`, ""), msgValidationFailed},
		{"rating zero", http.MethodPost, "/reviews", reviewBody(0, `"Solid work"`, ""), msgValidationFailed},
		{"detailed rating out of range", http.MethodPost, "/reviews", reviewBody(4, `"Solid work"`, `,"detailedRatings":{"timeliness":9}`), msgValidationFailed},
		{"comment too long", http.MethodPost, "/reviews", reviewBody(4, `"`+strings.Repeat("a", 1001)+`"`, ""), msgValidationFailed},
		{"empty response", http.MethodPut, "/reviews/" + uuid.New().String() + "/response", `{"text":""}`, msgValidationFailed},
		{"bad list filter", http.MethodGet, "/reviews?professionalId=zzz", "", msgValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}
}

func TestHandlerRequiresIdentityForWrites(t *testing.T) {
	r := newTestRouter(false)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodPost, "/reviews", reviewBody(5, `"Solid work"`, "")).Code)
	assert.Equal(t, http.StatusUnauthorized,
		serve(r, http.MethodPut, "/reviews/"+uuid.New().String()+"/response", `{"text":"Thank you"}`).Code)
}
