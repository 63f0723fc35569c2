package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRescoreCountsOutcomes(t *testing.T) {
	before := testutil.ToFloat64(RescoresTotal.WithLabelValues("test", OutcomeError))
	ObserveRescore("test", time.Now(), errors.New("boom"))
	after := testutil.ToFloat64(RescoresTotal.WithLabelValues("test", OutcomeError))
	if after-before != 1 {
		t.Fatalf("expected error counter to increase by 1, got %v", after-before)
	}
}

func TestObserveMatchCountsInvalid(t *testing.T) {
	before := testutil.ToFloat64(MatchScoresTotal.WithLabelValues(OutcomeInvalid))
	ObserveMatch(errors.New("bad range"))
	if got := testutil.ToFloat64(MatchScoresTotal.WithLabelValues(OutcomeInvalid)) - before; got != 1 {
		t.Fatalf("expected invalid counter to increase by 1, got %v", got)
	}
}

func TestStatusClass(t *testing.T) {
	cases := map[int]string{200: "2xx", 201: "2xx", 304: "3xx", 404: "4xx", 503: "5xx"}
	for status, want := range cases {
		if got := statusClass(status); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/metrics", Handler())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "tradesmarket_http_request_duration_seconds") {
		t.Fatal("expected request histogram in exposition")
	}
}
