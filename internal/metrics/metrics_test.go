package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	first := httpRequestsTotal
	Init()
	assert.Same(t, first, httpRequestsTotal)
}

func TestObserveHTTPRequest(t *testing.T) {
	Init()
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/{shortCode}", "302"))

	ObserveHTTPRequest("GET", "/{shortCode}", http.StatusFound, 5*time.Millisecond)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/{shortCode}", "302"))
	assert.Equal(t, before+1, after)
	assert.Positive(t, testutil.CollectAndCount(httpRequestDurationSeconds))
}

func TestObserveDomainCounters(t *testing.T) {
	Init()
	users := testutil.ToFloat64(shortURLsCreatedTotal.WithLabelValues("user"))
	anonymous := testutil.ToFloat64(shortURLsCreatedTotal.WithLabelValues("anonymous"))
	misses := testutil.ToFloat64(redirectsTotal.WithLabelValues("miss"))

	ObserveShortURLCreated(true)
	ObserveShortURLCreated(false)
	ObserveShortURLCreated(false)
	ObserveRedirect(false)

	assert.Equal(t, users+1, testutil.ToFloat64(shortURLsCreatedTotal.WithLabelValues("user")))
	assert.Equal(t, anonymous+2, testutil.ToFloat64(shortURLsCreatedTotal.WithLabelValues("anonymous")))
	assert.Equal(t, misses+1, testutil.ToFloat64(redirectsTotal.WithLabelValues("miss")))
}

func TestHandler(t *testing.T) {
	ObserveRedirect(true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	res := rec.Result()
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "shortener_redirects_total")
}
