package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDrawAndWinners(t *testing.T) {
	before := testutil.ToFloat64(draws.WithLabelValues("raffle", "ok"))
	RecordDraw("raffle", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(draws.WithLabelValues("raffle", "ok")))

	beforeWinners := testutil.ToFloat64(winners.WithLabelValues("lotto"))
	RecordWinners("lotto", 3)
	RecordWinners("lotto", 0)
	assert.Equal(t, beforeWinners+3, testutil.ToFloat64(winners.WithLabelValues("lotto")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordPoolLoad("upload", 2)
	ObserveRequest(http.MethodGet, "", http.StatusNotFound, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "luckydraw_ingest_pool_loads_total")
	assert.Contains(t, body, `route="unmatched"`)
}
