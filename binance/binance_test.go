package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/dogefolio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newServer serves the two ticker endpoints with the given bodies.
func newServer(t *testing.T, price, stats string, statsStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/ticker/price", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DOGEUSDT", r.URL.Query().Get("symbol"))
		fmt.Fprint(w, price)
	})
	mux.HandleFunc("/api/v3/ticker/24hr", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statsStatus)
		fmt.Fprint(w, stats)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server) *Client {
	c := New(srv.Client(), srv.URL)
	c.Now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestFetchSnapshot(t *testing.T) {
	srv := newServer(t,
		`{"symbol":"DOGEUSDT","price":"0.02500000"}`,
		`{"symbol":"DOGEUSDT","priceChangePercent":"3.760","volume":"1000000.0","highPrice":"0.03000000","lowPrice":"0.02000000"}`,
		http.StatusOK)

	s, err := newClient(srv).FetchSnapshot(context.Background(), "DOGEUSDT")
	require.NoError(t, err)

	require.Equal(t, "DOGEUSDT", s.Symbol)
	require.True(t, s.Price.Equal(dogefolio.USD(0.025)), "price = %v", s.Price)
	require.True(t, s.HighPrice.Equal(dogefolio.USD(0.03)))
	require.True(t, s.LowPrice.Equal(dogefolio.USD(0.02)))
	require.True(t, s.Volume.Equal(dogefolio.Q(1000000)))
	require.True(t, s.PriceChangePercent.Equal(3.76))
	require.Equal(t, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), s.ObservedAt)
}

func TestFetchSnapshot_AcceptsJSONNumbers(t *testing.T) {
	srv := newServer(t,
		`{"symbol":"DOGEUSDT","price":0.025}`,
		`{"priceChangePercent":-9.09,"volume":12,"highPrice":0.03,"lowPrice":0.02}`,
		http.StatusOK)

	s, err := newClient(srv).FetchSnapshot(context.Background(), "DOGEUSDT")
	require.NoError(t, err)
	require.True(t, s.PriceChangePercent.Equal(-9.09))
}

func TestFetchSnapshot_Errors(t *testing.T) {
	const okPrice = `{"symbol":"DOGEUSDT","price":"0.025"}`
	const okStats = `{"priceChangePercent":"3.76","volume":"1","highPrice":"0.03","lowPrice":"0.02"}`

	testCases := []struct {
		name        string
		price       string
		stats       string
		statsStatus int
		wantNetwork bool
		wantSchema  bool
	}{
		{
			name:        "stats endpoint fails",
			price:       okPrice,
			stats:       `{"code":-1121,"msg":"Invalid symbol."}`,
			statsStatus: http.StatusBadRequest,
			wantNetwork: true,
		},
		{
			name:        "price is not numeric",
			price:       `{"symbol":"DOGEUSDT","price":"abc"}`,
			stats:       okStats,
			statsStatus: http.StatusOK,
			wantSchema:  true,
		},
		{
			name:        "missing volume",
			price:       okPrice,
			stats:       `{"priceChangePercent":"3.76","highPrice":"0.03","lowPrice":"0.02"}`,
			statsStatus: http.StatusOK,
			wantSchema:  true,
		},
		{
			name:        "null high price",
			price:       okPrice,
			stats:       `{"priceChangePercent":"3.76","volume":"1","highPrice":null,"lowPrice":"0.02"}`,
			statsStatus: http.StatusOK,
			wantSchema:  true,
		},
		{
			name:        "body is not json",
			price:       `<html>`,
			stats:       okStats,
			statsStatus: http.StatusOK,
			wantSchema:  true,
		},
		{
			name:        "zero price",
			price:       `{"symbol":"DOGEUSDT","price":"0"}`,
			stats:       okStats,
			statsStatus: http.StatusOK,
			wantSchema:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newServer(t, tc.price, tc.stats, tc.statsStatus)
			_, err := newClient(srv).FetchSnapshot(context.Background(), "DOGEUSDT")
			require.Error(t, err)
			require.Equal(t, tc.wantNetwork, dogefolio.IsNetwork(err), "network error: %v", err)
			require.Equal(t, tc.wantSchema, dogefolio.IsSchema(err), "schema error: %v", err)
		})
	}
}

func TestFetchSnapshot_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := New(http.DefaultClient, srv.URL).FetchSnapshot(context.Background(), "DOGEUSDT")
	require.True(t, dogefolio.IsNetwork(err), "got %v", err)
}
