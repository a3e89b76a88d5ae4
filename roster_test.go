package dogefolio

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestDecodeRoster(t *testing.T) {
	data := []byte(`[
		{"harhsi": "harshi", "quantity": 75000, "price": 0.0225},
		{"name": "arun", "quantity": 45000, "price": "0.0275"},
		{"name": "", "quantity": 10, "price": 0.1},
		{"name": "zero", "quantity": 10, "price": 0},
		{"name": "Arun", "quantity": 50000, "price": 0.03}
	]`)

	r, skipped, err := DecodeRoster(data, "DOGE")
	if err != nil {
		t.Fatalf("DecodeRoster() error = %v", err)
	}
	if len(skipped) != 2 {
		t.Errorf("len(skipped) = %d, want 2: %v", len(skipped), skipped)
	}
	for _, err := range skipped {
		if !IsSchema(err) {
			t.Errorf("skipped error %v is not a schema error", err)
		}
	}
	if got, want := r.Keys(), []string{"harshi", "arun"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}

	harshi := r.Get("harshi")
	if harshi.Name != "Harshi" {
		t.Errorf("Name = %q, want %q", harshi.Name, "Harshi")
	}
	if h := harshi.Holdings[0]; h.Symbol != "DOGE" || !h.InvestedAmount.Equal(USD(1687.5)) {
		t.Errorf("harshi holding = %+v", h)
	}
	// the later entry replaces the earlier one, in place.
	if h := r.Get("arun").Holdings[0]; !h.Quantity.Equal(Q(50000)) || !h.InvestedAmount.Equal(USD(1500)) {
		t.Errorf("arun holding = %+v, want the last entry", h)
	}
}

func TestDecodeRoster_Invalid(t *testing.T) {
	for _, data := range []string{`{"name":"x"}`, `not json`, `[{"name":"x","price":"abc"}]`} {
		if _, _, err := DecodeRoster([]byte(data), "DOGE"); !IsSchema(err) {
			t.Errorf("DecodeRoster(%s) error = %v, want a schema error", data, err)
		}
	}
}

func TestRoster_Navigation(t *testing.T) {
	r := DefaultRoster("DOGE")
	tests := []struct {
		name      string
		got, want string
	}{
		{"Next(harshi)", r.Next("harshi"), "arun"},
		{"Next(arun)", r.Next("arun"), "harshi"},
		{"Prev(harshi)", r.Prev("harshi"), "arun"},
		{"Next(unknown)", r.Next("unknown"), "harshi"},
		{"Prev(empty)", NewRoster().Prev("x"), ""},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestRosterFeed_FetchRoster(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/price.json":
			fmt.Fprint(w, `[{"name":"sam","quantity":1000,"price":0.02}]`)
		case "/empty.json":
			fmt.Fprint(w, `[{"name":"","quantity":1000,"price":0.02}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	feed := &RosterFeed{Client: srv.Client(), URL: srv.URL + "/price.json", Symbol: "DOGE"}
	r, err := feed.FetchRoster(context.Background())
	if err != nil {
		t.Fatalf("FetchRoster() error = %v", err)
	}
	if !r.Has("sam") || r.Len() != 1 {
		t.Errorf("FetchRoster() = %v, want [sam]", r.Keys())
	}

	feed.URL = srv.URL + "/empty.json"
	if _, err := feed.FetchRoster(context.Background()); !IsSchema(err) {
		t.Errorf("empty roster error = %v, want a schema error", err)
	}

	feed.URL = srv.URL + "/missing.json"
	if _, err := feed.FetchRoster(context.Background()); !IsNetwork(err) {
		t.Errorf("missing roster error = %v, want a network error", err)
	}
}
