package dogefolio

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Roster is the ordered set of portfolios the dashboard can display.
type Roster struct {
	portfolios []Portfolio
	index      map[string]int
}

// NewRoster returns a roster of the given portfolios. A later portfolio with the same key
// replaces the earlier one, keeping the earlier position.
func NewRoster(ps ...Portfolio) Roster {
	r := Roster{index: make(map[string]int)}
	for _, p := range ps {
		if i, ok := r.index[p.Key]; ok {
			r.portfolios[i] = p
			continue
		}
		r.index[p.Key] = len(r.portfolios)
		r.portfolios = append(r.portfolios, p)
	}
	return r
}

// DefaultRoster returns the built-in portfolios used until the roster feed has loaded.
func DefaultRoster(symbol string) Roster {
	return NewRoster(
		Portfolio{Key: "harshi", Name: "Harshi", Holdings: []Holding{
			{Symbol: symbol, Quantity: Q(75000), BuyPrice: USD(0.0225), InvestedAmount: USD(1687.50)},
		}},
		Portfolio{Key: "arun", Name: "Arun", Holdings: []Holding{
			{Symbol: symbol, Quantity: Q(45000), BuyPrice: USD(0.0275), InvestedAmount: USD(1237.50)},
		}},
	)
}

func (r Roster) Len() int                 { return len(r.portfolios) }
func (r Roster) Portfolios() []Portfolio  { return append([]Portfolio(nil), r.portfolios...) }
func (r Roster) Get(key string) Portfolio { return r.portfolios[r.index[key]] }

func (r Roster) Has(key string) bool {
	_, ok := r.index[key]
	return ok
}

// Keys returns the portfolio keys in roster order.
func (r Roster) Keys() []string {
	keys := make([]string, len(r.portfolios))
	for i, p := range r.portfolios {
		keys[i] = p.Key
	}
	return keys
}

// Next returns the key after key, wrapping around. An unknown key yields the first one.
func (r Roster) Next(key string) string { return r.step(key, 1) }

// Prev returns the key before key, wrapping around. An unknown key yields the first one.
func (r Roster) Prev(key string) string { return r.step(key, -1) }

func (r Roster) step(key string, delta int) string {
	n := len(r.portfolios)
	if n == 0 {
		return ""
	}
	i, ok := r.index[key]
	if !ok {
		return r.portfolios[0].Key
	}
	return r.portfolios[((i+delta)%n+n)%n].Key
}

// rosterEntry is one element of the roster feed.
type rosterEntry struct {
	Name     string          `json:"name"`
	Harhsi   string          `json:"harhsi"` // the feed misspells the name key for one entry
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// DecodeRoster decodes a roster feed: a JSON array of {name, quantity, price}.
//
// Entries without a name or with a non positive price are skipped and reported in the
// returned list of per entry errors; only a document that is not such an array fails.
func DecodeRoster(data []byte, symbol string) (Roster, []error, error) {
	var entries []rosterEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return Roster{}, nil, &SchemaError{Source: "roster", Err: err}
	}
	var skipped []error
	ps := make([]Portfolio, 0, len(entries))
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = e.Harhsi
		}
		name = strings.TrimSpace(name)
		if name == "" {
			skipped = append(skipped, &SchemaError{Source: "roster", Field: "name", Err: errors.New("missing name")})
			continue
		}
		if !e.Price.IsPositive() || e.Quantity.IsNegative() {
			skipped = append(skipped, &SchemaError{Source: "roster", Field: "price", Err: errors.New("invalid holding for " + name)})
			continue
		}
		ps = append(ps, Portfolio{
			Key:      strings.ToLower(name),
			Name:     capitalize(name),
			Holdings: []Holding{NewHolding(symbol, Q(e.Quantity), USD(e.Price))},
		})
	}
	return NewRoster(ps...), skipped, nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// RosterFeed fetches the roster from a remote JSON document.
type RosterFeed struct {
	Client *http.Client
	URL    string
	Symbol string // asset symbol of every holding, e.g. "DOGE"
	Log    *zap.SugaredLogger
}

// FetchRoster downloads and decodes the roster. An empty roster is a *SchemaError so that
// callers keep the one they have.
func (f *RosterFeed) FetchRoster(ctx context.Context) (Roster, error) {
	body, err := Fetch(ctx, f.Client, f.URL)
	if err != nil {
		return Roster{}, err
	}
	r, skipped, err := DecodeRoster(body, f.Symbol)
	if err != nil {
		return Roster{}, err
	}
	if f.Log != nil {
		for _, s := range skipped {
			f.Log.Warnw("roster entry skipped", "error", s)
		}
	}
	if r.Len() == 0 {
		return Roster{}, &SchemaError{Source: "roster", Err: errors.New("no usable portfolio")}
	}
	return r, nil
}
