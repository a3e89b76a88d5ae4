// Package binance reads spot prices and 24h statistics from a Binance compatible REST API.
package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/dogefolio"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the public Binance.US API.
const DefaultBaseURL = "https://api.binance.us"

// Client fetches market data for trading pairs.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Now     func() time.Time // defaults to time.Now
}

// New returns a client for the API at baseURL.
func New(client *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{HTTP: client, BaseURL: baseURL, Now: time.Now}
}

// FetchSnapshot fetches the spot price and the 24h statistics of pair (e.g. "DOGEUSDT") and
// combines them into one snapshot.
//
// Both calls must succeed: if either fails, or any field is missing or not numeric, no
// snapshot is returned. Errors are *dogefolio.NetworkError or *dogefolio.SchemaError.
func (c *Client) FetchSnapshot(ctx context.Context, pair string) (dogefolio.PriceSnapshot, error) {
	q := url.Values{"symbol": {pair}}.Encode()

	// https://api.binance.us/api/v3/ticker/price?symbol=DOGEUSDT
	// {"symbol":"DOGEUSDT","price":"0.02500000"}
	var spot any
	if err := dogefolio.FetchJSON(ctx, c.HTTP, c.BaseURL+"/api/v3/ticker/price?"+q, "ticker/price", &spot); err != nil {
		return dogefolio.PriceSnapshot{}, err
	}

	// https://api.binance.us/api/v3/ticker/24hr?symbol=DOGEUSDT
	// {"symbol":"DOGEUSDT","priceChangePercent":"3.760","highPrice":"0.03","lowPrice":"0.02","volume":"1000000.0", ...}
	var stats any
	if err := dogefolio.FetchJSON(ctx, c.HTTP, c.BaseURL+"/api/v3/ticker/24hr?"+q, "ticker/24hr", &stats); err != nil {
		return dogefolio.PriceSnapshot{}, err
	}

	p := parser{source: "ticker/price", doc: spot}
	symbol := p.text("$.symbol")
	price := p.number("$.price")
	if p.err != nil {
		return dogefolio.PriceSnapshot{}, p.err
	}

	p = parser{source: "ticker/24hr", doc: stats}
	change := p.number("$.priceChangePercent")
	volume := p.number("$.volume")
	high := p.number("$.highPrice")
	low := p.number("$.lowPrice")
	if p.err != nil {
		return dogefolio.PriceSnapshot{}, p.err
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return dogefolio.NewPriceSnapshot(
		symbol,
		dogefolio.USD(price),
		dogefolio.Percent(change.InexactFloat64()),
		dogefolio.Q(volume),
		dogefolio.USD(high),
		dogefolio.USD(low),
		now(),
	)
}

// parser extracts fields from a decoded JSON document and keeps the first error.
type parser struct {
	source string
	doc    any
	err    error
}

func (p *parser) get(path string) any {
	if p.err != nil {
		return nil
	}
	jval, err := jsonpath.Get(path, p.doc)
	if err != nil {
		p.err = &dogefolio.SchemaError{Source: p.source, Field: path, Err: err}
		return nil
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return jval
}

func (p *parser) text(path string) string {
	jval := p.get(path)
	if p.err != nil {
		return ""
	}
	s, ok := jval.(string)
	if !ok {
		p.err = &dogefolio.SchemaError{Source: p.source, Field: path, Err: fmt.Errorf("not a string: %v", jval)}
	}
	return s
}

// number accepts a JSON number or a numeric string, the API quotes all its decimals.
func (p *parser) number(path string) decimal.Decimal {
	jval := p.get(path)
	if p.err != nil {
		return decimal.Zero
	}
	var (
		d   decimal.Decimal
		err error
	)
	switch v := jval.(type) {
	case string:
		d, err = decimal.NewFromString(v)
	case float64:
		d = decimal.NewFromFloat(v)
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	default:
		err = errors.New("not a number")
	}
	if err != nil {
		p.err = &dogefolio.SchemaError{Source: p.source, Field: path, Err: fmt.Errorf("%w: %v", err, jval)}
		return decimal.Zero
	}
	return d
}
