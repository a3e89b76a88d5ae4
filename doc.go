// Package dogefolio values a handful of crypto holdings against a live market price and
// follows the news around the asset.
//
// The core functionalities include:
//   - Market data: an immutable PriceSnapshot combining the spot price and the 24h statistics
//     of a trading pair.
//   - Valuation: a stateless engine that combines static holdings with the latest price into
//     profit/loss per holding, per portfolio and across portfolios.
//   - Roster: the set of portfolios, loaded from a remote JSON feed with built-in defaults.
//   - News: a normalized NewsItem shape shared by every news source.
//   - Formatting: deterministic currency, percent, compact volume and relative time strings.
//
// This package serves as the foundational logic for the `dfo` command-line tool. Providers
// live in their own packages (binance, news) and the periodic refresh in schedule and dashboard.
package dogefolio
