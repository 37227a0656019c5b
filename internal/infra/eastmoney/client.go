// Package eastmoney implements the market data client against the public
// Eastmoney quote and datacenter endpoints.
package eastmoney

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/homeant/todify/internal/domain/market"
	"github.com/homeant/todify/internal/pkg/config"
	"github.com/homeant/todify/internal/pkg/dates"
)

const (
	retryAttempts   = 3
	retryBaseDelay  = 500 * time.Millisecond
	retryMaxBackoff = 5 * time.Second
)

// Client fetches bars, top-seat list rows and block trades.
type Client struct {
	quote      *resty.Client // push2his kline endpoints
	datacenter *resty.Client // datacenter-web report endpoints
	delay      time.Duration
}

var _ market.Client = (*Client)(nil)

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code == 408 || code == 429 || (code >= 500 && code <= 599)
}

// NewClient creates the client from config.
func NewClient(cfg config.EastmoneyConfig) *Client {
	newResty := func(baseURL string) *resty.Client {
		return resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15 * time.Second).
			SetRetryCount(retryAttempts - 1).
			SetRetryWaitTime(retryBaseDelay).
			SetRetryMaxWaitTime(retryMaxBackoff).
			AddRetryCondition(isRetryableResp)
	}

	return &Client{
		quote:      newResty(cfg.PushBaseURL),
		datacenter: newResty(cfg.BaseURL),
		delay:      cfg.RequestDelay,
	}
}

// secid maps a stock code to Eastmoney's exchange-prefixed id.
// 6xxxxx trades in Shanghai (prefix 1), everything else in Shenzhen (prefix 0).
func secid(code string) string {
	if strings.HasPrefix(code, "6") {
		return "1." + code
	}
	return "0." + code
}

type klineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Name   string   `json:"name"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// FetchDailyBars returns daily bars for one stock in [from, to].
func (c *Client) FetchDailyBars(ctx context.Context, code string, from, to time.Time) ([]*market.Bar, error) {
	var out klineResponse
	resp, err := c.quote.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"secid":   secid(code),
			"klt":     "101", // daily
			"fqt":     "1",   // forward adjusted
			"beg":     from.Format("20060102"),
			"end":     to.Format("20060102"),
			"fields1": "f1,f2,f3,f4,f5,f6",
			"fields2": "f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61",
		}).
		SetResult(&out).
		Get("/api/qt/stock/kline/get")
	if err != nil {
		return nil, fmt.Errorf("%w: fetch klines for %s: %v", market.ErrUpstreamFetch, code, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: fetch klines for %s: status %d", market.ErrUpstreamFetch, code, resp.StatusCode())
	}
	if out.Data == nil {
		return nil, nil
	}

	bars := make([]*market.Bar, 0, len(out.Data.Klines))
	for _, line := range out.Data.Klines {
		bar, err := parseKline(code, out.Data.Name, line)
		if err != nil {
			log.Warn().Str("code", code).Str("kline", line).Err(err).Msg("Skipping malformed kline")
			continue
		}
		bars = append(bars, bar)
	}

	c.throttle()
	return bars, nil
}

// parseKline parses one comma-joined kline row:
// date,open,close,high,low,volume,amount,amplitude,pct_chg,chg,turnover
func parseKline(code, name, line string) (*market.Bar, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 11 {
		return nil, fmt.Errorf("kline has %d fields, want 11", len(parts))
	}

	date, err := dates.Parse(parts[0])
	if err != nil {
		return nil, fmt.Errorf("parse kline date: %w", err)
	}

	dec := func(s string) (decimal.Decimal, error) {
		return decimal.NewFromString(s)
	}
	open, err := dec(parts[1])
	if err != nil {
		return nil, err
	}
	close, err := dec(parts[2])
	if err != nil {
		return nil, err
	}
	high, err := dec(parts[3])
	if err != nil {
		return nil, err
	}
	low, err := dec(parts[4])
	if err != nil {
		return nil, err
	}
	volume, err := dec(parts[5])
	if err != nil {
		return nil, err
	}
	amount, err := dec(parts[6])
	if err != nil {
		return nil, err
	}
	turnover, err := dec(parts[10])
	if err != nil {
		return nil, err
	}

	return &market.Bar{
		Code:      code,
		Name:      name,
		TradeDate: date,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume.IntPart(),
		Amount:    amount,
		Turnover:  turnover,
	}, nil
}

type stockListResponse struct {
	Data *struct {
		Diff []struct {
			Code string `json:"f12"`
			Name string `json:"f14"`
		} `json:"diff"`
	} `json:"data"`
}

// FetchStockList returns all listed A-share stocks.
func (c *Client) FetchStockList(ctx context.Context) ([]*market.StockInfo, error) {
	var stocks []*market.StockInfo

	for page := 1; ; page++ {
		var out stockListResponse
		resp, err := c.quote.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"pn":     fmt.Sprintf("%d", page),
				"pz":     "1000",
				"fs":     "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23", // A-share boards
				"fields": "f12,f14",
			}).
			SetResult(&out).
			Get("/api/qt/clist/get")
		if err != nil {
			return nil, fmt.Errorf("%w: fetch stock list: %v", market.ErrUpstreamFetch, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("%w: fetch stock list: status %d", market.ErrUpstreamFetch, resp.StatusCode())
		}
		if out.Data == nil || len(out.Data.Diff) == 0 {
			break
		}

		for _, d := range out.Data.Diff {
			stocks = append(stocks, &market.StockInfo{Code: d.Code, Name: d.Name})
		}
		c.throttle()
	}

	return stocks, nil
}

type reportResponse[T any] struct {
	Result *struct {
		Data []T `json:"data"`
	} `json:"result"`
}

type lhbRow struct {
	Code        string  `json:"SECURITY_CODE"`
	Name        string  `json:"SECURITY_NAME_ABBR"`
	TradeDate   string  `json:"TRADE_DATE"`
	Reason      string  `json:"EXPLANATION"`
	NetBuy      float64 `json:"BILLBOARD_NET_AMT"`
	BuyAmount   float64 `json:"BILLBOARD_BUY_AMT"`
	SellAmount  float64 `json:"BILLBOARD_SELL_AMT"`
	TotalAmount float64 `json:"BILLBOARD_DEAL_AMT"`
}

// FetchTopList returns the dragon-tiger ranking for one day.
func (c *Client) FetchTopList(ctx context.Context, date time.Time) ([]*market.LhbEntry, error) {
	day := dates.Format(date)

	var out reportResponse[lhbRow]
	resp, err := c.datacenter.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"reportName": "RPT_DAILYBILLBOARD_DETAILS",
			"columns":    "ALL",
			"filter":     fmt.Sprintf("(TRADE_DATE='%s')", day),
			"pageSize":   "500",
		}).
		SetResult(&out).
		Get("/api/data/v1/get")
	if err != nil {
		return nil, fmt.Errorf("%w: fetch top list for %s: %v", market.ErrUpstreamFetch, day, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: fetch top list for %s: status %d", market.ErrUpstreamFetch, day, resp.StatusCode())
	}
	if out.Result == nil {
		return nil, nil
	}

	entries := make([]*market.LhbEntry, 0, len(out.Result.Data))
	for _, row := range out.Result.Data {
		entries = append(entries, &market.LhbEntry{
			Code:        row.Code,
			Name:        row.Name,
			TradeDate:   dates.Day(date),
			Reason:      row.Reason,
			NetBuy:      decimal.NewFromFloat(row.NetBuy),
			BuyAmount:   decimal.NewFromFloat(row.BuyAmount),
			SellAmount:  decimal.NewFromFloat(row.SellAmount),
			TotalAmount: decimal.NewFromFloat(row.TotalAmount),
		})
	}

	c.throttle()
	return entries, nil
}

type blockTradeRow struct {
	Code    string  `json:"SECURITY_CODE"`
	Name    string  `json:"SECURITY_NAME_ABBR"`
	Price   float64 `json:"DEAL_PRICE"`
	Volume  float64 `json:"DEAL_VOLUME"`
	Amount  float64 `json:"DEAL_AMT"`
	Buyer   string  `json:"BUYER_NAME"`
	Seller  string  `json:"SELLER_NAME"`
	Premium float64 `json:"PREMIUM_RATIO"`
}

// FetchBlockTrades returns negotiated block trades for one day.
func (c *Client) FetchBlockTrades(ctx context.Context, date time.Time) ([]*market.BlockTrade, error) {
	day := dates.Format(date)

	var out reportResponse[blockTradeRow]
	resp, err := c.datacenter.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"reportName": "RPT_BLOCKTRADE_DETAILS",
			"columns":    "ALL",
			"filter":     fmt.Sprintf("(TRADE_DATE='%s')", day),
			"pageSize":   "500",
		}).
		SetResult(&out).
		Get("/api/data/v1/get")
	if err != nil {
		return nil, fmt.Errorf("%w: fetch block trades for %s: %v", market.ErrUpstreamFetch, day, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: fetch block trades for %s: status %d", market.ErrUpstreamFetch, day, resp.StatusCode())
	}
	if out.Result == nil {
		return nil, nil
	}

	trades := make([]*market.BlockTrade, 0, len(out.Result.Data))
	for _, row := range out.Result.Data {
		trades = append(trades, &market.BlockTrade{
			Code:      row.Code,
			Name:      row.Name,
			TradeDate: dates.Day(date),
			Price:     decimal.NewFromFloat(row.Price),
			Volume:    int64(row.Volume),
			Amount:    decimal.NewFromFloat(row.Amount),
			Buyer:     row.Buyer,
			Seller:    row.Seller,
			Premium:   decimal.NewFromFloat(row.Premium),
		})
	}

	c.throttle()
	return trades, nil
}

// throttle spaces requests out so the public endpoints do not rate-limit us.
func (c *Client) throttle() {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
}
