package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one stock's daily OHLCV record.
// Maps to cn_stock_daily; rows are immutable once fetched.
type Bar struct {
	ID        int64           `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	TradeDate time.Time       `json:"trade_date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
	Amount    decimal.Decimal `json:"amount"`
	Turnover  decimal.Decimal `json:"turnover"`
	CreatedAt time.Time       `json:"created_at"`
}

// StockInfo is a listed stock's code and display name.
type StockInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// LhbEntry is one dragon-tiger ranking row (top-seat list).
// Maps to cn_stock_lhb.
type LhbEntry struct {
	ID          int64           `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	TradeDate   time.Time       `json:"trade_date"`
	Reason      string          `json:"reason"`
	NetBuy      decimal.Decimal `json:"net_buy"`
	BuyAmount   decimal.Decimal `json:"buy_amount"`
	SellAmount  decimal.Decimal `json:"sell_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BlockTrade is one negotiated block trade row.
// Maps to cn_stock_block_trade.
type BlockTrade struct {
	ID        int64           `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	TradeDate time.Time       `json:"trade_date"`
	Price     decimal.Decimal `json:"price"`
	Volume    int64           `json:"volume"`
	Amount    decimal.Decimal `json:"amount"`
	Buyer     string          `json:"buyer"`
	Seller    string          `json:"seller"`
	Premium   decimal.Decimal `json:"premium"`
	CreatedAt time.Time       `json:"created_at"`
}
