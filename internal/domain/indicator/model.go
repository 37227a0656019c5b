package indicator

import (
	"math"
	"time"
)

// Snapshot holds one stock's technical indicators for one trading day.
// Maps to cn_stock_indicator. A row exists only when the lookback window
// ending at TradeDate warmed up the slowest indicator (MA60); fields that a
// formula could not produce (flat KDJ range, zero RSI denominator) carry NaN
// and are stored as SQL NULL. Rows are written once and never updated;
// presence of (code, trade_date) marks the computation complete.
type Snapshot struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	TradeDate time.Time `json:"trade_date"`

	// Moving averages
	MA5  float64 `json:"ma5"`
	MA10 float64 `json:"ma10"`
	MA20 float64 `json:"ma20"`
	MA30 float64 `json:"ma30"`
	MA60 float64 `json:"ma60"`

	// MACD
	Diff float64 `json:"diff"`
	Dea  float64 `json:"dea"`
	Macd float64 `json:"macd"`

	// KDJ
	K float64 `json:"k"`
	D float64 `json:"d"`
	J float64 `json:"j"`

	// RSI
	RSI6  float64 `json:"rsi6"`
	RSI12 float64 `json:"rsi12"`
	RSI24 float64 `json:"rsi24"`

	// Bollinger bands
	BollUp   float64 `json:"boll_up"`
	BollMid  float64 `json:"boll_mid"`
	BollDown float64 `json:"boll_down"`

	// Volume moving averages
	VMA5  float64 `json:"vma5"`
	VMA10 float64 `json:"vma10"`
	VMA20 float64 `json:"vma20"`

	// DMI
	PDI  float64 `json:"pdi"`
	MDI  float64 `json:"mdi"`
	ADX  float64 `json:"adx"`
	ADXR float64 `json:"adxr"`

	// TRIX
	Trix   float64 `json:"trix"`
	Matrix float64 `json:"matrix"`

	// CCI / ATR
	CCI float64 `json:"cci"`
	ATR float64 `json:"atr"`

	// CR
	CR    float64 `json:"cr"`
	CRMA1 float64 `json:"cr_ma1"`
	CRMA2 float64 `json:"cr_ma2"`
	CRMA3 float64 `json:"cr_ma3"`

	// ROC
	ROC   float64 `json:"roc"`
	ROCMA float64 `json:"rocma"`

	// PSY
	PSY   float64 `json:"psy"`
	PSYMA float64 `json:"psyma"`

	// DMA
	DMA float64 `json:"dma"`
	AMA float64 `json:"ama"`

	CreatedAt time.Time `json:"created_at"`
}

// Warmed reports whether the slowest indicator is defined at this snapshot.
func (s *Snapshot) Warmed() bool {
	return !math.IsNaN(s.MA60)
}
