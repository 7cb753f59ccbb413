package marketdatav1

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Candle is the open-high-low-close of the mid price over one bucket.
type Candle struct {
	Time  time.Time
	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal
}

// NewCandle opens a candle at bucket with a first sample.
func NewCandle(bucket time.Time, price decimal.Decimal) Candle {
	return Candle{
		Time:  bucket,
		Open:  price,
		High:  price,
		Low:   price,
		Close: price,
	}
}

// Sample folds price into the candle.
func (c *Candle) Sample(price decimal.Decimal) {
	if price.GreaterThan(c.High) {
		c.High = price
	}
	if price.LessThan(c.Low) {
		c.Low = price
	}
	c.Close = price
}

type candleJSON struct {
	Time  int64       `json:"time"`
	Open  json.Number `json:"open"`
	High  json.Number `json:"high"`
	Low   json.Number `json:"low"`
	Close json.Number `json:"close"`
}

// MarshalJSON encodes the candle as {time(unix seconds), open, high, low, close}.
func (c Candle) MarshalJSON() ([]byte, error) {
	return json.Marshal(candleJSON{
		Time:  c.Time.Unix(),
		Open:  json.Number(c.Open.String()),
		High:  json.Number(c.High.String()),
		Low:   json.Number(c.Low.String()),
		Close: json.Number(c.Close.String()),
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *Candle) UnmarshalJSON(data []byte) error {
	var raw candleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	values := make([]decimal.Decimal, 0, 4)
	for _, n := range []json.Number{raw.Open, raw.High, raw.Low, raw.Close} {
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return err
		}
		values = append(values, d)
	}

	*c = Candle{
		Time:  time.Unix(raw.Time, 0).UTC(),
		Open:  values[0],
		High:  values[1],
		Low:   values[2],
		Close: values[3],
	}
	return nil
}
