// Package dukas downloads and decodes Dukascopy hourly tick archives
// (.bi5) into OHLC candles.
//
// Each archive is an LZMA-compressed concatenation of fixed-width
// 20-byte records: five big-endian int32s holding millisecond offset
// within the hour, ask, bid, ask volume and bid volume. Prices are
// scaled integers; the instrument's price divisor converts them to
// quote currency.
package dukas

import (
	"bytes"
	"encoding/binary"
	"io"
	"time"

	"github.com/ulikunitz/xz/lzma"

	"github.com/rustyeddy/fxsignal/market"
)

// recordSize is the fixed width of one tick record in bytes.
const recordSize = 20

// TickReader iterates tick records over a decompressed buffer without
// materializing a slice. A trailing partial record is ignored.
type TickReader struct {
	buf []byte
	off int
}

// NewTickReader returns a reader positioned at the first record.
func NewTickReader(buf []byte) *TickReader {
	return &TickReader{buf: buf}
}

// Next advances to the next complete record. It returns false once
// fewer than recordSize bytes remain.
func (r *TickReader) Next() bool {
	if r.off+recordSize > len(r.buf) {
		return false
	}
	r.off += recordSize
	return true
}

// Tick returns the record at the current position. Valid only after a
// true Next.
func (r *TickReader) Tick() market.Tick {
	b := r.buf[r.off-recordSize : r.off]
	return market.Tick{
		Offset: int32(binary.BigEndian.Uint32(b[0:4])),
		Ask:    int32(binary.BigEndian.Uint32(b[4:8])),
		Bid:    int32(binary.BigEndian.Uint32(b[8:12])),
		AskVol: int32(binary.BigEndian.Uint32(b[12:16])),
		BidVol: int32(binary.BigEndian.Uint32(b[16:20])),
	}
}

// Reset rewinds the reader to the first record.
func (r *TickReader) Reset() {
	r.off = 0
}

// decompress expands an LZMA blob. A corrupt or truncated blob yields
// an error; the provider is known to occasionally serve malformed
// hourly files, so callers treat this as "no data", not a failure.
func decompress(raw []byte) ([]byte, error) {
	lr, err := lzma.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(lr)
}

// ParseHour decompresses one hourly blob and aggregates its ticks into
// a candle stamped at hourStart. It returns false when the blob is
// corrupt or contains no complete records.
func ParseHour(raw []byte, in market.Instrument, hourStart time.Time) (market.Candle, bool) {
	if len(raw) == 0 {
		return market.Candle{}, false
	}
	data, err := decompress(raw)
	if err != nil {
		return market.Candle{}, false
	}
	return aggregate(data, in, hourStart)
}

// aggregate folds decoded records into a single OHLC candle.
// Open/close come from the first/last record in time order, high/low
// bound all mid-prices, volume sums ask+bid volumes.
func aggregate(data []byte, in market.Instrument, hourStart time.Time) (market.Candle, bool) {
	r := NewTickReader(data)
	if !r.Next() {
		return market.Candle{}, false
	}

	first := r.Tick()
	mid := first.Mid(in.PriceDivisor)
	c := market.Candle{
		Symbol: in.Symbol,
		Time:   hourStart,
		Open:   mid,
		High:   mid,
		Low:    mid,
		Close:  mid,
		Volume: first.Volume(),
	}

	for r.Next() {
		t := r.Tick()
		mid = t.Mid(in.PriceDivisor)
		if mid > c.High {
			c.High = mid
		}
		if mid < c.Low {
			c.Low = mid
		}
		c.Close = mid
		c.Volume += t.Volume()
	}

	c.Open = market.Round5(c.Open)
	c.High = market.Round5(c.High)
	c.Low = market.Round5(c.Low)
	c.Close = market.Round5(c.Close)
	return c, true
}
