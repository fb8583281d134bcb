package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

// Amount is a signed quantity of satoshis.
//
// Values coming from the node are decimal BTC literals; they are parsed as
// decimals and never pass through float64.
type Amount btcutil.Amount

const fractionDigits = 8

var maxSatoshi = decimal.NewFromInt(btcutil.MaxSatoshi)

// ParseAmount converts a decimal BTC string such as "20.00000000" to an Amount.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	sats := d.Shift(fractionDigits)
	if !sats.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than %d fractional digits", s, fractionDigits)
	}
	if sats.Abs().GreaterThan(maxSatoshi) {
		return 0, fmt.Errorf("amount %q exceeds the money supply", s)
	}

	return Amount(sats.IntPart()), nil
}

// MustParseAmount is ParseAmount for constants; it panics on malformed input.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String formats the amount with exactly eight fractional digits, the way
// Bitcoin Core renders amounts in RPC results.
func (a Amount) String() string {
	return decimal.New(int64(a), -fractionDigits).StringFixed(fractionDigits)
}

func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

func (a Amount) IsZero() bool {
	return a == 0
}

// Satoshis returns the underlying btcutil amount.
func (a Amount) Satoshis() btcutil.Amount {
	return btcutil.Amount(a)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return fmt.Errorf("amount is null")
	}
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("invalid amount %s: %w", raw, err)
		}
		raw = unquoted
	}

	parsed, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
