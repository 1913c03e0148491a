package request

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/mcoot/donateshop/internal/model"
)

// SetDonateRequest is the request body for setting a player's donate coins
type SetDonateRequest struct {
	// Coins is kept raw so strings like "50" are rejected rather than coerced
	Coins json.RawMessage `json:"coins"`
}

// CoinsValue returns the requested balance.
// Only JSON numbers with an integral value that fits in int64 are accepted.
func (r SetDonateRequest) CoinsValue() (int64, error) {
	raw := bytes.TrimSpace(r.Coins)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, model.ErrInvalidCoins
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return 0, model.ErrInvalidCoins
	}
	return parseNumber(string(raw))
}

// ParseCoins parses a balance supplied as text, e.g. in a URL path or form
func ParseCoins(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, model.ErrInvalidCoins
	}
	return parseNumber(s)
}

// parseNumber accepts integers and integral floats such as 50.0 or 5e1.
// Hex floats and digit separators are not decimal and are rejected.
func parseNumber(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if strings.ContainsAny(s, "xX_") {
		return 0, model.ErrInvalidCoins
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, model.ErrInvalidCoins
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, model.ErrInvalidCoins
	}
	return int64(f), nil
}
