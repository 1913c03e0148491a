package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case StatusResult:
		o.printStatus(v)
	case HealthResult:
		o.printHealthResult(v)
	case DBCheckResult:
		o.printDBCheck(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          int64     `json:"id"`
	SteamID     string    `json:"steam_id"`
	PlayerName  string    `json:"player_name"`
	DonateCoins int64     `json:"donate_coins"`
	LastSeen    time.Time `json:"last_seen"`
}

// StatusResult is the response of GET /
type StatusResult struct {
	Message      string    `json:"message"`
	DatabaseTime time.Time `json:"database_time"`
	Status       string    `json:"status"`
}

// HealthResult is the response of GET /health
type HealthResult struct {
	Status string `json:"status"`
}

// DBCheckResult reports what dbcheck found
type DBCheckResult struct {
	Connection   string    `json:"connection"`
	DatabaseTime time.Time `json:"database_time"`
	Tables       []string  `json:"tables"`
	PlayersOK    bool      `json:"players_ok"`
	PlayersError string    `json:"players_error,omitempty"`
}

func (o *Output) printPlayer(p Player) {
	_, _ = fmt.Fprintf(o.w, "Player: %s (%d)\n", p.PlayerName, p.ID)
	_, _ = fmt.Fprintf(o.w, "Steam ID: %s\n", p.SteamID)
	_, _ = fmt.Fprintf(o.w, "Donate coins: %d\n", p.DonateCoins)
	_, _ = fmt.Fprintf(o.w, "Last seen: %s\n", p.LastSeen.Format(time.RFC3339))
}

func (o *Output) printStatus(s StatusResult) {
	_, _ = fmt.Fprintln(o.w, s.Message)
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", s.Status)
	_, _ = fmt.Fprintf(o.w, "Database time: %s\n", s.DatabaseTime.Format(time.RFC3339))
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}

func (o *Output) printDBCheck(r DBCheckResult) {
	_, _ = fmt.Fprintf(o.w, "Connection string: %s\n", r.Connection)
	_, _ = fmt.Fprintln(o.w, "Connected to database successfully")
	_, _ = fmt.Fprintf(o.w, "Database time: %s\n", r.DatabaseTime.Format(time.RFC3339))
	_, _ = fmt.Fprintf(o.w, "Available tables: %s\n", strings.Join(r.Tables, ", "))
	if r.PlayersOK {
		_, _ = fmt.Fprintln(o.w, "Players table is accessible")
	} else {
		_, _ = fmt.Fprintf(o.w, "Players table error: %s\n", r.PlayersError)
	}
}
