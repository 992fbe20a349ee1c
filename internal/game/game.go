// Package game contains the core domain types for the game catalog.
package game

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
)

// ItemType is the partition key value shared by all game records.
const ItemType = "game"

const (
	// DefaultTitle is stored when a write supplies no usable title.
	DefaultTitle = "Untitled Game"

	// OverviewAttr is the attribute holding the English overview text.
	OverviewAttr = "overview"
)

// Game is a catalog entry as written by Create and Update.
// Cached translations live alongside these fields as dynamically named
// attributes (overview_fr, overview_de, ...) and are carried by Record,
// not by this struct.
type Game struct {
	ItemType string  `json:"itemType" dynamodbav:"itemType"`
	ItemID   string  `json:"itemId" dynamodbav:"itemId"`
	Title    string  `json:"title" dynamodbav:"title"`
	Overview string  `json:"overview" dynamodbav:"overview"`
	Rating   float64 `json:"rating" dynamodbav:"rating"`
	Visible  bool    `json:"visible" dynamodbav:"visible"`
}

// Record is a game row as read back from the store. It is an open map so
// that translation cache attributes and any fields written by partial
// updates survive a round trip unchanged.
type Record map[string]any

// StringAttr returns the named attribute if it is a non-empty string.
func (r Record) StringAttr(name string) (string, bool) {
	s, ok := r[name].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// TranslationAttr is the record attribute caching the overview translated
// into the given target language.
func TranslationAttr(language string) string {
	return OverviewAttr + "_" + language
}

// NewID generates a catalog id of the form "game#<uuid>".
func NewID() string {
	return fmt.Sprintf("%s#%s", ItemType, uuid.NewString())
}

// Input is a client-supplied game payload. Visible is a pointer and
// Rating stays raw so "absent", "null" and "zero" remain distinguishable
// where the defaulting rules below need them to be.
type Input struct {
	Title    string          `json:"title"`
	Overview string          `json:"overview"`
	Rating   json.RawMessage `json:"rating"`
	Visible  *bool           `json:"visible"`
}

// ParseInput decodes a request body into an Input.
func ParseInput(body string) (Input, error) {
	var in Input
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return Input{}, fmt.Errorf("decoding game payload: %w", err)
	}
	return in, nil
}

// Materialize applies the write-side defaulting rules to an input and
// binds it to an id:
//
//   - empty or missing title becomes DefaultTitle
//   - missing overview becomes ""
//   - rating accepts a JSON number or numeric string, anything else is 0
//   - visible defaults to true only when absent or null
func (in Input) Materialize(itemID string) Game {
	g := Game{
		ItemType: ItemType,
		ItemID:   itemID,
		Title:    in.Title,
		Overview: in.Overview,
		Rating:   coerceRating(in.Rating),
		Visible:  true,
	}
	if g.Title == "" {
		g.Title = DefaultTitle
	}
	if in.Visible != nil {
		g.Visible = *in.Visible
	}
	return g
}

// coerceRating converts a raw JSON value to a rating. Numbers pass
// through, numeric strings are parsed, everything else collapses to 0.
func coerceRating(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) {
		return 0
	}
	return n
}

// Fields returns the four mutable attributes as an update map, in the
// shape UpdateFields expects.
func (g Game) Fields() map[string]any {
	return map[string]any{
		"title":    g.Title,
		"overview": g.Overview,
		"rating":   g.Rating,
		"visible":  g.Visible,
	}
}
