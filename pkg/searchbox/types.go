package searchbox

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors. Match with errors.Is.
var (
	// ErrQueryTooShort is reported when the server considers the query too short.
	ErrQueryTooShort = errors.New("searchbox: query too short")
	// ErrSearchDisabled is reported when live search is switched off.
	ErrSearchDisabled = errors.New("searchbox: search disabled")
)

// Query is one search call.
type Query struct {
	Text      string
	PresetID  int64
	Overrides map[string]string
}

// Product is one product row.
type Product struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	URL              string `json:"url"`
	Image            string `json:"image"`
	Price            string `json:"price"`
	SKU              string `json:"sku"`
	ShortDescription string `json:"short_description"`
}

// Term is one category or tag row.
type Term struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Count int    `json:"count"`
	Type  string `json:"type"`
}

// Display holds the echoed visibility and layout settings.
type Display struct {
	ShowImages      bool
	ShowPrice       bool
	ShowSKU         bool
	ShowDescription bool
	ResultsPadding  int
	MinChars        int
	Delay           int
}

// DefaultResultsPadding applies when the server sends no padding.
const DefaultResultsPadding = 10

// UnmarshalJSON accepts flags as booleans, numbers or strings.
func (d *Display) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	*d = displayFrom(raw)
	return nil
}

func displayFrom(raw map[string]any) Display {
	d := Display{
		ShowImages:      Flag(raw["show_images"]),
		ShowPrice:       Flag(raw["show_price"]),
		ShowSKU:         Flag(raw["show_sku"]),
		ShowDescription: Flag(raw["show_description"]),
		ResultsPadding:  Int(raw["results_padding"], 0),
		MinChars:        Int(raw["min_chars"], 0),
		Delay:           Int(raw["delay"], 0),
	}
	if d.ResultsPadding <= 0 {
		d.ResultsPadding = DefaultResultsPadding
	}
	return d
}

// Response is a successful search answer.
type Response struct {
	Categories []Term    `json:"categories"`
	Tags       []Term    `json:"tags"`
	Products   []Product `json:"products"`
	Settings   Display   `json:"settings"`
	// Total is the match count reported in X-Total-Count, -1 when absent.
	Total int `json:"-"`
}

// Empty reports whether nothing matched at all.
func (r *Response) Empty() bool {
	return len(r.Categories) == 0 && len(r.Tags) == 0 && len(r.Products) == 0
}

// ServerError is a failure answered by the server.
type ServerError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("searchbox: server error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("searchbox: server error %d: %s", e.Status, e.Message)
}

// Is maps well-known failure codes to the package sentinels.
func (e *ServerError) Is(target error) bool {
	switch target {
	case ErrQueryTooShort:
		return e.Code == "query_too_short"
	case ErrSearchDisabled:
		return e.Code == "search_disabled"
	}
	return false
}
