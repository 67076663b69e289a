package catalog

import (
	"html"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency symbol placements.
const (
	PosLeft       = "left"
	PosRight      = "right"
	PosLeftSpace  = "left_space"
	PosRightSpace = "right_space"
)

// Currency describes how prices are rendered.
type Currency struct {
	Symbol   string
	Position string
	Decimals int
	Locale   string
}

// PriceFormatter renders store price markup from raw meta values.
type PriceFormatter struct {
	cur     Currency
	printer *message.Printer
}

// NewPriceFormatter builds a formatter. An unknown locale falls back to en-US.
func NewPriceFormatter(c Currency) *PriceFormatter {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	if c.Decimals < 0 {
		c.Decimals = 0
	}
	if c.Position == "" {
		c.Position = PosLeft
	}
	return &PriceFormatter{cur: c, printer: message.NewPrinter(tag)}
}

// Amount renders one amount span.
func (f *PriceFormatter) Amount(v float64) string {
	num := f.printer.Sprint(number.Decimal(v, number.Scale(f.cur.Decimals)))
	sym := `<span class="woocommerce-Price-currencySymbol">` + html.EscapeString(f.cur.Symbol) + `</span>`

	var inner string
	switch f.cur.Position {
	case PosRight:
		inner = num + sym
	case PosLeftSpace:
		inner = sym + "&nbsp;" + num
	case PosRightSpace:
		inner = num + "&nbsp;" + sym
	default:
		inner = sym + num
	}
	return `<span class="woocommerce-Price-amount amount"><bdi>` + inner + `</bdi></span>`
}

// HTML renders the price from the _price, _regular_price and _sale_price
// meta values. Empty when the product has no price.
func (f *PriceFormatter) HTML(price, regular, sale string) string {
	reg, hasReg := parsePrice(regular)
	cur, hasCur := parsePrice(price)
	sal, hasSale := parsePrice(sale)

	if !hasReg {
		reg, hasReg = cur, hasCur
	}
	if !hasReg {
		return ""
	}
	if hasSale && sal < reg {
		return `<del aria-hidden="true">` + f.Amount(reg) + `</del> <ins>` + f.Amount(sal) + `</ins>`
	}
	return f.Amount(reg)
}

func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
