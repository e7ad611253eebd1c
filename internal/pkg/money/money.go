// Package money renders amounts for display in Indonesian rupiah.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Indonesian)

var maxWhole = decimal.NewFromInt(math.MaxInt64)

// FormatRupiah renders d as "Rp 1.234.567". Amounts are rounded to whole
// rupiah; negatives keep their sign after the prefix.
func FormatRupiah(d decimal.Decimal) string {
	whole := d.Round(0)
	sign := ""
	if whole.IsNegative() {
		sign = "-"
		whole = whole.Neg()
	}
	if whole.GreaterThan(maxWhole) {
		return "Rp " + sign + groupThousands(whole.String())
	}
	return printer.Sprintf("Rp %s%v", sign, number.Decimal(whole.IntPart()))
}

// groupThousands inserts "." between every three digits of an unsigned
// integer string.
func groupThousands(digits string) string {
	var b strings.Builder
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatSigned prefixes income with "+" and expense with "-", the way
// transaction rows show them.
func FormatSigned(d decimal.Decimal, income bool) string {
	sign := "-"
	if income {
		sign = "+"
	}
	return sign + FormatRupiah(d.Abs())
}
