package view

import (
	"strconv"
	"strings"

	"github.com/nikolayk812/cartstore-demo/internal/domain"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders money for one locale.
type Formatter struct {
	tag       language.Tag
	printer   *message.Printer
	separator string
}

func NewFormatter(tag language.Tag) Formatter {
	printer := message.NewPrinter(tag)

	// x/text has no exact decimal input, so the locale's decimal separator is
	// taken from a sample and the fraction is spliced in from the decimal text.
	sample := printer.Sprint(number.Decimal(1.5, number.Scale(1)))
	separator := strings.TrimSuffix(strings.TrimPrefix(sample, "1"), "5")

	return Formatter{
		tag:       tag,
		printer:   printer,
		separator: separator,
	}
}

func (f Formatter) Tag() language.Tag {
	return f.tag
}

// Format prints the currency symbol followed by the amount rounded to the
// currency's standard scale, e.g. "R$ 179,90" for pt-BR.
func (f Formatter) Format(m domain.Money) string {
	scale, _ := currency.Standard.Rounding(m.Currency)
	rounded := m.Amount.Round(int32(scale))

	whole, frac, _ := strings.Cut(rounded.Abs().StringFixed(int32(scale)), ".")

	// integer parts beyond int64 are printed without grouping
	digits := whole
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		digits = f.printer.Sprint(number.Decimal(n))
	}
	if frac != "" {
		digits += f.separator + frac
	}
	if rounded.IsNegative() {
		digits = "-" + digits
	}

	return f.printer.Sprintf("%v %v", currency.Symbol(m.Currency), digits)
}
