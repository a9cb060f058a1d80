package normalizer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/chrisdamba/menuar/internal/models"
)

const rupeeSign = "₹"

// numericRun matches the first run of digits and separators that holds at least one digit.
var numericRun = regexp.MustCompile(`[\d.,]*\d[\d.,]*`)

// Price is a display price parsed into minor currency units. Valid is false
// when the source string carried no digits or a number too large to hold in
// minor units; Amount is then 0.
type Price struct {
	Amount   int64
	Currency string
	Valid    bool
}

// ParsePrice extracts the first numeric run of a display price such as
// "₹1,250" or "$12.99" and converts it to minor units, rounding half up at
// the third decimal. Thousands separators are dropped.
func ParsePrice(display string) Price {
	p := Price{Currency: DetectCurrency(display)}

	run := numericRun.FindString(display)
	if run == "" {
		return p
	}
	run = strings.ReplaceAll(run, ",", "")

	whole, frac, _ := strings.Cut(run, ".")
	// "1.2.3" parses as 1.2
	frac, _, _ = strings.Cut(frac, ".")

	var amount int64
	if whole != "" {
		n, err := strconv.ParseInt(whole, 10, 64)
		if err != nil || n > (math.MaxInt64-100)/100 {
			// out of range is treated like an unreadable price
			return p
		}
		amount = n * 100
	}

	digits := []byte(frac + "000")
	amount += int64(digits[0]-'0')*10 + int64(digits[1]-'0')
	if digits[2] >= '5' {
		amount++
	}

	p.Amount = amount
	p.Valid = true
	return p
}

// DetectCurrency returns INR for strings carrying the rupee sign and USD otherwise.
func DetectCurrency(display string) string {
	if strings.Contains(display, rupeeSign) {
		return models.CurrencyINR
	}
	return models.CurrencyUSD
}

// FormatPrice renders minor units as a display price. INR drops the decimals
// when the amount is a whole number of rupees; every other currency renders
// with a dollar sign and two decimals. ParsePrice(FormatPrice(a, c)).Amount == a.
func FormatPrice(amount int64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	if currency == models.CurrencyINR {
		if amount%100 == 0 {
			return fmt.Sprintf("%s%s%d", sign, rupeeSign, amount/100)
		}
		return fmt.Sprintf("%s%s%d.%02d", sign, rupeeSign, amount/100, amount%100)
	}
	return fmt.Sprintf("%s$%d.%02d", sign, amount/100, amount%100)
}
