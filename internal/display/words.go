package display

import (
	"math/big"
	"strings"

	"github.com/rpgo/mathgen/pkg/number"
)

var smallWords = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tensWords = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

var scaleWords = []string{
	"", "thousand", "million", "billion", "trillion", "quadrillion", "quintillion",
	"sextillion", "septillion", "octillion", "nonillion", "decillion",
}

// irregular ordinals keyed by the cardinal word they replace
var ordinalWords = map[string]string{
	"one":    "first",
	"two":    "second",
	"three":  "third",
	"five":   "fifth",
	"eight":  "eighth",
	"nine":   "ninth",
	"twelve": "twelfth",
}

// IntegerWords spells an integer in English; magnitudes beyond the scale table
// fall back to digits
func IntegerWords(n *big.Int) string {
	if n.Sign() == 0 {
		return smallWords[0]
	}
	abs := new(big.Int).Abs(n)
	limit := new(big.Int).Exp(big.NewInt(1000), big.NewInt(int64(len(scaleWords))), nil)
	if abs.Cmp(limit) >= 0 {
		return n.String()
	}

	var groups []int
	thousand := big.NewInt(1000)
	mod := new(big.Int)
	for abs.Sign() > 0 {
		abs.QuoRem(abs, thousand, mod)
		groups = append(groups, int(mod.Int64()))
	}

	var parts []string
	for i := len(groups) - 1; i >= 0; i-- {
		if groups[i] == 0 {
			continue
		}
		part := hundredsWords(groups[i])
		if scaleWords[i] != "" {
			part += " " + scaleWords[i]
		}
		parts = append(parts, part)
	}
	out := strings.Join(parts, " ")
	if n.Sign() < 0 {
		out = "minus " + out
	}
	return out
}

func hundredsWords(n int) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, smallWords[n/100]+" hundred")
		n %= 100
	}
	switch {
	case n == 0:
	case n < 20:
		parts = append(parts, smallWords[n])
	default:
		w := tensWords[n/10]
		if n%10 != 0 {
			w += "-" + smallWords[n%10]
		}
		parts = append(parts, w)
	}
	return strings.Join(parts, " ")
}

// OrdinalWords spells a positive integer as an ordinal, e.g. "twenty-first"
func OrdinalWords(n *big.Int) string {
	words := IntegerWords(n)
	cut := strings.LastIndexAny(words, " -")
	head, last := "", words
	if cut >= 0 {
		head, last = words[:cut+1], words[cut+1:]
	}
	if irregular, ok := ordinalWords[last]; ok {
		return head + irregular
	}
	if strings.HasSuffix(last, "y") {
		return head + strings.TrimSuffix(last, "y") + "ieth"
	}
	return head + last + "th"
}

// denominatorWords names the parts of a fraction, e.g. "thirds"
func denominatorWords(denom *big.Int, plural bool) string {
	switch denom.Int64() {
	case 2:
		if plural {
			return "halves"
		}
		return "half"
	case 4:
		if plural {
			return "quarters"
		}
		return "quarter"
	}
	w := OrdinalWords(denom)
	if plural {
		w += "s"
	}
	return w
}

func rationalWords(v number.Rational) string {
	if v.IsInt() {
		return IntegerWords(v.Num())
	}
	num := v.Num()
	prefix := ""
	if num.Sign() < 0 {
		prefix = "minus "
		num.Abs(num)
	}
	plural := num.Cmp(big.NewInt(1)) != 0
	return prefix + IntegerWords(num) + " " + denominatorWords(v.Denom(), plural)
}
