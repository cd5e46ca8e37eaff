package pricing

import (
	"math"
	"strconv"
	"strings"
)

// All currency amounts in this package are int64 pence. Percentages round to
// the whole penny at every step so repeated runs over the same cart can never
// drift.

// PercentOf returns pct% of amount, rounded to the nearest penny.
func PercentOf(amountPence int64, pct float64) int64 {
	return int64(math.Round(float64(amountPence) * pct / 100))
}

// FormatGBP formats pence as a display string like "£1,234.56".
func FormatGBP(pence int64) string {
	neg := pence < 0
	if neg {
		pence = -pence
	}

	pounds := strconv.FormatInt(pence/100, 10)
	var b strings.Builder
	b.Grow(len(pounds) + len(pounds)/3 + 5)
	if neg {
		b.WriteString("-£")
	} else {
		b.WriteString("£")
	}

	rem := len(pounds) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(pounds[:rem])
	for i := rem; i < len(pounds); i += 3 {
		b.WriteByte(',')
		b.WriteString(pounds[i : i+3])
	}

	b.WriteByte('.')
	frac := strconv.FormatInt(pence%100, 10)
	if len(frac) == 1 {
		b.WriteByte('0')
	}
	b.WriteString(frac)
	return b.String()
}

// capProportionally scales raw per-line amounts down so they sum to limit,
// distributing remainder pennies largest-remainder-first. Lines earlier in
// the slice win penny ties, which keeps the split deterministic.
func capProportionally(raw []int64, limit int64) []int64 {
	var sum int64
	for _, v := range raw {
		sum += v
	}
	if sum <= limit || sum == 0 {
		out := make([]int64, len(raw))
		copy(out, raw)
		return out
	}

	scaled := make([]int64, len(raw))
	rems := make([]int64, len(raw))
	var allocated int64
	for i, v := range raw {
		scaled[i] = v * limit / sum
		rems[i] = v * limit % sum
		allocated += scaled[i]
	}

	for allocated < limit {
		best := -1
		for i := range rems {
			if rems[i] == 0 {
				continue
			}
			if best == -1 || rems[i] > rems[best] {
				best = i
			}
		}
		if best == -1 {
			break
		}
		scaled[best]++
		rems[best] = 0
		allocated++
	}
	return scaled
}
