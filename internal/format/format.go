// Package format converts backend integer amounts (만원 units) and ISO month
// strings into the display forms used across the site.
package format

import (
	"fmt"
	"math"
	"strings"
)

// PyeongPerSquareMeter converts m² to 평 (1평 = 3.3058 m²).
const PyeongPerSquareMeter = 3.3058

// Price renders a 만원 amount as "1억 5,000만원", "8,000만원" or "2억원".
// An even 억 amount carries no 만 part.
func Price(amount int64) string {
	if amount <= 0 {
		return "-"
	}
	if amount >= 10000 {
		uk := amount / 10000
		man := amount % 10000
		if man > 0 {
			return fmt.Sprintf("%d억 %s만원", uk, Comma(man))
		}
		return fmt.Sprintf("%d억원", uk)
	}
	return fmt.Sprintf("%s만원", Comma(amount))
}

// ShortPrice is the compact chart-axis form: "1.5억" above 1억, "8,000만" below.
func ShortPrice(amount float64) string {
	if amount >= 10000 {
		return fmt.Sprintf("%.1f억", amount/10000)
	}
	return fmt.Sprintf("%s만", Comma(int64(math.Round(amount))))
}

// Month shortens "2024-01" to "24.01". Anything else passes through.
func Month(month string) string {
	parts := strings.Split(month, "-")
	if len(parts) == 2 && len(parts[0]) == 4 {
		return parts[0][2:] + "." + parts[1]
	}
	return month
}

// Comma inserts thousands separators.
func Comma(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		parts = append([]string{s}, parts...)
		s = strings.Join(parts, ",")
	}
	if neg {
		return "-" + s
	}
	return s
}

// Pyeong converts a floor area in m² to 평.
func Pyeong(area float64) float64 {
	return area / PyeongPerSquareMeter
}

// PricePerPyeong returns the rounded 만원-per-평 price, or 0 when either
// input is missing.
func PricePerPyeong(amount int64, area float64) int64 {
	if amount <= 0 || area <= 0 {
		return 0
	}
	return int64(math.Round(float64(amount) / Pyeong(area)))
}

// PricePerPyeongLabel renders a per-평 price as "2,400만/평" or "1억 500만/평".
func PricePerPyeongLabel(perPyeong int64) string {
	if perPyeong <= 0 {
		return "-"
	}
	if perPyeong >= 10000 {
		uk := perPyeong / 10000
		man := perPyeong % 10000
		if man > 0 {
			return fmt.Sprintf("%d억 %s만/평", uk, Comma(man))
		}
		return fmt.Sprintf("%d억/평", uk)
	}
	return fmt.Sprintf("%s만/평", Comma(perPyeong))
}

// Area renders an m² value without trailing zeros ("84.92㎡", "59㎡").
func Area(area float64) string {
	s := fmt.Sprintf("%.2f", area)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + "㎡"
}
