// Package insight holds the area-bucket and peak-price math shared by the
// detail page, the transaction feed, the comparison view and the OG image.
package insight

import (
	"math"

	"sudogwon/web/internal/models"
)

// AreaTolerance is the fixed window for "same area" grouping: a transaction
// belongs to an AreaStat bucket when its area is within ±2 m² of the bucket
// area. The backend applies the same convention when filtering.
const AreaTolerance = 2.0

// MatchAreaStat returns the first stat whose bucket covers refArea.
func MatchAreaStat(stats []models.AreaStat, refArea float64) *models.AreaStat {
	for i := range stats {
		if math.Abs(stats[i].Area-refArea) <= AreaTolerance {
			return &stats[i]
		}
	}
	return nil
}

// ReferenceArea picks the bucket to compare a transaction against: the active
// area filter when one is set, otherwise the transaction's own rounded area.
func ReferenceArea(selectedArea *float64, txArea float64) float64 {
	if selectedArea != nil {
		return *selectedArea
	}
	return math.Round(txArea)
}

// PeakDeviation is the rounded percentage a price sits below the bucket peak.
// Negative values mean the price is above the recorded peak.
func PeakDeviation(amount, peak int64) int {
	if peak <= 0 || amount <= 0 {
		return 0
	}
	return int(math.Round((1 - float64(amount)/float64(peak)) * 100))
}

// RecoveryRate is the rounded percentage of the bucket peak a price has
// recovered to, used by the OG image badge.
func RecoveryRate(amount, peak int64) int {
	if peak <= 0 || amount <= 0 {
		return 0
	}
	return int(math.Round(float64(amount) / float64(peak) * 100))
}

// Verdict classifies one transaction against its area bucket.
type Verdict struct {
	Peak        int64
	DropPercent int  // > 0 when the price sits below the peak
	RecordHigh  bool // price at or above the recorded peak
}

// Classify resolves the bucket for a transaction and computes its verdict.
// A zero Verdict (Peak == 0) means no bucket matched.
func Classify(stats []models.AreaStat, selectedArea *float64, tx models.Transaction) Verdict {
	stat := MatchAreaStat(stats, ReferenceArea(selectedArea, tx.Area))
	if stat == nil || stat.MaxAmount <= 0 {
		return Verdict{}
	}
	v := Verdict{Peak: stat.MaxAmount}
	if tx.Amount >= stat.MaxAmount {
		v.RecordHigh = true
		return v
	}
	if drop := PeakDeviation(tx.Amount, stat.MaxAmount); drop > 0 {
		v.DropPercent = drop
	}
	return v
}
