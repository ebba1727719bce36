// Package regiontable sorts and filters the fetched per-district stats list.
// Everything here works on the single /api/stats/regions response; no sort or
// filter triggers another backend call.
package regiontable

import (
	"sort"
	"strings"

	"sudogwon/web/internal/models"
)

// SortKey selects the table column to order by.
type SortKey string

const (
	SortByName    SortKey = "name"
	SortByPrice   SortKey = "avg_price"
	SortByTxCount SortKey = "tx_count"
	SortByYoY     SortKey = "yoy_change"
)

// DefaultKey and DefaultOrder match the table's initial view.
const (
	DefaultKey   = SortByTxCount
	DefaultOrder = OrderDesc
)

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// yoySentinel ranks unmeasured regions below any real percentage so they sink
// to the bottom under descending sorts.
const yoySentinel = -999.0

// ParseSortKey falls back to the default for unknown values.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByName, SortByPrice, SortByTxCount, SortByYoY:
		return SortKey(s)
	}
	return DefaultKey
}

// ParseOrder falls back to the key's natural order: ascending for names,
// descending for every numeric column.
func ParseOrder(s string, key SortKey) Order {
	switch Order(s) {
	case OrderAsc, OrderDesc:
		return Order(s)
	}
	if key == SortByName {
		return OrderAsc
	}
	return OrderDesc
}

// FilterCity returns the regions belonging to city; empty city means all.
// The result is always a copy.
func FilterCity(regions []models.RegionStat, city string) []models.RegionStat {
	out := make([]models.RegionStat, 0, len(regions))
	for _, r := range regions {
		if city == "" || r.City == city {
			out = append(out, r)
		}
	}
	return out
}

// View filters by city (empty means all) and sorts a copy of the list.
func View(regions []models.RegionStat, city string, key SortKey, order Order) []models.RegionStat {
	out := FilterCity(regions, city)

	sort.SliceStable(out, func(i, j int) bool {
		if order == OrderDesc {
			i, j = j, i
		}
		switch key {
		case SortByName:
			return strings.Compare(out[i].Name, out[j].Name) < 0
		case SortByPrice:
			return out[i].AvgPrice < out[j].AvgPrice
		case SortByYoY:
			return yoyValue(out[i]) < yoyValue(out[j])
		default:
			return out[i].TxCount < out[j].TxCount
		}
	})
	return out
}

func yoyValue(r models.RegionStat) float64 {
	if r.YoYChange == nil {
		return yoySentinel
	}
	return *r.YoYChange
}

// TopMovers returns up to three of the largest risers (positive
// year-over-year change) and up to three of the steepest fallers (negative
// change). Unmeasured and flat regions appear in neither list, so a region
// can never show up as both a riser and a faller.
func TopMovers(regions []models.RegionStat) (top, bottom []models.RegionStat) {
	var risers, fallers []models.RegionStat
	for _, r := range regions {
		switch {
		case r.YoYChange == nil:
		case *r.YoYChange > 0:
			risers = append(risers, r)
		case *r.YoYChange < 0:
			fallers = append(fallers, r)
		}
	}

	sort.SliceStable(risers, func(i, j int) bool {
		return *risers[i].YoYChange > *risers[j].YoYChange
	})
	sort.SliceStable(fallers, func(i, j int) bool {
		return *fallers[i].YoYChange < *fallers[j].YoYChange
	})

	if len(risers) > 3 {
		risers = risers[:3]
	}
	if len(fallers) > 3 {
		fallers = fallers[:3]
	}
	return risers, fallers
}
