package xbrl

// Truncate narrows points down to the most recent count periods, optionally
// first discarding periods after targetYear so both "the 5 most recent
// years" and "5 years ending in 2020" are expressible from the same series.
// points must already be sorted ascending by PeriodEnd, which is Dedup's
// contract. count <= 0 means no truncation; targetYear <= 0 means no
// ceiling.
func Truncate(points []DataPoint, count, targetYear int) []DataPoint {
	if targetYear > 0 {
		filtered := make([]DataPoint, 0, len(points))
		for _, dp := range points {
			if dp.FiscalYear > targetYear {
				continue
			}
			filtered = append(filtered, dp)
		}
		points = filtered
	}
	if count > 0 && count < len(points) {
		points = points[len(points)-count:]
	}
	return points
}
