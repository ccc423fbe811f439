package progress

import "math"

// NoBestMonth is reported when a subject has no records.
const NoBestMonth = "N/A"

// Stats are derived from one subject's series.
type Stats struct {
	Average   float64 `json:"average"`
	Highest   int     `json:"highest"`
	BestMonth string  `json:"best_month"`
}

// computeStats returns mean, max and the first month reaching the max.
func computeStats(records []Record) Stats {
	if len(records) == 0 {
		return Stats{BestMonth: NoBestMonth}
	}

	sum := 0
	highest := records[0].Progress
	for _, r := range records {
		sum += r.Progress
		if r.Progress > highest {
			highest = r.Progress
		}
	}

	best := NoBestMonth
	for _, r := range records {
		if r.Progress == highest {
			best = r.Month
			break
		}
	}

	return Stats{
		Average:   float64(sum) / float64(len(records)),
		Highest:   highest,
		BestMonth: best,
	}
}

// averageByMonth averages progress per month across subjects that have data
// for that month. Months keep first-appearance order; values are rounded.
func averageByMonth(d Dataset) []Record {
	type bucket struct {
		sum   int
		count int
	}

	var order []string
	buckets := make(map[string]*bucket)
	for _, s := range d {
		for _, r := range s.Records {
			b, ok := buckets[r.Month]
			if !ok {
				b = &bucket{}
				buckets[r.Month] = b
				order = append(order, r.Month)
			}
			b.sum += r.Progress
			b.count++
		}
	}

	out := make([]Record, 0, len(order))
	for _, month := range order {
		b := buckets[month]
		out = append(out, Record{
			Month:    month,
			Progress: int(math.Round(float64(b.sum) / float64(b.count))),
		})
	}
	return out
}

// topSubject returns the subject with the highest average progress, or
// fallback when none averages above zero.
func topSubject(d Dataset, fallback string) string {
	top := fallback
	highest := 0.0
	for _, s := range d {
		if len(s.Records) == 0 {
			continue
		}
		if avg := computeStats(s.Records).Average; avg > highest {
			highest = avg
			top = s.ID
		}
	}
	return top
}
