package weather

// Summarize computes mean/min/max over the chosen metric of a window,
// skipping observations where the upstream omitted the value. The second
// return is false when the window holds no non-null values; callers must
// treat that as "no statistics", never as zeroes.
func Summarize(obs []Observation, m Metric) (Summary, bool) {
	var s Summary
	var sum float64

	for _, o := range obs {
		v := o.Value(m)
		if v == nil {
			continue
		}
		if s.Count == 0 || *v < s.Min {
			s.Min = *v
		}
		if s.Count == 0 || *v > s.Max {
			s.Max = *v
		}
		sum += *v
		s.Count++
	}

	if s.Count == 0 {
		return Summary{}, false
	}
	s.Mean = sum / float64(s.Count)
	return s, true
}
