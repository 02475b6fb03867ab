package stats

// Series accumulates per-iteration samples for the labeled entities of one
// category and exposes the aggregated records. Entities keep the order of
// their first observation, so entities sharing a discriminator stay
// contiguous as long as the collector observes them in a stable order.
type Series struct {
	absent  bool
	keys    []seriesKey
	entries map[seriesKey]*seriesEntry
}

type seriesKey struct {
	group  string
	device string
	label  string
}

type seriesEntry struct {
	current    float64
	hasCurrent bool
	min        float64
	max        float64
	sum        float64
	count      int
}

func NewSeries() *Series {
	return &Series{
		entries: make(map[seriesKey]*seriesEntry),
	}
}

// Observe records a live sample for an entity, updating its current value
// and the running min/max/mean.
func (s *Series) Observe(group, device, label string, value float64) {
	e := s.entry(group, device, label)
	e.current = value
	e.hasCurrent = true
	s.accumulate(e, value)
}

// ObserveAggregate records a sample for an aggregate-only entity. The entity
// tracks min/max/mean but has no current value, so per-record report rows
// are filtered out for it.
func (s *Series) ObserveAggregate(group, device, label string, value float64) {
	e := s.entry(group, device, label)
	s.accumulate(e, value)
}

func (s *Series) entry(group, device, label string) *seriesEntry {
	k := seriesKey{group: group, device: device, label: label}
	e, ok := s.entries[k]
	if !ok {
		e = &seriesEntry{}
		s.entries[k] = e
		s.keys = append(s.keys, k)
	}
	return e
}

func (*Series) accumulate(e *seriesEntry, value float64) {
	if e.count == 0 || value < e.min {
		e.min = value
	}
	if e.count == 0 || value > e.max {
		e.max = value
	}
	e.sum += value
	e.count++
}

// SetAbsent marks the whole category as missing on this machine.
func (s *Series) SetAbsent(absent bool) {
	s.absent = absent
}

// Len returns the number of tracked entities.
func (s *Series) Len() int {
	return len(s.keys)
}

// CurrentValues returns the latest live sample of every entity, in
// observation order. Aggregate-only entities are skipped.
func (s *Series) CurrentValues() []float64 {
	values := make([]float64, 0, len(s.keys))
	for _, k := range s.keys {
		e := s.entries[k]
		if e.hasCurrent {
			values = append(values, e.current)
		}
	}
	return values
}

// Category freezes the series into an ordered category of records.
func (s *Series) Category() Category {
	records := make([]Record, 0, len(s.keys))
	for _, k := range s.keys {
		e := s.entries[k]
		if e.count == 0 {
			continue
		}
		rec := Record{
			Group:  k.group,
			Device: k.device,
			Label:  k.label,
			Min:    e.min,
			Max:    e.max,
			Mean:   e.sum / float64(e.count),
		}
		if e.hasCurrent {
			current := e.current
			rec.Current = &current
		}
		records = append(records, rec)
	}

	return Category{
		Absent:  s.absent,
		Records: records,
	}
}
