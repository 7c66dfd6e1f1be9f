package filter

// Duration is a length bucket. The zero value selects no bucket.
type Duration string

const (
	DurationAny    Duration = ""
	DurationShort  Duration = "short"
	DurationMedium Duration = "medium"
	DurationLong   Duration = "long"
)

type bucket struct {
	label string
	min   int
	// max is exclusive; zero means unbounded.
	max int
}

var buckets = map[Duration]bucket{
	DurationShort:  {label: "2-5 min", min: 120, max: 300},
	DurationMedium: {label: "5-15 min", min: 300, max: 900},
	DurationLong:   {label: "15+ min", min: 900},
}

// Durations lists the selectable buckets in display order.
func Durations() []Duration {
	return []Duration{DurationShort, DurationMedium, DurationLong}
}

// ParseDuration maps a raw value onto a bucket; anything unknown selects none.
func ParseDuration(s string) Duration {
	d := Duration(s)
	if _, ok := buckets[d]; ok {
		return d
	}
	return DurationAny
}

func (d Duration) Label() string {
	return buckets[d].label
}

// Contains reports whether seconds falls inside the bucket. DurationAny
// contains everything.
func (d Duration) Contains(seconds int) bool {
	b, ok := buckets[d]
	if !ok {
		return true
	}
	if b.max > 0 {
		return seconds >= b.min && seconds < b.max
	}
	return seconds >= b.min
}
