// Package risk provides the bounded additive accumulator shared by every
// scoring component, so saturation behaves identically everywhere.
package risk

// Meter accumulates additive risk contributions with their reasons.
// The reported score saturates at 1.0 and never goes below 0.0.
type Meter struct {
	total   float64
	reasons []string
}

// Add records a contribution and its explanation.
func (m *Meter) Add(delta float64, reason string) {
	m.total += delta
	if reason != "" {
		m.reasons = append(m.reasons, reason)
	}
}

// Note appends an explanation without changing the score.
func (m *Meter) Note(reason string) {
	if reason != "" {
		m.reasons = append(m.reasons, reason)
	}
}

// Floor raises the accumulated total to at least min.
func (m *Meter) Floor(min float64) {
	if m.total < min {
		m.total = min
	}
}

// Score returns the saturated value in [0, 1].
func (m *Meter) Score() float64 {
	return Clamp(m.total)
}

// Raw returns the unsaturated running total.
func (m *Meter) Raw() float64 {
	return m.total
}

// Reasons returns the explanations in the order they were added.
func (m *Meter) Reasons() []string {
	return m.reasons
}

// Clamp bounds v to [0, 1].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
