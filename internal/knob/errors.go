package knob

import "errors"

var (
	// ErrInvalidProfile reports a malformed knob profile (radius, sector
	// bounds or occupancy distribution).
	ErrInvalidProfile = errors.New("knob: invalid profile")

	// ErrInvalidCount reports a negative disc budget.
	ErrInvalidCount = errors.New("knob: invalid particle count")

	// ErrInvalidDistribution reports an occupancy distribution that cannot be
	// sampled.
	ErrInvalidDistribution = errors.New("knob: invalid occupancy distribution")

	// ErrInvalidOptions reports negative disc radius or retry budgets.
	ErrInvalidOptions = errors.New("knob: invalid placement options")

	// ErrNilRand is returned when no random stream is supplied.
	ErrNilRand = errors.New("knob: nil random stream")
)
