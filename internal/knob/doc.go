// Package knob places PfEMP1 discs on an idealised half-sphere knob.
//
// A Profile fixes the knob radius, its ordered ring sectors (apex first) and
// the empirical fraction of discs found in each sector. Build splits a disc
// budget across the sectors with AssignCounts, then fills the sectors in
// order with a Placer. Each sector sees the discs already accepted in the
// earlier sectors as read-only context for the overlap check.
//
// Randomness always comes from an explicit *rand.Rand so that callers can
// seed runs and give each worker its own stream.
package knob
