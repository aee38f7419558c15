// Package ensemble runs many independent knob realisations per particle count
// and aggregates their nearest-neighbour surface-to-surface distances.
//
// Trials are independent, so Run spreads them over a bounded worker pool.
// Every trial draws from its own stream derived from the run seed, the
// particle count and the trial index, and samples are concatenated in trial
// order: a run gives the same samples for any worker count.
package ensemble
