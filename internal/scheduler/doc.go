// Package scheduler computes the evaluation order of a solution's steps.
//
// # Why Scheduler Exists
//
// Steps arrive in no particular order, each pre-solved for its outputs in
// terms of its inputs. Before any step can be evaluated every one of its
// inputs must already be known, either as a seed parameter or as the output
// of a step that runs earlier. The scheduler discovers such an order, or
// reports the steps for which none exists.
//
// # How It Works
//
// Order is a two-phase variant of Kahn's algorithm:
//  1. Seeding: every step whose inputs are all parameters goes straight onto
//     a FIFO ready queue, in collection order. Every other step is pending
//     with an outstanding count equal to its number of unknown inputs.
//  2. Draining: the head of the ready queue is appended to the order and its
//     outputs are marked solved. Each pending step loses one outstanding
//     count for every newly solved output it reads. Steps reaching zero join
//     the ready queue in collection order.
//
// When the ready queue runs dry, whatever is still pending is unschedulable:
// a parameter is missing or the steps depend on each other in a cycle. That
// is reported through Plan.Unsolved, never as an error.
//
// Steps are addressed by their index in the input slice, so a Plan is plain
// data.
package scheduler
