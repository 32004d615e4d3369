// Package dag holds an id-keyed dependency graph between steps and uses it to
// explain why steps were left out of a schedule.
package dag
