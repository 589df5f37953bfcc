// Package planner holds the spatial model of the weekly grid: containers laid
// out in cell coordinates, hit-testing from a screen point back to a logical
// address, and the drag controller that moves items between containers.
//
// A Grid is owned by exactly one goroutine (the TUI update loop). It is not
// safe for concurrent use; hosts that split input and rendering across
// goroutines must guard each Grid mutation with a single lock around the whole
// remove-then-append sequence.
package planner
