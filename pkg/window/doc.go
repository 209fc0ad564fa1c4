// Package window implements windowing constructs. In the world of data processing on an unbounded stream, Windowing
// is a concept of grouping data using temporal boundaries. An event is assigned to one or more windows based on its
// timestamp, and an accumulator per (window, key) is folded as events arrive. A trigger decides when the accumulated
// state of a window becomes visible (fire) and when it is discarded (purge).
//
// Windows are of different types, quite popular ones are Fixed windows and Sliding windows. A third strategy, the
// Accumulate window, folds every event into a single ever-growing window which is reported on a fixed cadence and
// optionally retired and replaced after a configured state size.
//
// Window boundaries are aligned to the Unix epoch (e.g., 1 minute windows start at the 0th second of a minute).
// Assignment follows a left inclusive and right exclusive principle, so an element on a boundary always falls into
// the window to the right of the boundary.
package window
