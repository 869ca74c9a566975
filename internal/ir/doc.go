// Package ir holds the compiled form of a window-rule configuration:
// trigger sets, the per-trigger animation table, reference-counted
// animation scripts, per-window options and the window-type table.
//
// All other internal packages import ir; ir imports nothing internal.
// Values in this package are produced by the compiler and are read-only
// once compilation finishes, except for script reference counts.
package ir
