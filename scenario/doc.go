// Package scenario replays scripted ticks against a catalog block.
//
// A scenario names a family, its kinds and constructor argument, then lists
// ticks. Each tick sets inputs, runs an action (step, reset or hold) and
// checks outputs:
//
//	name: delay-s32
//	block: delay
//	kinds: [s32]
//	ticks:
//	  - action: reset
//	    inputs: {1: 2}
//	    expect: {0: 2}
//	  - inputs: {0: 5}
//	    expect: {0: 2}
//
// Run returns a Result holding every output after every tick; failed
// expectations are collected as mismatches rather than stopping the run.
package scenario
