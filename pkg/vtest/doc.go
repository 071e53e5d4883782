// Package vtest provides testing helpers for components.
//
// A Harness renders a component, fires events at its handlers the way a
// live session would, and asserts on the HTML after each step:
//
//	func TestSwitch(t *testing.T) {
//	    h := vtest.Mount(t, newSwitch())
//	    h.ExpectNotContains("<dialog")
//	    h.Fire("h1", "onchange")
//	    h.ExpectContains("Enable developer mode?")
//	}
//
// Handler IDs are assigned in document order starting at h1, so they are
// stable for a given tree.
package vtest
