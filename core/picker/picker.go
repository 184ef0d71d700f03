// Package picker models the element picker as an explicit state machine.
// The caller owns the Picker value and feeds it events; nothing here is
// global.
//
//	Idle --toggle--> Picking --toggle/escape--> Idle
//	                 Picking --click(target)--> Idle (+ target picked)
package picker

import "fmt"

// State is the picker mode.
type State int

const (
	Idle State = iota
	Picking
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Picking:
		return "picking"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// EventKind enumerates the inputs the picker reacts to.
type EventKind int

const (
	Toggle EventKind = iota
	Escape
	Hover
	Click
)

// Event is one input. Target identifies the element under the pointer
// for Hover and Click (a CSS selector in the CLI).
type Event struct {
	Kind   EventKind
	Target string
}

// Picker is the picker state. The zero value is Idle.
type Picker struct {
	state   State
	hovered string
}

// State returns the current mode.
func (p *Picker) State() State {
	return p.state
}

// Hovered returns the highlighted target while picking.
func (p *Picker) Hovered() string {
	return p.hovered
}

// Handle applies ev. It returns the picked target and true only for a
// click while picking; every other event returns "", false.
func (p *Picker) Handle(ev Event) (string, bool) {
	switch p.state {
	case Idle:
		if ev.Kind == Toggle {
			p.state = Picking
		}
	case Picking:
		switch ev.Kind {
		case Toggle, Escape:
			p.reset()
		case Hover:
			p.hovered = ev.Target
		case Click:
			target := ev.Target
			if target == "" {
				target = p.hovered
			}
			p.reset()
			if target != "" {
				return target, true
			}
		}
	}
	return "", false
}

func (p *Picker) reset() {
	p.state = Idle
	p.hovered = ""
}
