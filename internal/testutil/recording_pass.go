// Package testutil provides shared test helpers for the selekt project.
package testutil

import (
	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/nodes"
	"github.com/bawdo/selekt/sqltypes"
)

// EventKind identifies a call made on a RecordingPass.
type EventKind int

const (
	EventSQL EventKind = iota
	EventIdentifier
	EventBind
)

// Event is one recorded pass call.
type Event struct {
	Kind  EventKind
	Text  string // SQL text or identifier name
	Value any    // bound value
	Type  sqltypes.SQLType
}

// RecordingPass implements nodes.Pass by recording every call, so tests can
// assert on the exact sequence a fragment produces.
type RecordingPass struct {
	B      backend.Backend
	Events []Event

	// FailBinds makes PushBindParam return this error when non-nil.
	FailBinds error
}

var _ nodes.Pass = (*RecordingPass)(nil)

func (p *RecordingPass) Backend() backend.Backend { return p.B }

func (p *RecordingPass) PushSQL(sql string) {
	p.Events = append(p.Events, Event{Kind: EventSQL, Text: sql})
}

func (p *RecordingPass) PushIdentifier(name string) {
	p.Events = append(p.Events, Event{Kind: EventIdentifier, Text: name})
}

func (p *RecordingPass) PushBindParam(value any, t sqltypes.SQLType) error {
	if p.FailBinds != nil {
		return p.FailBinds
	}
	p.Events = append(p.Events, Event{Kind: EventBind, Value: value, Type: t})
	return nil
}

// Binds returns the recorded bind values in order.
func (p *RecordingPass) Binds() []any {
	var out []any
	for _, e := range p.Events {
		if e.Kind == EventBind {
			out = append(out, e.Value)
		}
	}
	return out
}

// Identifiers returns the recorded identifier names in order.
func (p *RecordingPass) Identifiers() []string {
	var out []string
	for _, e := range p.Events {
		if e.Kind == EventIdentifier {
			out = append(out, e.Text)
		}
	}
	return out
}
