package events

import "testing"

func TestNilPublisherIsNoOp(t *testing.T) {
	var p *Publisher

	// Must not panic.
	p.Publish(SubjectTurnCompleted, TurnCompleted{TurnID: "t1", Status: "ok"})
	p.Close()
}
