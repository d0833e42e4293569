package ordering

import "github.com/Vikas-Kain/TalentFlow/internal/hiring"

// Column is one pipeline stage and the candidate ids shown in it.
type Column struct {
	Stage hiring.Stage
	Cards []string
}

// Board is the pipeline: one column per stage.
type Board []Column

// NewBoard groups candidates into one column per stage, in pipeline order.
func NewBoard(candidates []hiring.Candidate) Board {
	b := make(Board, len(hiring.Stages))
	for i, st := range hiring.Stages {
		b[i] = Column{Stage: st, Cards: []string{}}
	}
	for _, c := range candidates {
		if i := c.Stage.Index(); i >= 0 {
			b[i].Cards = append(b[i].Cards, c.ID)
		}
	}
	return b
}

// Drop is a released drag: the dragged card and whatever it was released
// over, which may be a column id (a stage) or another card.
type Drop struct {
	ActiveID string
	OverID   string
}

// StageTransition is the persisted effect of a drop between columns.
type StageTransition struct {
	CandidateID string
	From        hiring.Stage
	To          hiring.Stage
}

// Source returns the column holding the dragged card.
func Source(b Board, activeID string) (hiring.Stage, bool) {
	for _, col := range b {
		for _, id := range col.Cards {
			if id == activeID {
				return col.Stage, true
			}
		}
	}
	return "", false
}

// Destination resolves the column a drop landed in. overID may name a column
// directly or a card, in which case the column owning that card is used.
func Destination(b Board, overID string) (hiring.Stage, bool) {
	for _, col := range b {
		if string(col.Stage) == overID {
			return col.Stage, true
		}
	}
	return Source(b, overID)
}

// ResolveStageMove computes the transition for a drop. ok is false when the
// drop cannot be resolved or stays in its column, which is not persisted.
func ResolveStageMove(b Board, d Drop) (StageTransition, bool) {
	from, ok := Source(b, d.ActiveID)
	if !ok {
		return StageTransition{}, false
	}
	to, ok := Destination(b, d.OverID)
	if !ok || to == from {
		return StageTransition{}, false
	}
	return StageTransition{CandidateID: d.ActiveID, From: from, To: to}, true
}

// Apply returns a copy of the board with the transition's card moved to the
// end of its destination column.
func (b Board) Apply(t StageTransition) Board {
	out := make(Board, len(b))
	for i, col := range b {
		cards := make([]string, 0, len(col.Cards)+1)
		for _, id := range col.Cards {
			if id != t.CandidateID {
				cards = append(cards, id)
			}
		}
		if col.Stage == t.To {
			cards = append(cards, t.CandidateID)
		}
		out[i] = Column{Stage: col.Stage, Cards: cards}
	}
	return out
}
