package board

import "encoding/json"

// Target is an optional square, used for the en-passant target and for
// "last move landed here" hints.
type Target struct {
	square Position
	valid  bool
}

func NewTarget(p Position) Target { return Target{square: p, valid: true} }

func NoTarget() Target { return Target{} }

func (t Target) Square() (Position, bool) { return t.square, t.valid }

func (t Target) Valid() bool { return t.valid }

func (t Target) Is(p Position) bool { return t.valid && t.square == p }

func (t Target) MarshalJSON() ([]byte, error) {
	if !t.valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.square)
}

func (t *Target) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Target{}
		return nil
	}
	var p Position
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = NewTarget(p)
	return nil
}
