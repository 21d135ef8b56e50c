package agent

import (
	"errors"
	"io"
	"strings"
	"testing"

	engine "github.com/jason-s-yu/pathgame/engine"
)

// scriptedChooser answers prompts from a fixed list, then fails with EOF.
type scriptedChooser struct {
	answers []string
	prompts []string
}

func (c *scriptedChooser) Ask(prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if len(c.answers) == 0 {
		return "", io.EOF
	}
	a := c.answers[0]
	c.answers = c.answers[1:]
	return a, nil
}

// TestNewStrategy verifies the factory.
func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy(KindA, Options{MaxStep: 2})
	if err != nil || s.Name() != "A" || s.(*PlayerA).MaxStep != 2 {
		t.Errorf("NewStrategy(A) = %v, %v", s, err)
	}
	if s, err := NewStrategy(KindB, Options{}); err != nil || s.Name() != "B" {
		t.Errorf("NewStrategy(B) = %v, %v", s, err)
	}
	if _, err := NewStrategy("C", Options{}); err == nil {
		t.Error("NewStrategy accepted unknown kind")
	}
	if _, err := NewStrategy(KindA, Options{MaxStep: -1}); err == nil {
		t.Error("NewStrategy accepted negative max step")
	}
}

// TestPlayerAMove verifies A prefers the nearest Do, else the furthest site.
func TestPlayerAMove(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		maxStep int
		want    int
	}{
		{"Do in reach", scenarioPath, 0, 3},
		{"Do out of reach", scenarioPath, 2, 2},
		{"no Do goes far", "6;::-Mo1V11::-Do1::-", 0, 3},
		{"limit of one", "6;::-Mo1V11::-Do1::-", 1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := newView(t, tc.path, 1, 0)
			got, err := (&PlayerA{MaxStep: tc.maxStep}).ChooseMove(a)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("ChooseMove = %d, want %d", got, tc.want)
			}
		})
	}
}

// TestPlayerAEmptyWindow verifies A falls back to the barrier.
func TestPlayerAEmptyWindow(t *testing.T) {
	a := newView(t, "5;::-Mo1Mo1Do1::-", 2, 1)
	applyOrFatal(t, a, Happening{Player: 0, Site: 1, Money: 10})
	got, err := (&PlayerA{MaxStep: 1}).ChooseMove(a)
	if err != nil {
		t.Fatal(err)
	}
	if got != 4 {
		t.Errorf("ChooseMove = %d, want 4", got)
	}
}

// TestPlayerADiscard verifies A gives back the card it holds most of.
func TestPlayerADiscard(t *testing.T) {
	a := newView(t, scenarioPath, 1, 0)
	if _, err := (&PlayerA{}).ChooseDiscard(a); !errors.Is(err, ErrDesync) {
		t.Errorf("empty hand err = %v", err)
	}
	a.Me().Cards = engine.CardTally{1, 0, 2, 2, 0}
	if c, err := (&PlayerA{}).ChooseDiscard(a); err != nil || c != engine.CardC {
		t.Errorf("ChooseDiscard = %v, %v; want C", c, err)
	}
}

// TestPlayerBSuggest walks B's rules in priority order.
func TestPlayerBSuggest(t *testing.T) {
	b := &PlayerB{}

	behind := newView(t, "6;::-V21Do1Mo1V11::-", 2, 0)
	behind.Players[1].Site = 4
	if got := b.Suggest(behind); got != 1 {
		t.Errorf("last player: Suggest = %d, want 1", got)
	}

	odd := newView(t, "6;::-V21Do1Mo1V11::-", 2, 0)
	if got := b.Suggest(odd); got != 3 {
		t.Errorf("odd money: Suggest = %d, want Mo at 3", got)
	}

	even := newView(t, "6;::-V21Do1Mo1V11::-", 2, 0)
	even.Me().Money = 10
	if got := b.Suggest(even); got != 2 {
		t.Errorf("even money: Suggest = %d, want Do at 2", got)
	}

	noDo := newView(t, "5;::-V11V21Mo1::-", 2, 0)
	noDo.Me().Money = 10
	if got := b.Suggest(noDo); got != 2 {
		t.Errorf("no Do: Suggest = %d, want V2 at 2", got)
	}

	plain := newView(t, "4;::-V11V11::-", 2, 0)
	if got := b.Suggest(plain); got != 1 {
		t.Errorf("fallback: Suggest = %d, want 1", got)
	}
}

// TestPlayerBChooser verifies interactive answers are taken or refused.
func TestPlayerBChooser(t *testing.T) {
	tests := []struct {
		name    string
		answer  []string
		want    int
		wantErr bool
	}{
		{"empty takes suggestion", []string{""}, 3, false},
		{"legal site", []string{"5"}, 5, false},
		{"padded answer", []string{" 2 "}, 2, false},
		{"illegal site", []string{"9"}, 0, true},
		{"not a number", []string{"go"}, 0, true},
		{"end of input", nil, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := newView(t, "6;::-V21Do1Mo1V11::-", 2, 0)
			in := &scriptedChooser{answers: tc.answer}
			got, err := (&PlayerB{Input: in}).ChooseMove(a)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("err = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("ChooseMove = %d, %v; want %d", got, err, tc.want)
			}
			if len(in.prompts) != 1 || !strings.Contains(in.prompts[0], "[1,2,3,4,5]") {
				t.Errorf("prompts = %q", in.prompts)
			}
		})
	}
}

// TestPlayerBDiscard verifies discard answers must name a held card.
func TestPlayerBDiscard(t *testing.T) {
	a := newView(t, scenarioPath, 1, 0)
	a.Me().Cards = engine.CardTally{0, 1, 0, 3, 0}

	for answer, want := range map[string]engine.Card{"": engine.CardD, "B": engine.CardB} {
		c, err := (&PlayerB{Input: &scriptedChooser{answers: []string{answer}}}).ChooseDiscard(a)
		if err != nil || c != want {
			t.Errorf("answer %q: ChooseDiscard = %v, %v; want %v", answer, c, err, want)
		}
	}
	for _, answer := range []string{"A", "BD", "z"} {
		_, err := (&PlayerB{Input: &scriptedChooser{answers: []string{answer}}}).ChooseDiscard(a)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("answer %q err = %v, want ErrInvalidInput", answer, err)
		}
	}
}

// TestLineChooser verifies prompts are written and lines read in order.
func TestLineChooser(t *testing.T) {
	var out strings.Builder
	c := NewLineChooser(strings.NewReader("2\r\n\nA"), &out)
	for _, want := range []string{"2", "", "A"} {
		got, err := c.Ask("> ")
		if err != nil || got != want {
			t.Fatalf("Ask = %q, %v; want %q", got, err, want)
		}
	}
	if _, err := c.Ask("> "); !errors.Is(err, io.EOF) {
		t.Errorf("Ask at end err = %v, want EOF", err)
	}
	if out.String() != "> > > > " {
		t.Errorf("prompts = %q", out.String())
	}
}
