package rules

import (
	"errors"
	"testing"
)

func TestChessEngine_Move(t *testing.T) {
	t.Run("legal opening move", func(t *testing.T) {
		eng := NewChessEngine()

		san, err := eng.Move("e2", "e4", "")
		if err != nil {
			t.Fatalf("Failed to apply e2-e4: %v", err)
		}
		if san != "e4" {
			t.Errorf("Expected SAN 'e4', got %q", san)
		}
		if eng.Turn() != Black {
			t.Errorf("Expected black to move after e4, got %s", eng.Turn())
		}
	})

	t.Run("illegal move is rejected", func(t *testing.T) {
		eng := NewChessEngine()
		before := eng.FEN()

		_, err := eng.Move("e2", "e5", "")
		if !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("Expected ErrIllegalMove, got %v", err)
		}
		if eng.FEN() != before {
			t.Error("Rejected move must not change the position")
		}
		if eng.Turn() != White {
			t.Error("Rejected move must not change the side to move")
		}
	})

	t.Run("unknown promotion piece", func(t *testing.T) {
		eng := NewChessEngine()
		_, err := eng.Move("e2", "e4", "king")
		if !errors.Is(err, ErrIllegalMove) {
			t.Errorf("Expected ErrIllegalMove for bad promotion, got %v", err)
		}
	})

	t.Run("default promotion ignored on normal moves", func(t *testing.T) {
		eng := NewChessEngine()
		if _, err := eng.Move("e2", "e4", "queen"); err != nil {
			t.Fatalf("Promotion hint on a normal move should be ignored: %v", err)
		}
	})
}

// promotionReady plays the white b-pawn up to b7 so the next white move
// can promote by capturing the a8 rook.
func promotionReady(t *testing.T) Engine {
	t.Helper()
	eng := NewChessEngine()
	moves := [][2]string{
		{"b2", "b4"}, {"a7", "a5"},
		{"b4", "a5"}, {"h7", "h6"},
		{"a5", "a6"}, {"h6", "h5"},
		{"a6", "b7"}, {"h5", "h4"},
	}
	for _, mv := range moves {
		if _, err := eng.Move(mv[0], mv[1], ""); err != nil {
			t.Fatalf("Setup move %s-%s failed: %v", mv[0], mv[1], err)
		}
	}
	return eng
}

func TestChessEngine_Promotion(t *testing.T) {
	t.Run("defaults to queen", func(t *testing.T) {
		eng := promotionReady(t)

		san, err := eng.Move("b7", "a8", "")
		if err != nil {
			t.Fatalf("Default promotion failed: %v", err)
		}
		if san != "bxa8=Q" {
			t.Errorf("Expected SAN 'bxa8=Q', got %q", san)
		}
		if eng.Turn() != Black {
			t.Errorf("Expected black to move after promotion, got %s", eng.Turn())
		}
	})

	t.Run("explicit underpromotion", func(t *testing.T) {
		eng := promotionReady(t)

		san, err := eng.Move("b7", "a8", "knight")
		if err != nil {
			t.Fatalf("Knight promotion failed: %v", err)
		}
		if san != "bxa8=N" {
			t.Errorf("Expected SAN 'bxa8=N', got %q", san)
		}
	})
}

func TestChessEngine_Turn(t *testing.T) {
	eng := NewChessEngine()

	if eng.Turn() != White {
		t.Fatalf("Expected white to move first, got %s", eng.Turn())
	}

	moves := [][2]string{{"e2", "e4"}, {"e7", "e5"}, {"g1", "f3"}}
	expected := []Color{Black, White, Black}

	for i, mv := range moves {
		if _, err := eng.Move(mv[0], mv[1], ""); err != nil {
			t.Fatalf("Move %d failed: %v", i, err)
		}
		if eng.Turn() != expected[i] {
			t.Errorf("After move %d expected turn %s, got %s", i, expected[i], eng.Turn())
		}
	}
}

func TestChessEngine_History(t *testing.T) {
	eng := NewChessEngine()

	eng.Move("e2", "e4", "")
	eng.Move("e7", "e5", "")
	eng.Move("g1", "f3", "")

	history := eng.History()
	want := []string{"e4", "e5", "Nf3"}
	if len(history) != len(want) {
		t.Fatalf("Expected %d history entries, got %d", len(want), len(history))
	}
	for i := range want {
		if history[i] != want[i] {
			t.Errorf("History[%d]: expected %q, got %q", i, want[i], history[i])
		}
	}
}

func TestChessEngine_Terminal(t *testing.T) {
	t.Run("not terminal at start", func(t *testing.T) {
		eng := NewChessEngine()
		if _, over := eng.Terminal(); over {
			t.Error("Starting position must not be terminal")
		}
	})

	t.Run("fools mate is checkmate for black", func(t *testing.T) {
		eng := NewChessEngine()
		moves := [][2]string{{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}, {"d8", "h4"}}
		for _, mv := range moves {
			if _, err := eng.Move(mv[0], mv[1], ""); err != nil {
				t.Fatalf("Move %s-%s failed: %v", mv[0], mv[1], err)
			}
		}

		term, over := eng.Terminal()
		if !over {
			t.Fatal("Expected terminal position after fool's mate")
		}
		if term.Winner != Black {
			t.Errorf("Expected black to win, got %q", term.Winner)
		}
		if term.Reason != ReasonCheckmate {
			t.Errorf("Expected checkmate reason, got %q", term.Reason)
		}
	})
}

func TestColor_Opponent(t *testing.T) {
	if White.Opponent() != Black {
		t.Error("Expected opponent of white to be black")
	}
	if Black.Opponent() != White {
		t.Error("Expected opponent of black to be white")
	}
}
