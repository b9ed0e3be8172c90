package deck

import (
	"math/rand"
	"testing"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	d := New(nil)
	if d.CardsRemaining() != 52 {
		t.Fatalf("expected 52 cards, got %d", d.CardsRemaining())
	}

	seen := make(map[Card]bool)
	for !d.IsEmpty() {
		card, ok := d.Deal()
		if !ok {
			t.Fatal("deal failed on non-empty deck")
		}
		if seen[card] {
			t.Errorf("duplicate card dealt: %s", card)
		}
		seen[card] = true
	}

	if len(seen) != 52 {
		t.Errorf("expected 52 unique cards, got %d", len(seen))
	}
}

func TestDeckShrinksMonotonically(t *testing.T) {
	d := New(rand.New(rand.NewSource(1)))
	d.Shuffle()

	prev := d.CardsRemaining()
	for i := 0; i < 10; i++ {
		if _, ok := d.Deal(); !ok {
			t.Fatal("unexpected empty deck")
		}
		if d.CardsRemaining() != prev-1 {
			t.Fatalf("expected %d remaining, got %d", prev-1, d.CardsRemaining())
		}
		prev = d.CardsRemaining()
	}
}

func TestResetRestoresFullDeck(t *testing.T) {
	d := New(rand.New(rand.NewSource(2)))
	d.DealN(20)
	if d.CardsRemaining() != 32 {
		t.Fatalf("expected 32 remaining, got %d", d.CardsRemaining())
	}

	d.Reset()
	if d.CardsRemaining() != 52 {
		t.Fatalf("expected 52 after reset, got %d", d.CardsRemaining())
	}

	seen := make(map[Card]bool)
	for _, c := range d.DealN(52) {
		if seen[c] {
			t.Errorf("duplicate card after reset: %s", c)
		}
		seen[c] = true
	}
}

func TestShuffleIsDeterministicWithSeed(t *testing.T) {
	d1 := New(rand.New(rand.NewSource(42)))
	d2 := New(rand.New(rand.NewSource(42)))
	d1.Shuffle()
	d2.Shuffle()

	for i := 0; i < 52; i++ {
		c1, _ := d1.Deal()
		c2, _ := d2.Deal()
		if c1 != c2 {
			t.Fatalf("card %d differs: %s vs %s", i, c1, c2)
		}
	}
}

func TestDealFromEmptyDeck(t *testing.T) {
	d := New(rand.New(rand.NewSource(3)))
	d.DealN(52)

	if _, ok := d.Deal(); ok {
		t.Error("expected deal from empty deck to fail")
	}
	if _, ok := d.Peek(); ok {
		t.Error("expected peek on empty deck to fail")
	}
}

func TestParseRank(t *testing.T) {
	tests := []struct {
		in   byte
		want Rank
	}{
		{'2', Two},
		{'9', Nine},
		{'T', Ten},
		{'J', Jack},
		{'Q', Queen},
		{'K', King},
		{'A', Ace},
		{'X', 0},
		{'1', 0},
	}

	for _, tt := range tests {
		if got := ParseRank(tt.in); got != tt.want {
			t.Errorf("ParseRank(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCardString(t *testing.T) {
	c := NewCard(Spades, Ace)
	if c.String() != "A♠" {
		t.Errorf("expected A♠, got %s", c)
	}
	if !c.IsAce() {
		t.Error("expected ace")
	}

	ten := NewCard(Hearts, Ten)
	if ten.String() != "T♥" {
		t.Errorf("expected T♥, got %s", ten)
	}
	if !ten.IsRed() {
		t.Error("expected hearts to be red")
	}
}

func TestParseCards(t *testing.T) {
	cards, err := ParseCards("AsKdTh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Card{
		NewCard(Spades, Ace),
		NewCard(Diamonds, King),
		NewCard(Hearts, Ten),
	}
	if len(cards) != len(want) {
		t.Fatalf("expected %d cards, got %d", len(want), len(cards))
	}
	for i := range want {
		if cards[i] != want[i] {
			t.Errorf("card %d: expected %s, got %s", i, want[i], cards[i])
		}
	}
}

func TestParseCardsLowercaseRanks(t *testing.T) {
	cards, err := ParseCards("as")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cards[0] != NewCard(Spades, Ace) {
		t.Errorf("expected A♠, got %s", cards[0])
	}
}

func TestParseCardsRejectsMalformed(t *testing.T) {
	for _, in := range []string{"A", "AsK", "Xs", "A♠", "1s"} {
		if _, err := ParseCards(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}
