package skill

import (
	"errors"
	"testing"
)

func TestParseProficiency(t *testing.T) {
	tests := []struct {
		in   string
		want Proficiency
	}{
		{"Awareness", Awareness},
		{"knowledge", Knowledge},
		{" SKILL ", Skilled},
		{"skilled", Skilled},
		{"mastery", Mastery},
	}
	for _, tt := range tests {
		got, err := ParseProficiency(tt.in)
		if err != nil {
			t.Errorf("ParseProficiency(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseProficiency(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseProficiency_Unknown(t *testing.T) {
	_, err := ParseProficiency("guru")
	if !errors.Is(err, ErrUnknownProficiency) {
		t.Fatalf("err = %v, want ErrUnknownProficiency", err)
	}
}

func TestProficiencyOrdering(t *testing.T) {
	all := AllProficiencies()
	for i := 1; i < len(all); i++ {
		if all[i-1] >= all[i] {
			t.Errorf("%v should rank below %v", all[i-1], all[i])
		}
	}
}

func TestProficiencyText(t *testing.T) {
	b, err := Mastery.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "mastery" {
		t.Errorf("MarshalText = %q, want mastery", b)
	}

	var p Proficiency
	if err := p.UnmarshalText([]byte("Knowledge")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p != Knowledge {
		t.Errorf("UnmarshalText = %v, want Knowledge", p)
	}

	if _, err := Proficiency(9).MarshalText(); err == nil {
		t.Error("expected error for invalid proficiency")
	}
}
