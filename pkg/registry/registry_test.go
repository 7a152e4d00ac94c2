package registry_test

import (
	"errors"
	"testing"

	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/registry"
)

// fakeSpecialty is a minimal fixture; the node factories are never exercised
// by the registry itself.
type fakeSpecialty struct {
	name     string
	triggers []string
}

func (f *fakeSpecialty) Name() string             { return f.name }
func (f *fakeSpecialty) TriggerPhrases() []string { return f.triggers }
func (f *fakeSpecialty) AssessmentNode() *domain.Node {
	return nil
}
func (f *fakeSpecialty) TransitionNode(message string) *domain.Node {
	return nil
}

func TestRegisterDuplicate(t *testing.T) {
	reg := registry.New()

	if err := reg.Register(&fakeSpecialty{name: "cardiac"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	err := reg.Register(&fakeSpecialty{name: "cardiac"})
	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Register() duplicate = %v, want *ConfigError", err)
	}
}

func TestRegisterEmptyName(t *testing.T) {
	reg := registry.New()
	var cfgErr *domain.ConfigError
	if err := reg.Register(&fakeSpecialty{}); !errors.As(err, &cfgErr) {
		t.Fatalf("Register() empty name = %v, want *ConfigError", err)
	}
}

func TestMatchCaseInsensitiveSubstring(t *testing.T) {
	reg := registry.New()
	cardiac := &fakeSpecialty{name: "cardiac", triggers: []string{"chest pain", "Angina"}}
	if err := reg.Register(cardiac); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		complaint string
		want      bool
	}{
		{"I have CHEST PAIN when climbing stairs", true},
		{"my doctor mentioned angina", true},
		{"chest pain", true},
		{"my chest hurts", false},
		{"", false},
	}

	for _, tt := range tests {
		got := reg.Match(tt.complaint)
		if (got != nil) != tt.want {
			t.Errorf("Match(%q) = %v, want match=%v", tt.complaint, got, tt.want)
		}
	}
}

func TestMatchFirstRegisteredWins(t *testing.T) {
	reg := registry.New()
	first := &fakeSpecialty{name: "cardiac", triggers: []string{"pain"}}
	second := &fakeSpecialty{name: "respiratory", triggers: []string{"chest pain"}}
	if err := reg.Register(first); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(second); err != nil {
		t.Fatal(err)
	}

	// Both match; registration order breaks the tie, not phrase specificity.
	got := reg.Match("chest pain for two days")
	if got == nil || got.Name() != first.Name() {
		t.Errorf("Match() = %v, want first registered", got)
	}
}

func TestMatchNoEntryFallsThrough(t *testing.T) {
	reg := registry.New()
	if got := reg.Match("headache"); got != nil {
		t.Errorf("Match() on empty registry = %v, want nil", got)
	}
}

func TestNamesPreserveOrder(t *testing.T) {
	reg := registry.New()
	for _, name := range []string{"b", "a", "c"} {
		if err := reg.Register(&fakeSpecialty{name: name}); err != nil {
			t.Fatal(err)
		}
	}

	names := reg.Names()
	if len(names) != 3 || names[0] != "b" || names[1] != "a" || names[2] != "c" {
		t.Errorf("Names() = %v, want registration order", names)
	}
}
