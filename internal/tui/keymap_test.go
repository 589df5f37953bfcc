package tui

import (
	"testing"

	"charm.land/bubbles/v2/key"
)

// TestParseBindingKeys verifies key parsing behavior for configured overrides.
func TestParseBindingKeys(t *testing.T) {
	t.Run("space aliases", func(t *testing.T) {
		keys, help := parseBindingKeys("space", ".")
		if len(keys) != 2 || keys[0] != " " || keys[1] != "space" {
			t.Fatalf("unexpected parsed space keys %#v", keys)
		}
		if help != "space" {
			t.Fatalf("unexpected space help text %q", help)
		}
	})

	t.Run("uppercase rune includes shift alias", func(t *testing.T) {
		keys, help := parseBindingKeys("X", "x")
		if len(keys) != 2 || keys[0] != "X" || keys[1] != "shift+x" {
			t.Fatalf("unexpected uppercase parsed keys %#v", keys)
		}
		if help != "X" {
			t.Fatalf("unexpected uppercase help text %q", help)
		}
	})

	t.Run("multi rune lowercases key matcher", func(t *testing.T) {
		keys, help := parseBindingKeys("Ctrl+N", "n")
		if len(keys) != 1 || keys[0] != "ctrl+n" {
			t.Fatalf("unexpected multi-rune parsed keys %#v", keys)
		}
		if help != "Ctrl+N" {
			t.Fatalf("unexpected multi-rune help text %q", help)
		}
	})

	t.Run("blank uses fallback", func(t *testing.T) {
		keys, help := parseBindingKeys("  ", "y")
		if len(keys) != 1 || keys[0] != "y" {
			t.Fatalf("unexpected fallback parsed keys %#v", keys)
		}
		if help != "y" {
			t.Fatalf("unexpected fallback help text %q", help)
		}
	})
}

// TestConfigureBinding verifies binding override application behavior.
func TestConfigureBinding(t *testing.T) {
	b := key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "old"))
	configureBinding(&b, "d", "x", "mark done")
	keys := b.Keys()
	if len(keys) != 1 || keys[0] != "d" {
		t.Fatalf("unexpected configured keys %#v", keys)
	}
	if b.Help().Key != "d" || b.Help().Desc != "mark done" {
		t.Fatalf("unexpected configured help %#v", b.Help())
	}
}

// TestKeyMapApplyConfig verifies dynamic key map override behavior.
func TestKeyMapApplyConfig(t *testing.T) {
	k := newKeyMap()
	k.applyConfig(KeyConfig{
		NewTodo:  "ctrl+t",
		MarkDone: "D",
		Details:  "",
		CopyID:   "c",
	})

	assertKeys := func(name string, binding key.Binding, expected ...string) {
		t.Helper()
		got := binding.Keys()
		if len(got) != len(expected) {
			t.Fatalf("%s key count mismatch got=%#v expected=%#v", name, got, expected)
		}
		for i := range expected {
			if got[i] != expected[i] {
				t.Fatalf("%s key mismatch got=%#v expected=%#v", name, got, expected)
			}
		}
	}

	assertKeys("new todo", k.newTodo, "ctrl+t")
	assertKeys("mark done", k.markDone, "D", "shift+d")
	assertKeys("details", k.details, "i")
	assertKeys("copy id", k.copyID, "c")
}
