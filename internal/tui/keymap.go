package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// keyMap represents key map data used by this package.
type keyMap struct {
	quit       key.Binding
	toggleHelp key.Binding
	cancel     key.Binding
	newTodo    key.Binding
	markDone   key.Binding
	details    key.Binding
	copyID     key.Binding
	reload     key.Binding
	nextField  key.Binding
	prevField  key.Binding
	submit     key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag/close")),
		newTodo:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new todo")),
		markDone:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "mark done")),
		details:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "details")),
		copyID:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
		reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		nextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		submit:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	}
}

// applyConfig applies configured key overrides to the planner bindings.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.newTodo, cfg.NewTodo, "ctrl+n", "new todo")
	configureBinding(&k.markDone, cfg.MarkDone, "x", "mark done")
	configureBinding(&k.details, cfg.Details, "i", "details")
	configureBinding(&k.copyID, cfg.CopyID, "y", "copy id")
}

// configureBinding replaces one binding's keys and help text.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, help := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// parseBindingKeys turns one configured key string into key matchers plus help text.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	if strings.EqualFold(raw, "space") {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		if unicode.IsUpper(r) {
			return []string{raw, "shift+" + string(unicode.ToLower(r))}, raw
		}
		return []string{raw}, raw
	}
	return []string{strings.ToLower(raw)}, raw
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.newTodo, k.details, k.markDone, k.copyID, k.toggleHelp, k.quit}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.newTodo, k.details, k.markDone, k.copyID, k.reload},
		{k.cancel, k.toggleHelp, k.quit},
		{k.nextField, k.prevField, k.submit},
	}
}
