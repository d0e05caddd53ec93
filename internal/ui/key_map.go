package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings for each view; list navigation keys come from [list.Model].
type keyMap struct {
	pick    key.Binding // playlist list
	shuffle key.Binding // item list
	confirm key.Binding
	cancel  key.Binding
	back    key.Binding
	again   key.Binding // result view
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		pick:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show items")),
		shuffle: key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("enter/s", "shuffle")),
		confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "shuffle now")),
		cancel:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "cancel")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		again:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "another playlist")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) playlistHelp() []key.Binding { return []key.Binding{k.pick, k.quit} }
func (k keyMap) itemHelp() []key.Binding     { return []key.Binding{k.shuffle, k.back, k.quit} }
func (k keyMap) confirmHelp() []key.Binding  { return []key.Binding{k.confirm, k.cancel} }
func (k keyMap) resultHelp() []key.Binding   { return []key.Binding{k.again, k.quit} }
