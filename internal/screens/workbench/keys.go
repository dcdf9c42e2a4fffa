package workbench

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Run        key.Binding
	Submit     key.Binding
	Format     key.Binding
	Copy       key.Binding
	Download   key.Binding
	Clear      key.Binding
	Restore    key.Binding
	Theme      key.Binding
	Minimap    key.Binding
	Wrap       key.Binding
	FontUp     key.Binding
	FontDown   key.Binding
	Fullscreen key.Binding
	Star       key.Binding
	Notes      key.Binding
	Help       key.Binding
	Back       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Run:        key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "run")),
		Submit:     key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "submit")),
		Format:     key.NewBinding(key.WithKeys("alt+i"), key.WithHelp("alt+i", "format")),
		Copy:       key.NewBinding(key.WithKeys("alt+y"), key.WithHelp("alt+y", "copy")),
		Download:   key.NewBinding(key.WithKeys("alt+o"), key.WithHelp("alt+o", "download")),
		Clear:      key.NewBinding(key.WithKeys("alt+x"), key.WithHelp("alt+x", "clear editor")),
		Restore:    key.NewBinding(key.WithKeys("alt+z"), key.WithHelp("alt+z", "starter code")),
		Theme:      key.NewBinding(key.WithKeys("alt+t"), key.WithHelp("alt+t", "theme")),
		Minimap:    key.NewBinding(key.WithKeys("alt+m"), key.WithHelp("alt+m", "minimap")),
		Wrap:       key.NewBinding(key.WithKeys("alt+w"), key.WithHelp("alt+w", "word wrap")),
		FontUp:     key.NewBinding(key.WithKeys("alt+="), key.WithHelp("alt+=", "font +")),
		FontDown:   key.NewBinding(key.WithKeys("alt+-"), key.WithHelp("alt+-", "font -")),
		Fullscreen: key.NewBinding(key.WithKeys("f11", "alt+enter"), key.WithHelp("f11", "fullscreen")),
		Star:       key.NewBinding(key.WithKeys("alt+s"), key.WithHelp("alt+s", "star")),
		Notes:      key.NewBinding(key.WithKeys("alt+n"), key.WithHelp("alt+n", "notes")),
		Help:       key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Submit, k.Fullscreen, k.Help, k.Back}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Run, k.Submit, k.Restore, k.Clear},
		{k.Format, k.Copy, k.Download, k.Fullscreen},
		{k.Theme, k.Minimap, k.Wrap, k.FontUp, k.FontDown},
		{k.Star, k.Notes, k.Help, k.Back},
	}
}
