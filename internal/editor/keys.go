package editor

// Shortcut is an editor action bound to a key.
type Shortcut int

const (
	ShortcutNone Shortcut = iota
	ShortcutUndo
	ShortcutRedo
	ShortcutDelete
	ShortcutRotate
	ShortcutDuplicate
	ShortcutCancel
)

// Keys maps key names, as reported by terminal and browser front-ends, to
// shortcuts.
var Keys = map[string]Shortcut{
	"ctrl+z":       ShortcutUndo,
	"ctrl+y":       ShortcutRedo,
	"ctrl+shift+z": ShortcutRedo,
	"delete":       ShortcutDelete,
	"backspace":    ShortcutDelete,
	"r":            ShortcutRotate,
	"ctrl+d":       ShortcutDuplicate,
	"esc":          ShortcutCancel,
}

// HandleKey runs the shortcut bound to key. Nothing is dispatched while a
// text input has focus, so typing never triggers edits. handled is true when
// the key is a shortcut, even if the action turned out to be a no-op.
func (s *Session) HandleKey(key string, inTextInput bool) (handled bool, err error) {
	if inTextInput {
		return false, nil
	}
	sc, ok := Keys[key]
	if !ok {
		return false, nil
	}
	return true, s.Shortcut(sc)
}

// Shortcut runs sc against the current selection.
func (s *Session) Shortcut(sc Shortcut) error {
	switch sc {
	case ShortcutUndo:
		_, err := s.Undo()
		return err
	case ShortcutRedo:
		_, err := s.Redo()
		return err
	case ShortcutCancel:
		s.Cancel()
		return nil
	}

	if s.selected == "" {
		return nil
	}
	switch sc {
	case ShortcutDelete:
		return s.DeleteItem(s.selected)
	case ShortcutRotate:
		return s.Rotate(s.selected)
	case ShortcutDuplicate:
		_, err := s.Duplicate(s.selected)
		return err
	}
	return nil
}
