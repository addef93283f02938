package trayitem

import (
	"fmt"
	"slices"
)

// MenuItem is an entry of the tray menu. Entries are attached directly to the
// root node; nested submenus are not supported.
type MenuItem struct {
	// Unique identifier of the entry. ID 0 is reserved for the root node.
	ID int32

	Label       string
	Enabled     bool
	Visible     bool
	IsSeparator bool
}

// menuStore holds the menu entries and the revision of the layout. It is not
// safe for concurrent use; [Tray] guards it with its mutex.
type menuStore struct {
	items    []MenuItem
	revision uint32
}

func newMenuStore() *menuStore {
	return &menuStore{revision: 1}
}

// ValidateMenu checks that item IDs are unique and do not use the root ID 0.
// [Tray.SetMenu] rejects menus that fail this check.
func ValidateMenu(items []MenuItem) error {
	seen := make(map[int32]struct{}, len(items))

	for _, item := range items {
		if item.ID == 0 {
			return fmt.Errorf("%w: item %q uses reserved id 0", ErrInvalidMenu, item.Label)
		}

		if _, exists := seen[item.ID]; exists {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidMenu, item.ID)
		}

		seen[item.ID] = struct{}{}
	}

	return nil
}

// replace replaces all entries and returns the new revision.
func (s *menuStore) replace(items []MenuItem) uint32 {
	s.items = slices.Clone(items)
	s.revision++

	return s.revision
}

// setLabel updates label of the entry with the given ID. It reports false and
// leaves the store untouched if there is no such entry.
func (s *menuStore) setLabel(id int32, label string) (uint32, bool) {
	idx := slices.IndexFunc(s.items, func(item MenuItem) bool {
		return item.ID == id
	})
	if idx < 0 {
		return s.revision, false
	}

	s.items[idx].Label = label
	s.revision++

	return s.revision, true
}

// selected returns entries with the given IDs in menu order. All entries are
// returned if ids is empty.
func (s *menuStore) selected(ids []int32) []MenuItem {
	if len(ids) == 0 {
		return slices.Clone(s.items)
	}

	items := make([]MenuItem, 0, len(ids))

	for _, item := range s.items {
		if slices.Contains(ids, item.ID) {
			items = append(items, item)
		}
	}

	return items
}
