package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/godbus/dbus/v5"
)

// LayoutNode is a decoded com.canonical.dbusmenu layout entry.
type LayoutNode struct {
	ID         int32
	Properties map[string]any
	Children   []*LayoutNode
}

// NewLayoutNode decodes a (ia{sv}av) layout node.
func NewLayoutNode(data any) (*LayoutNode, error) {
	arr, ok := data.([]any)
	if !ok || len(arr) != 3 {
		return nil, fmt.Errorf("menu node: invalid format")
	}

	id, ok := arr[0].(int32)
	if !ok {
		return nil, fmt.Errorf("menu node: invalid id")
	}

	props, ok := arr[1].(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("menu node: invalid props")
	}

	children, ok := arr[2].([]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("menu node: invalid children")
	}

	root := &LayoutNode{
		ID:         id,
		Properties: make(map[string]any, len(props)),
		Children:   make([]*LayoutNode, 0, len(children)),
	}

	for key, value := range props {
		root.Properties[key] = value.Value()
	}

	for _, child := range children {
		childNode, err := NewLayoutNode(child.Value())
		if err != nil {
			continue
		}

		root.Children = append(root.Children, childNode)
	}

	return root, nil
}

// Label returns the label property, or an empty string.
func (n *LayoutNode) Label() string {
	label, _ := n.Properties["label"].(string)
	return label
}

// IsSeparator reports whether the node is a separator.
func (n *LayoutNode) IsSeparator() bool {
	return n.Properties["type"] == "separator"
}

// Enabled reports the enabled property, which defaults to true.
func (n *LayoutNode) Enabled() bool {
	enabled, ok := n.Properties["enabled"].(bool)
	return !ok || enabled
}

// Visible reports the visible property, which defaults to true.
func (n *LayoutNode) Visible() bool {
	visible, ok := n.Properties["visible"].(bool)
	return !ok || visible
}

// Print writes an indented outline of the node and its children.
func (n *LayoutNode) Print(w io.Writer) {
	n.print(w, 0)
}

func (n *LayoutNode) print(w io.Writer, depth int) {
	indent := strings.Repeat("  ", depth)

	switch {
	case depth == 0:
		fmt.Fprintf(w, "%s[%d] (root)\n", indent, n.ID)
	case n.IsSeparator():
		fmt.Fprintf(w, "%s[%d] ----\n", indent, n.ID)
	default:
		var flags []string
		if !n.Enabled() {
			flags = append(flags, "disabled")
		}
		if !n.Visible() {
			flags = append(flags, "hidden")
		}

		if len(flags) > 0 {
			fmt.Fprintf(w, "%s[%d] %s (%s)\n", indent, n.ID, n.Label(), strings.Join(flags, ", "))
		} else {
			fmt.Fprintf(w, "%s[%d] %s\n", indent, n.ID, n.Label())
		}
	}

	for _, child := range n.Children {
		child.print(w, depth+1)
	}
}
