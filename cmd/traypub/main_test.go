package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shelepuginivan/trayitem"
	"github.com/shelepuginivan/trayitem/internal/inspect"
)

func TestPrintEvent(t *testing.T) {
	tests := []struct {
		name  string
		event inspect.Event
		want  string
	}{
		{
			name: "registration",
			event: inspect.Event{
				Name: trayitem.StatusNotifierWatcherInterface + ".StatusNotifierItemRegistered",
				Item: ":1.42/StatusNotifierItem",
			},
			want: "org.kde.StatusNotifierWatcher.StatusNotifierItemRegistered :1.42/StatusNotifierItem\n",
		},
		{
			name: "layout",
			event: inspect.Event{
				Sender:   ":1.42",
				Name:     trayitem.MenuInterface + ".LayoutUpdated",
				Revision: 3,
			},
			want: ":1.42 com.canonical.dbusmenu.LayoutUpdated revision 3\n",
		},
		{
			name: "properties",
			event: inspect.Event{
				Sender: ":1.42",
				Name:   trayitem.MenuInterface + ".ItemsPropertiesUpdated",
				Updated: []*inspect.UpdatedProperties{
					{NodeID: 1, Properties: map[string]any{"label": "Clicked: 1"}},
				},
			},
			want: ":1.42 com.canonical.dbusmenu.ItemsPropertiesUpdated [1] map[label:Clicked: 1]\n",
		},
		{
			name: "item",
			event: inspect.Event{
				Sender: ":1.42",
				Name:   trayitem.StatusNotifierItemInterface + ".NewIcon",
			},
			want: ":1.42 org.kde.StatusNotifierItem.NewIcon\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			printEvent(&out, tt.event)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestLoadConfig_Default(t *testing.T) {
	orig := configFile
	t.Cleanup(func() { configFile = orig })

	configFile = ""

	cfg, err := loadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "traypub", cfg.ID)
}
