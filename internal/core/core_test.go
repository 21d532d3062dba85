package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/model"
)

func testItems() []display.Item {
	layout := display.DefaultLayout()
	ns := []model.Notification{
		{ID: "notification-01JAAA", Type: model.TypeError, Title: "Build failed", Description: "exit status 2"},
		{ID: "notification-01JAAB", Type: model.TypeSuccess, Title: "Saved"},
		{ID: "notification-01JBCD", Type: model.TypeWarning, Title: "Low fuel", Description: "Refuel at the next BUILD site"},
	}
	items := make([]display.Item, len(ns))
	for i, n := range ns {
		items[i] = display.Item{Notification: n, Placement: layout.Place(i)}
	}
	return items
}

func TestLookupByID(t *testing.T) {
	items := testItems()

	it, ok := LookupByID(items, "notification-01JAAB")
	require.True(t, ok)
	assert.Equal(t, "Saved", it.Notification.Title)

	_, ok = LookupByID(items, "notification-missing")
	assert.False(t, ok)
}

func TestLookupByIndex(t *testing.T) {
	items := testItems()

	it, ok := LookupByIndex(items, 0)
	require.True(t, ok)
	assert.Equal(t, "Build failed", it.Notification.Title)

	_, ok = LookupByIndex(items, 3)
	assert.False(t, ok)
	_, ok = LookupByIndex(items, -1)
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	items := testItems()

	tests := []struct {
		name    string
		ref     string
		title   string
		wantErr error
	}{
		{"index", "2", "Low fuel", nil},
		{"full id", "notification-01JAAA", "Build failed", nil},
		{"prefix", "01JB", "Low fuel", nil},
		{"prefixed prefix", "notification-01jaab", "Saved", nil},
		{"ambiguous", "01JAA", "", ErrAmbiguous},
		{"missing", "01JZ", "", ErrNotFound},
		{"bad index", "7", "", ErrNotFound},
		{"empty", " ", "", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := Resolve(items, tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.title, it.Notification.Title)
		})
	}
}

func TestSearch(t *testing.T) {
	items := testItems()

	assert.Len(t, Search(items, ""), 3)

	found := Search(items, "build")
	require.Len(t, found, 2)
	assert.Equal(t, "Build failed", found[0].Notification.Title)
	assert.Equal(t, "Low fuel", found[1].Notification.Title)
}

func TestParseTypes(t *testing.T) {
	types, err := ParseTypes("error, Warning")
	require.NoError(t, err)
	assert.Equal(t, []model.Type{model.TypeError, model.TypeWarning}, types)

	types, err = ParseTypes("")
	require.NoError(t, err)
	assert.Nil(t, types)

	_, err = ParseTypes("error,critical")
	assert.ErrorContains(t, err, "critical")
}

func TestFilter(t *testing.T) {
	items := testItems()

	tests := []struct {
		name   string
		opts   FilterOptions
		titles []string
	}{
		{"all", FilterOptions{}, []string{"Build failed", "Saved", "Low fuel"}},
		{"types", FilterOptions{Types: []model.Type{model.TypeSuccess, model.TypeWarning}}, []string{"Saved", "Low fuel"}},
		{"side", FilterOptions{Side: display.SideLeft}, []string{"Saved"}},
		{"search", FilterOptions{Search: "fuel"}, []string{"Low fuel"}},
		{"limit", FilterOptions{Limit: 2}, []string{"Build failed", "Saved"}},
		{"none", FilterOptions{Types: []model.Type{model.TypeInfo}}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(items, tt.opts)
			titles := make([]string, len(got))
			for i, it := range got {
				titles[i] = it.Notification.Title
			}
			assert.Equal(t, tt.titles, titles)
		})
	}
}

func TestFilterFrame(t *testing.T) {
	f := display.Frame{Visible: true, Items: testItems()}
	out := FilterFrame(f, FilterOptions{Types: []model.Type{model.TypeError}})
	assert.True(t, out.Visible)
	assert.Len(t, out.Items, 1)
	assert.Len(t, f.Items, 3)
}
