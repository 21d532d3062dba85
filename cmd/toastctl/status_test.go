package main

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastd/internal/config"
	"github.com/jmylchreest/toastd/internal/daemon"
	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/host"
	"github.com/jmylchreest/toastd/internal/httpapi"
	"github.com/jmylchreest/toastd/internal/model"
)

func item(typ model.Type, title string) display.Item {
	var it display.Item
	it.Notification.Type = typ
	it.Notification.Title = title
	return it
}

func TestGenerateStatus(t *testing.T) {
	assert.Equal(t, WaybarStatus{Alt: "empty", Class: "empty"}, generateStatus(display.Frame{}))

	f := display.Frame{Items: []display.Item{
		item(model.TypeInfo, "Newest"),
		item(model.TypeWarning, "Careful"),
		item(model.TypeWarning, "Again"),
	}}
	s := generateStatus(f)
	assert.Equal(t, "3", s.Text)
	assert.Equal(t, "warning", s.Class)
	assert.Equal(t, 30, s.Percentage)
	assert.Equal(t, "3 active\nwarning: 2\ninfo: 1\nLatest: Newest", s.Tooltip)
}

func TestLastField(t *testing.T) {
	assert.Equal(t, "notification-01", lastField("0 | error | 3 seconds | Build failed | notification-01"))
	assert.Equal(t, "notification-02", lastField("notification-02"))
	assert.Equal(t, "", lastField("  "))
}

func TestBuildPayload(t *testing.T) {
	defer func(saved bool) { sendOpts.json = saved }(sendOpts.json)

	sendOpts.typ = "error"
	sendOpts.description = "boom"
	p, err := buildPayload([]string{"Failed"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Payload{Type: "error", Title: "Failed", Description: "boom"}, p)

	sendOpts.json = true
	p, err = buildPayload(nil, strings.NewReader(`{"type":"success","title":"Saved","expiry":900}`))
	require.NoError(t, err)
	assert.Equal(t, int64(900), p.Expiry)
	assert.Equal(t, "Saved", p.Title)
}

func TestRemoteBackend(t *testing.T) {
	sched := display.NewManualScheduler(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	d := daemon.New(daemon.Options{Config: config.DefaultConfig(), Scheduler: sched})
	defer d.Close()

	srv := httptest.NewServer(httpapi.NewRouter(d, nil, nil).Engine)
	defer srv.Close()

	b := remoteBackend{client: httpapi.NewClient(srv.URL, time.Second)}

	require.NoError(t, b.Send(host.ShowNotification(model.Payload{Title: "Hi"})))
	require.NoError(t, b.Send(host.ShowPage()))

	f, err := b.Frame()
	require.NoError(t, err)
	require.Len(t, f.Items, 1)
	assert.True(t, f.Visible)

	require.NoError(t, b.Send(host.KeyDown("Escape")))
	assert.False(t, d.Shell().Visible())

	require.NoError(t, b.Send(host.Dismiss(f.Items[0].Notification.ID)))
	assert.Zero(t, d.Stack().Len())

	require.NoError(t, b.Send(host.ClosePage()))
	assert.Error(t, b.Send(host.Message{Type: "REBOOT"}))
}

func TestResolveRefs(t *testing.T) {
	sched := display.NewManualScheduler(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	d := daemon.New(daemon.Options{Config: config.DefaultConfig(), Scheduler: sched})
	defer d.Close()

	srv := httptest.NewServer(httpapi.NewRouter(d, nil, nil).Engine)
	defer srv.Close()
	c := httpapi.NewClient(srv.URL, time.Second)

	first, err := c.ShowNotification(model.Payload{Title: "first"})
	require.NoError(t, err)
	second, err := c.ShowNotification(model.Payload{Title: "second"})
	require.NoError(t, err)

	ids, err := resolveRefs(c, []string{"0", "1"})
	require.NoError(t, err)
	assert.Equal(t, []string{second, first}, ids)

	ids, err = resolveRefs(c, []string{first})
	require.NoError(t, err)
	assert.Equal(t, []string{first}, ids)

	_, err = resolveRefs(c, []string{"7"})
	assert.Error(t, err)
}
