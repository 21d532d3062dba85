package httpapi

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastd/internal/model"
)

func TestClient_RoundTrip(t *testing.T) {
	r, d, _ := newTestRouter(t)
	srv := httptest.NewServer(r.Engine)
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)

	id, err := c.ShowNotification(model.Payload{Type: "warning", Title: "Careful"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.NoError(t, c.ShowPage())
	assert.True(t, d.Shell().Visible())

	f, err := c.Frame()
	require.NoError(t, err)
	assert.True(t, f.Visible)
	require.Len(t, f.Items, 1)
	assert.Equal(t, id, f.Items[0].Notification.ID)

	handled, err := c.KeyPress("Escape")
	require.NoError(t, err)
	assert.True(t, handled)

	require.NoError(t, c.ClosePage())

	removed, err := c.Dismiss(id)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = c.Dismiss(id)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestClient_Errors(t *testing.T) {
	r, d, _ := newTestRouter(t)
	srv := httptest.NewServer(r.Engine)
	defer srv.Close()

	d.Close()
	c := NewClient(srv.URL, time.Second)
	_, err := c.ShowNotification(model.Payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")

	c = NewClient("127.0.0.1:1", 200*time.Millisecond)
	_, err = c.Frame()
	assert.Error(t, err)
}
