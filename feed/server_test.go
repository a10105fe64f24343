package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"fovmesh/fov"
)

func sampleViewer(t *testing.T) Viewer {
	t.Helper()
	pose := fov.Pose{Position: mgl64.Vec3{1, 0, 2}, Facing: 45}
	mesh := fov.BuildMesh(pose, []mgl64.Vec3{{2, 0, 2}, {1, 0, 3}}, 0)
	return NewViewer(fov.Result{ID: "v1", Pose: pose, Mesh: mesh}, []fov.Target{{ID: "t1", Position: mgl64.Vec3{2, 0, 2}}})
}

func TestNewViewer(t *testing.T) {
	v := sampleViewer(t)
	assert.Equal(t, "v1", v.ID)
	assert.Len(t, v.Vertices, 3)
	assert.Equal(t, []int{0, 1, 2}, v.Triangles)
	assert.Empty(t, v.Error)

	failed := NewViewer(fov.Result{ID: "v2", Err: errors.New("oracle down")}, nil)
	assert.Equal(t, "oracle down", failed.Error)
	assert.Nil(t, failed.Vertices)
}

func TestHubPublish(t *testing.T) {
	var h Hub
	assert.Nil(t, h.Latest())
	assert.Equal(t, uint64(1), h.Publish(nil))
	assert.Equal(t, uint64(2), h.Publish([]Viewer{{ID: "a"}}))
	f := h.Latest()
	require.NotNil(t, f)
	assert.Equal(t, uint64(2), f.Seq)
	assert.Equal(t, "a", f.Viewers[0].ID)
}

func TestFrameHandler(t *testing.T) {
	hub := &Hub{}
	srv := httptest.NewServer(NewServer(hub, 0))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/frame")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	hub.Publish([]Viewer{sampleViewer(t)})
	resp, err = http.Get(srv.URL + "/frame")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var f Frame
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&f))
	assert.Equal(t, uint64(1), f.Seq)
	require.Len(t, f.Viewers, 1)
	assert.Equal(t, "v1", f.Viewers[0].ID)
	assert.Equal(t, "t1", f.Viewers[0].Visible[0].ID)
}

func TestStream(t *testing.T) {
	hub := &Hub{}
	srv := httptest.NewServer(NewServer(hub, 200))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	c, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer c.Close(websocket.StatusNormalClosure, "")

	hub.Publish([]Viewer{sampleViewer(t)})
	var f Frame
	require.NoError(t, wsjson.Read(ctx, c, &f))
	assert.Equal(t, uint64(1), f.Seq)

	// Only newer frames are sent.
	hub.Publish([]Viewer{{ID: "second"}})
	require.NoError(t, wsjson.Read(ctx, c, &f))
	assert.Equal(t, uint64(2), f.Seq)
	assert.Equal(t, "second", f.Viewers[0].ID)
}
