package wire

import (
	"net"
	"testing"
	"time"

	"github.com/azrael-sim/clerk/pkg/clerk"
	"github.com/azrael-sim/clerk/pkg/dibbler"
	"github.com/azrael-sim/clerk/pkg/idalloc"
	"github.com/azrael-sim/clerk/pkg/igor"
	"github.com/azrael-sim/clerk/pkg/queue"
	"github.com/azrael-sim/clerk/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustListen(t *testing.T) net.Listener {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return lis
}

func TestPingRoundTrip(t *testing.T) {
	s, err := store.NewMemStore()
	require.NoError(t, err)
	a := dibbler.NewMemStore()
	ix := igor.New()
	ids := idalloc.New(s)
	q := queue.NewMemQueue()
	c := clerk.New(s, a, ix, ids, q)
	require.NoError(t, c.Reset())

	srv := NewServer(c)

	lis := mustListen(t)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	cl, err := Dial(lis.Addr().String())
	require.NoError(t, err)
	defer cl.Close()

	resp, err := cl.Call("ping", nil)
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, "pong clerk", resp.Data)
}

func TestUnknownCommand(t *testing.T) {
	s, err := store.NewMemStore()
	require.NoError(t, err)
	a := dibbler.NewMemStore()
	ix := igor.New()
	ids := idalloc.New(s)
	q := queue.NewMemQueue()
	c := clerk.New(s, a, ix, ids, q)
	require.NoError(t, c.Reset())

	srv := NewServer(c)
	lis := mustListen(t)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	cl, err := Dial(lis.Addr().String())
	require.NoError(t, err)
	defer cl.Close()

	resp, err := cl.Call("bogus", map[string]interface{}{})
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, "Invalid command bogus", resp.Msg)
}

func TestConcurrentConnections(t *testing.T) {
	s, err := store.NewMemStore()
	require.NoError(t, err)
	a := dibbler.NewMemStore()
	ix := igor.New()
	ids := idalloc.New(s)
	q := queue.NewMemQueue()
	c := clerk.New(s, a, ix, ids, q)
	require.NoError(t, c.Reset())

	srv := NewServer(c)
	lis := mustListen(t)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			cl, err := Dial(lis.Addr().String())
			if !assert.NoError(t, err) {
				done <- false
				return
			}
			defer cl.Close()
			resp, err := cl.Call("ping", nil)
			assert.NoError(t, err)
			assert.True(t, resp.OK)
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		select {
		case ok := <-done:
			assert.True(t, ok)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for concurrent client")
		}
	}
}
