package cache

import (
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

func newTestCachedClerk(t *testing.T) *CachedClerk {
	t.Helper()
	s, err := store.NewMemStore()
	require.NoError(t, err)
	a := dibbler.NewMemStore()
	ix := igor.New()
	ids := idalloc.New(s)
	q := queue.NewMemQueue()
	c := clerk.New(s, a, ix, ids, q)
	require.NoError(t, c.Reset())

	cc, err := New(c, Config{NumCounters: 100, MaxCost: 1 << 16, TTL: time.Minute})
	require.NoError(t, err)
	return cc
}

func addTestTemplate(t *testing.T, cc *CachedClerk) {
	t.Helper()
	resp := cc.Dispatch("add_templates", map[string]interface{}{
		"templates": []interface{}{
			map[string]interface{}{
				"aid": "_templateSphere",
				"rbs": map[string]interface{}{},
			},
		},
	})
	require.True(t, resp.OK)
}

func TestGetTemplatesServedFromCacheOnRepeat(t *testing.T) {
	cc := newTestCachedClerk(t)
	defer cc.Close()
	addTestTemplate(t, cc)

	req := map[string]interface{}{"names": []interface{}{"_templateSphere"}}
	first := cc.Dispatch("get_templates", req)
	require.True(t, first.OK)

	second := cc.Dispatch("get_templates", req)
	assert.True(t, second.OK)
	assert.Equal(t, first.Data, second.Data)
}

func TestSetRigidBodiesInvalidatesCache(t *testing.T) {
	cc := newTestCachedClerk(t)
	defer cc.Close()
	addTestTemplate(t, cc)

	spawnResp := cc.Dispatch("spawn", map[string]interface{}{
		"items": []interface{}{map[string]interface{}{"templateID": "_templateSphere"}},
	})
	require.True(t, spawnResp.OK)

	rbsReq := map[string]interface{}{"objIDs": []interface{}{float64(1)}}
	before := cc.Dispatch("get_rigid_bodies", rbsReq)
	require.True(t, before.OK)

	setResp := cc.Dispatch("set_rigid_bodies", map[string]interface{}{
		"items": map[string]interface{}{
			"1": map[string]interface{}{"imass": float64(2)},
		},
	})
	require.True(t, setResp.OK)

	after := cc.Dispatch("get_rigid_bodies", rbsReq)
	require.True(t, after.OK)
	assert.NotEqual(t, before.Data, after.Data)
}
