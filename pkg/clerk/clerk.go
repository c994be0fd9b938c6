package clerk

import (
	"fmt"

	"github.com/azrael-sim/clerk/pkg/dibbler"
	"github.com/azrael-sim/clerk/pkg/idalloc"
	"github.com/azrael-sim/clerk/pkg/igor"
	"github.com/azrael-sim/clerk/pkg/log"
	"github.com/azrael-sim/clerk/pkg/metrics"
	"github.com/azrael-sim/clerk/pkg/queue"
	"github.com/azrael-sim/clerk/pkg/store"
)

// Clerk is the RPC dispatcher and integrity owner of templates and
// instances. All five collaborators are explicit constructor
// parameters; Clerk holds no package-level state.
type Clerk struct {
	store  store.Store
	assets dibbler.Store
	igor   *igor.Index
	ids    *idalloc.Allocator
	queue  queue.Producer
}

// New wires a Clerk from its five collaborators.
func New(s store.Store, assets dibbler.Store, ix *igor.Index, ids *idalloc.Allocator, q queue.Producer) *Clerk {
	return &Clerk{store: s, assets: assets, igor: ix, ids: ids, queue: q}
}

// Dispatch resolves cmd to a handler, decodes data against that
// handler's declared request shape, executes it, and returns the
// {ok, msg, data} envelope. Dispatch itself never returns a Go error:
// every failure mode, including a malformed or unknown command, is
// represented in the envelope. Every call is counted and timed under
// azrael_clerk_requests_total{cmd,ok} and
// azrael_clerk_request_duration_seconds{cmd}.
func (c *Clerk) Dispatch(cmd string, data map[string]interface{}) Response {
	timer := metrics.NewTimer()
	resp := c.dispatch(cmd, data)
	metrics.ClerkRequestsTotal.WithLabelValues(cmd, metrics.BoolLabel(resp.OK)).Inc()
	timer.ObserveDurationVec(metrics.ClerkRequestDuration, cmd)
	return resp
}

func (c *Clerk) dispatch(cmd string, data map[string]interface{}) Response {
	handler, known := handlers[cmd]
	if !known {
		return fail(fmt.Sprintf("Invalid command %s", cmd))
	}
	resp, err := handler(c, data)
	if err != nil {
		log.Logger.Debug().Str("cmd", cmd).Err(err).Msg("clerk: command failed")
		return fail(err.Error())
	}
	return resp
}

type handlerFunc func(c *Clerk, data map[string]interface{}) (Response, error)

var handlers = map[string]handlerFunc{
	"ping":                  handlePing,
	"add_templates":         handleAddTemplates,
	"get_templates":         handleGetTemplates,
	"get_template_id":       handleGetTemplateID,
	"get_all_object_ids":    handleGetAllObjectIDs,
	"spawn":                 handleSpawn,
	"remove":                handleRemove,
	"get_rigid_bodies":      handleGetRigidBodies,
	"get_object_states":     handleGetObjectStates,
	"set_rigid_bodies":      handleSetRigidBodies,
	"set_fragments":         handleSetFragments,
	"get_fragments":         handleGetFragments,
	"set_force":             handleSetForce,
	"control_parts":         handleControlParts,
	"update_booster_forces": handleUpdateBoosterForces,
	"add_constraints":       handleAddConstraints,
	"delete_constraints":    handleDeleteConstraints,
	"get_constraints":       handleGetConstraints,
	"get_custom":            handleGetCustom,
	"set_custom":            handleSetCustom,
}

func handlePing(c *Clerk, data map[string]interface{}) (Response, error) {
	return ok("pong clerk"), nil
}

// Reset wipes the template and instance collections, the ID counter,
// the constraint index and the assets, and reinstalls the four
// pre-installed default templates. The physics queue is left as it is:
// Clerk holds only its Producer side.
func (c *Clerk) Reset() error {
	if err := c.store.Reset(store.CollectionTemplates); err != nil {
		return err
	}
	if err := c.store.Reset(store.CollectionInstances); err != nil {
		return err
	}
	if err := c.ids.Reset(); err != nil {
		return err
	}
	c.igor.Reset()
	if err := c.assets.Reset(); err != nil {
		return err
	}
	return c.installDefaultTemplates()
}

// Counts samples the current template/instance/constraint counts and
// queue backlog, satisfying metrics.CountsSource for pkg/metrics'
// periodic collector.
func (c *Clerk) Counts() metrics.Counts {
	templates, _ := c.store.Count(store.CollectionTemplates)
	instances, _ := c.store.Count(store.CollectionInstances)
	depth, _ := c.queue.Depth()
	return metrics.Counts{
		Templates:   templates,
		Instances:   instances,
		Constraints: len(c.igor.GetConstraints(nil)),
		QueueDepth:  depth,
	}
}
