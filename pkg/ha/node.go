// Package ha replicates Clerk's document store over Raft: a
// single-node Raft group by default so every one of Clerk's invariants
// holds with zero configuration, with JoinExisting/AddVoter to grow into a
// standby-replica deployment. Clerk's command handlers never require a
// multi-node cluster to be present.
package ha

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/azrael-sim/clerk/pkg/log"
	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"
)

// Config holds the fields needed to stand up a Node.
type Config struct {
	NodeID   string
	BindAddr string
	DataDir  string
}

// Node wraps a Raft group replicating a ClerkFSM.
type Node struct {
	nodeID   string
	bindAddr string
	dataDir  string

	raft *raft.Raft
	fsm  *ClerkFSM
}

// NewNode prepares a Node; call Bootstrap or JoinExisting to start Raft.
func NewNode(cfg Config, fsm *ClerkFSM) (*Node, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("ha: create data dir: %w", err)
	}
	return &Node{nodeID: cfg.NodeID, bindAddr: cfg.BindAddr, dataDir: cfg.DataDir, fsm: fsm}, nil
}

func (n *Node) newRaft() (*raft.Raft, raft.ServerAddress, error) {
	config := raft.DefaultConfig()
	config.LocalID = raft.ServerID(n.nodeID)
	config.HeartbeatTimeout = 500 * time.Millisecond
	config.ElectionTimeout = 500 * time.Millisecond
	config.LeaderLeaseTimeout = 250 * time.Millisecond

	addr, err := net.ResolveTCPAddr("tcp", n.bindAddr)
	if err != nil {
		return nil, "", fmt.Errorf("ha: resolve bind addr: %w", err)
	}
	transport, err := raft.NewTCPTransport(n.bindAddr, addr, 3, 10*time.Second, os.Stderr)
	if err != nil {
		return nil, "", fmt.Errorf("ha: create transport: %w", err)
	}

	snapshotStore, err := raft.NewFileSnapshotStore(n.dataDir, 2, os.Stderr)
	if err != nil {
		return nil, "", fmt.Errorf("ha: create snapshot store: %w", err)
	}

	logStore, err := raftboltdb.NewBoltStore(filepath.Join(n.dataDir, "raft-log.db"))
	if err != nil {
		return nil, "", fmt.Errorf("ha: create log store: %w", err)
	}
	stableStore, err := raftboltdb.NewBoltStore(filepath.Join(n.dataDir, "raft-stable.db"))
	if err != nil {
		return nil, "", fmt.Errorf("ha: create stable store: %w", err)
	}

	r, err := raft.NewRaft(config, n.fsm, logStore, stableStore, snapshotStore, transport)
	if err != nil {
		return nil, "", fmt.Errorf("ha: create raft: %w", err)
	}
	return r, transport.LocalAddr(), nil
}

// Bootstrap starts a fresh single-node Raft group with this node as
// its only member. This is the default path: a Clerk started without
// peers is immediately its own leader.
func (n *Node) Bootstrap() error {
	r, localAddr, err := n.newRaft()
	if err != nil {
		return err
	}
	n.raft = r

	configuration := raft.Configuration{
		Servers: []raft.Server{{ID: raft.ServerID(n.nodeID), Address: localAddr}},
	}
	if err := n.raft.BootstrapCluster(configuration).Error(); err != nil {
		return fmt.Errorf("ha: bootstrap cluster: %w", err)
	}
	log.WithNodeID(n.nodeID).Info().Msg("ha: bootstrapped single-node cluster")
	return nil
}

// JoinExisting starts Raft without bootstrapping, for a node that will
// be added to an existing cluster via the leader's AddVoter.
func (n *Node) JoinExisting() error {
	r, _, err := n.newRaft()
	if err != nil {
		return err
	}
	n.raft = r
	log.WithNodeID(n.nodeID).Info().Msg("ha: started, waiting to be added as a voter")
	return nil
}

// AddVoter adds a standby replica to the cluster. Must be called on
// the current leader.
func (n *Node) AddVoter(nodeID, address string) error {
	if n.raft == nil {
		return fmt.Errorf("ha: raft not initialized")
	}
	if !n.IsLeader() {
		return fmt.Errorf("ha: not the leader, current leader: %s", n.LeaderAddr())
	}
	future := n.raft.AddVoter(raft.ServerID(nodeID), raft.ServerAddress(address), 0, 10*time.Second)
	if err := future.Error(); err != nil {
		return fmt.Errorf("ha: add voter: %w", err)
	}
	return nil
}

// Propose replicates cmd through Raft and waits for it to commit,
// returning whatever the FSM's Apply returned for this entry.
func (n *Node) Propose(cmd Command) (interface{}, error) {
	if n.raft == nil {
		return nil, fmt.Errorf("ha: raft not initialized")
	}
	if !n.IsLeader() {
		return nil, fmt.Errorf("ha: not the leader, current leader: %s", n.LeaderAddr())
	}
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("ha: marshal command: %w", err)
	}
	future := n.raft.Apply(payload, 10*time.Second)
	if err := future.Error(); err != nil {
		return nil, fmt.Errorf("ha: apply: %w", err)
	}
	if applyErr, ok := future.Response().(error); ok && applyErr != nil {
		return nil, applyErr
	}
	return future.Response(), nil
}

// IsLeader reports whether this node currently holds Raft leadership.
func (n *Node) IsLeader() bool {
	return n.raft != nil && n.raft.State() == raft.Leader
}

// LeaderAddr returns the current Raft leader's address, or "" if none
// is known yet.
func (n *Node) LeaderAddr() string {
	if n.raft == nil {
		return ""
	}
	return string(n.raft.Leader())
}

// PeerCount returns the number of servers in the current Raft
// configuration, sampled by clerkd's HA gauge loop (cmd/clerkd/serve.go).
func (n *Node) PeerCount() int {
	if n.raft == nil {
		return 0
	}
	future := n.raft.GetConfiguration()
	if err := future.Error(); err != nil {
		return 0
	}
	return len(future.Configuration().Servers)
}

// Shutdown stops the Raft group.
func (n *Node) Shutdown() error {
	if n.raft == nil {
		return nil
	}
	if err := n.raft.Shutdown().Error(); err != nil {
		return fmt.Errorf("ha: shutdown raft: %w", err)
	}
	return nil
}
