package antcfg

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the ant config reader Graft node.
const NodeID graft.ID = "adapter.antcfg"

func init() {
	graft.Register(graft.Node[*Reader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Reader, error) {
			return NewReader(), nil
		},
	})
}
