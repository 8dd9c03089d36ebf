package tree

import "github.com/pthm-cable/redwood/space"

// Agent is a growth process advanced once per round. Iterate returns the
// agents that should run in the next round; an agent that has finished
// omits itself. Branch and LeafNode are the only implementations.
type Agent interface {
	Iterate(e *env) []Agent
}

// env is the state shared by every agent during a round. Agents must treat
// it as read-only apart from voxel writes to the space.
type env struct {
	space  *space.Space
	params Parameters
	debug  bool
}

// mark records a turn or split point. Debug markers overwrite whatever is in
// the cell; otherwise the point is plain Log placed only into an empty cell.
func (e *env) mark(c space.Cell, debug space.Material) {
	if e.debug {
		c.Set(debug)
		return
	}
	c.SetIfEmpty(space.Log)
}
