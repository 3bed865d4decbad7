package repeater

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// globalDebug enables the checks below. Node operations have no engine
// pointer, so the flag is package-wide; the most recent SetDebugMode wins.
var globalDebug bool

// SetDebugMode enables or disables debug mode. When enabled, using a
// destroyed node in a tree or listener operation panics, tree depth and
// child count warnings are logged, and per-tick timing is logged at debug
// level.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// DebugMode reports whether debug mode is enabled.
func DebugMode() bool {
	return globalDebug
}

// tickStats holds per-tick timing. Only populated in debug mode.
type tickStats struct {
	fixedSteps int
	fixedTime  time.Duration
	updateTime time.Duration
	microtasks int
	nodes      int
}

// debugLog logs timing and tree size at debug level.
func debugLog(stats tickStats) {
	logger.Debug("tick",
		zap.Int("fixed_steps", stats.fixedSteps),
		zap.Duration("fixed", stats.fixedTime),
		zap.Duration("update", stats.updateTime),
		zap.Int("microtasks", stats.microtasks),
		zap.Int("nodes", stats.nodes),
	)
}

// debugCheckDestroyed panics with a descriptive message when a destroyed
// node is used. In release mode callers skip this entirely.
func debugCheckDestroyed(n *Node, op string) {
	if n.Destroyed() {
		panic(fmt.Sprintf("repeater debug: %s on destroyed node %q (ID %s)", op, n.Name, n.id))
	}
}

// debugMaxTreeDepth is the depth above which a warning is logged.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger.Warn("tree depth exceeds threshold",
			zap.Int("depth", depth),
			zap.Int("threshold", debugMaxTreeDepth),
			nodeField("node", n),
		)
	}
}

// debugMaxChildCount is the child count above which a warning is logged.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		logger.Warn("child count exceeds threshold",
			zap.Int("children", len(n.children)),
			zap.Int("threshold", debugMaxChildCount),
			nodeField("node", n),
		)
	}
}

// countNodes returns the size of the subtree rooted at n.
func countNodes(n *Node) int {
	count := 1
	for _, c := range n.children {
		count += countNodes(c)
	}
	return count
}
