package repeater

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ScriptStep is one action of a script. Coordinates are screen
// coordinates.
type ScriptStep struct {
	Action string  `yaml:"action"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	Steps  int     `yaml:"steps,omitempty"`
	// Event and Target are used by "emit": Event is emitted on the node
	// named Target (the root when empty).
	Event  string `yaml:"event,omitempty"`
	Target string `yaml:"target,omitempty"`
}

type script struct {
	Steps []ScriptStep `yaml:"steps"`
}

var errEmptyScript = errors.New("repeater: script has no steps")

// ScriptRunner is a plugin that replays a script of pointer and event
// actions, one action per engine step, through the InputPlugin's injection
// queue. It waits for queued injections to drain before each action.
//
// Actions: click, press, move, release (x, y); drag (fromX, fromY, toX,
// toY, steps); wait (steps); emit (event, target).
type ScriptRunner struct {
	steps  []ScriptStep
	cursor int
	wait   int
	done   bool
	input  *InputPlugin
	engine *Engine
}

// LoadScript parses a YAML (or JSON) script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var s script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("repeater: parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, errEmptyScript
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "click", "press", "move", "release", "drag", "wait":
		case "emit":
			if st.Event == "" {
				return nil, fmt.Errorf("repeater: parse script: step %d: emit without event", i)
			}
		default:
			return nil, fmt.Errorf("repeater: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// LoadScriptFile reads and parses a script file.
func LoadScriptFile(path string) (*ScriptRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("repeater: read script: %w", err)
	}
	return LoadScript(data)
}

// Load implements Plugin.
func (r *ScriptRunner) Load(e *Engine) error {
	r.engine = e
	return nil
}

// Init implements Plugin. The engine must also carry an InputPlugin.
func (r *ScriptRunner) Init(e *Engine) error {
	in, ok := FindPlugin[*InputPlugin](e)
	if !ok {
		return errors.New("repeater: script runner needs an input plugin")
	}
	r.input = in
	return nil
}

// Done reports whether every step has run and its injections drained.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Update implements Updater.
func (r *ScriptRunner) Update(*Engine, float64) {
	if r.done || r.input == nil {
		return
	}
	if r.input.PendingInjected() > 0 {
		return
	}
	if r.wait > 0 {
		r.wait--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "click":
		r.input.InjectClick(st.X, st.Y)
	case "press":
		r.input.InjectPress(st.X, st.Y)
	case "move":
		r.input.InjectMove(st.X, st.Y)
	case "release":
		r.input.InjectRelease(st.X, st.Y)
	case "drag":
		r.input.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Steps)
	case "wait":
		if st.Steps > 0 {
			r.wait = st.Steps - 1 // this step counts as one
		}
	case "emit":
		target := r.engine.Root()
		if st.Target != "" {
			target = target.Find(st.Target)
		}
		if target == nil {
			logger.Warn("script emit target not found", zap.String("target", st.Target))
			break
		}
		target.Emit(st.Event, NewEvent())
	}

	if r.cursor >= len(r.steps) && r.wait == 0 && r.input.PendingInjected() == 0 {
		r.done = true
	}
}
