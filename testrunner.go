package grove

import (
	"encoding/json"
	"fmt"
)

// testStep is one scripted action.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Value  float32 `json:"value,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the JSON document read by LoadTestScript.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner plays a scripted list of axis holds, pauses and screenshots, one
// step per Update. Install it with Scene.SetTestRunner.
//
//	{"steps": [
//	  {"action": "axis", "label": "x", "value": 1, "frames": 30},
//	  {"action": "wait", "frames": 10},
//	  {"action": "screenshot", "label": "rotated"}
//	]}
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript decodes and validates a script. Axis steps need a label and
// unknown actions are rejected.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "axis":
			if st.Label == "" {
				return nil, fmt.Errorf("parse test script: step %d: axis needs a label", i)
			}
		case "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner installs runner. It advances at the start of every Update,
// ahead of the injected axis layer. Pass nil to remove it.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether the last step has played out.
func (r *TestRunner) Done() bool {
	return r.done
}

// step runs at most one script action for the current frame.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// an axis hold blocks the script until its frames are used up
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "axis":
		s.InjectAxis(st.Label, st.Value, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
