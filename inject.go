package grove

// syntheticAxisEvent holds injected axis values for a number of frames.
// Injected values shadow the scene's input source for the same labels.
type syntheticAxisEvent struct {
	values Axes
	frames int
}

// InjectAxis queues label=value for the given number of frames (at least one).
// Queued events play back one after another, starting on the next Update.
func (s *Scene) InjectAxis(label string, value float32, frames int) {
	s.InjectAxes(Axes{label: value}, frames)
}

// InjectAxes queues several axis values held together for the given number of
// frames.
func (s *Scene) InjectAxes(values Axes, frames int) {
	if frames < 1 {
		frames = 1
	}
	cp := make(Axes, len(values))
	for k, v := range values {
		cp[k] = v
	}
	s.injectQueue = append(s.injectQueue, syntheticAxisEvent{values: cp, frames: frames})
}

// processInjectedInput replaces the injected layer with the head of the queue
// and consumes one of its frames. Returns true if an event was active.
func (s *Scene) processInjectedInput() bool {
	clear(s.injected)
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := &s.injectQueue[0]
	for k, v := range evt.values {
		s.injected[k] = v
	}
	evt.frames--
	if evt.frames <= 0 {
		copy(s.injectQueue, s.injectQueue[1:])
		s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	}
	return true
}
