package viewport

// Frame is one geometry report from the client: the scroll container and
// the current boxes of the observed elements, keyed by element ID.
type Frame struct {
	Container Rect            `json:"container"`
	Targets   map[string]Rect `json:"targets"`
}

// Entry is delivered to an observer callback.
type Entry struct {
	ID      string
	Ratio   float64
	Visible bool
}

type observed struct {
	id      string
	fn      func(Entry)
	seen    bool
	visible bool
}

// Observer reports threshold crossings for registered targets. Callbacks run
// on the first frame that includes a target and then only when its
// visibility flips. Targets absent from a frame keep their last state.
type Observer struct {
	threshold float64
	targets   []*observed
	byID      map[string]*observed
}

// NewObserver returns an observer using threshold (Threshold when <= 0).
func NewObserver(threshold float64) *Observer {
	if threshold <= 0 {
		threshold = Threshold
	}
	return &Observer{threshold: threshold, byID: map[string]*observed{}}
}

// Observe registers fn for id. Re-registering an id replaces its callback.
func (o *Observer) Observe(id string, fn func(Entry)) {
	if t, ok := o.byID[id]; ok {
		t.fn = fn
		return
	}
	t := &observed{id: id, fn: fn}
	o.targets = append(o.targets, t)
	o.byID[id] = t
}

// Unobserve stops reporting for id.
func (o *Observer) Unobserve(id string) {
	if _, ok := o.byID[id]; !ok {
		return
	}
	delete(o.byID, id)
	kept := o.targets[:0]
	for _, t := range o.targets {
		if t.id != id {
			kept = append(kept, t)
		}
	}
	o.targets = kept
}

// Update evaluates a frame. Callbacks run in registration order.
func (o *Observer) Update(f Frame) {
	for _, t := range o.targets {
		rect, ok := f.Targets[t.id]
		if !ok {
			continue
		}
		ratio := VisibleRatio(rect, f.Container)
		visible := ratio >= o.threshold
		if t.seen && visible == t.visible {
			continue
		}
		t.seen = true
		t.visible = visible
		if t.fn != nil {
			t.fn(Entry{ID: t.id, Ratio: ratio, Visible: visible})
		}
	}
}
