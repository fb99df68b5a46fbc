package submission

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"
)

// Mode selects how a valid submission is resolved
type Mode int

const (
	// ModeImmediate confirms a valid submission synchronously
	ModeImmediate Mode = iota
	// ModeSimulated waits Delay and then draws a random outcome
	ModeSimulated
)

// String returns the mode name used in config files
func (m Mode) String() string {
	if m == ModeSimulated {
		return "simulated"
	}
	return "immediate"
}

const (
	// DefaultDelay is the simulated network latency
	DefaultDelay = time.Second
	// DefaultSuccessRate is the probability a simulated submission succeeds
	DefaultSuccessRate = 0.8
)

// ErrClosed is returned by Submit after Close
var ErrClosed = errors.New("submission controller closed")

// Rand is the source of simulated outcomes. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Options configures a Controller
type Options struct {
	Mode        Mode
	Delay       time.Duration // Simulated latency (ModeSimulated only)
	SuccessRate float64       // Probability of success in [0,1] (ModeSimulated only)
	Rand        Rand          // Outcome source; defaults to math/rand/v2

	// After overrides the delay timer, mainly for tests. When nil a
	// stoppable time.Timer is used.
	After func(time.Duration) <-chan time.Time
}

// Change describes one state change observed by a Listener
type Change struct {
	From  State
	To    State
	Event Event
	Seq   uint64 // Submission sequence number the change belongs to
}

// Listener observes state changes
type Listener func(Change)

// Controller owns the submission state of one form session
type Controller struct {
	opts Options

	mu        sync.Mutex
	state     State
	seq       uint64
	cancel    context.CancelFunc // cancels the pending resolution
	done      chan struct{}      // closed when the pending resolution settles
	listeners []Listener
	closed    bool
	wg        sync.WaitGroup
}

// New creates a Controller in the Editing state
func New(opts Options) *Controller {
	if opts.Rand == nil {
		opts.Rand = globalRand{}
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	if opts.SuccessRate < 0 {
		opts.SuccessRate = 0
	}
	if opts.SuccessRate > 1 {
		opts.SuccessRate = 1
	}
	return &Controller{opts: opts, state: StateEditing}
}

// Mode returns the controller's resolution mode
func (c *Controller) Mode() Mode {
	return c.opts.Mode
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnTransition registers a listener for state changes
func (c *Controller) OnTransition(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Submit starts a submission of already-validated data.
//
// In ModeImmediate the controller moves to Succeeded before returning. In
// ModeSimulated it moves to Pending and resolves after Delay on its own
// goroutine; a pending resolution from an earlier Submit is superseded.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	if c.opts.Mode == ModeImmediate {
		change, err := c.fire(EventConfirm)
		c.mu.Unlock()
		if err != nil {
			return err
		}
		c.notify(change)
		return nil
	}

	change, err := c.fire(EventSubmit)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	c.stopPending()
	c.seq++
	change.Seq = c.seq

	taskCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done

	c.wg.Add(1)
	go c.resolve(taskCtx, c.seq, done)
	c.mu.Unlock()

	c.notify(change)
	return nil
}

// Reject records an invalid submission attempt (Editing → Editing)
func (c *Controller) Reject() error {
	c.mu.Lock()
	change, err := c.fire(EventReject)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify(change)
	return nil
}

// Dismiss closes the confirmation or failure banner and returns to Editing
func (c *Controller) Dismiss() error {
	c.mu.Lock()
	change, err := c.fire(EventDismiss)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify(change)
	return nil
}

// Await blocks until the controller is no longer Pending or ctx is done,
// and returns the state at that point. Listeners of the resolving
// transition have returned by the time Await does.
func (c *Controller) Await(ctx context.Context) (State, error) {
	for {
		c.mu.Lock()
		done, closed := c.done, c.closed
		c.mu.Unlock()
		if done == nil || closed {
			return c.State(), nil
		}

		select {
		case <-done:
		case <-ctx.Done():
			return c.State(), ctx.Err()
		}

		// A superseded resolution closes its own channel while the state is
		// still Pending, so loop until the live one settles.
		c.mu.Lock()
		settled := c.done == done || c.state != StatePending
		state := c.state
		c.mu.Unlock()
		if settled {
			return state, nil
		}
	}
}

// Close cancels any pending resolution and waits for it to exit. Further
// submissions fail with ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopPending()
	c.mu.Unlock()

	c.wg.Wait()
}

// resolve waits out the delay and draws the outcome for submission seq
func (c *Controller) resolve(ctx context.Context, seq uint64, done chan struct{}) {
	defer c.wg.Done()
	defer close(done)

	if !c.wait(ctx) {
		c.mu.Lock()
		// Only a cancellation of the live submission returns to Editing.
		// Superseded or closed submissions are simply dropped.
		if c.closed || seq != c.seq || c.state != StatePending {
			c.mu.Unlock()
			return
		}
		change, err := c.fire(EventCancel)
		c.cancel = nil
		c.mu.Unlock()
		if err == nil {
			change.Seq = seq
			c.notify(change)
		}
		return
	}

	c.mu.Lock()
	if c.closed || seq != c.seq || c.state != StatePending {
		c.mu.Unlock()
		return
	}

	event := EventFail
	if c.opts.Rand.Float64() < c.opts.SuccessRate {
		event = EventConfirm
	}
	change, err := c.fire(event)
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	if err == nil {
		change.Seq = seq
		c.notify(change)
	}
}

func (c *Controller) wait(ctx context.Context) bool {
	if c.opts.After != nil {
		select {
		case <-c.opts.After(c.opts.Delay):
			return ctx.Err() == nil
		case <-ctx.Done():
			return false
		}
	}

	timer := time.NewTimer(c.opts.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return ctx.Err() == nil
	case <-ctx.Done():
		return false
	}
}

// fire applies event to the current state. Must be called with c.mu held.
func (c *Controller) fire(event Event) (Change, error) {
	next, err := Transition(c.state, event)
	if err != nil {
		return Change{}, err
	}
	change := Change{From: c.state, To: next, Event: event, Seq: c.seq}
	c.state = next
	return change, nil
}

// stopPending cancels the in-flight resolution. Must be called with c.mu held.
func (c *Controller) stopPending() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) notify(change Change) {
	c.mu.Lock()
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, l := range listeners {
		l(change)
	}
}
