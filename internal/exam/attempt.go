package exam

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a session.
type State string

const (
	StateActive    State = "active"
	StateExpired   State = "expired"
	StateSubmitted State = "submitted"
)

// Option configures a session at construction time.
type Option func(*options)

type options struct {
	now      func() time.Time
	username string
}

// WithClock replaces time.Now as the session's time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithUsername tags the session and its result with a user name.
func WithUsername(name string) Option {
	return func(o *options) { o.username = name }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, username: "Guest"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// timer tracks elapsed time against a fixed limit. The latest observed
// instant is kept so that a clock stepping backwards never makes the
// remaining time grow.
type timer struct {
	now   func() time.Time
	start time.Time
	limit time.Duration
	seen  time.Time
}

func (t *timer) reset() {
	t.start = t.now()
	t.seen = t.start
}

func (t *timer) peek() time.Time {
	if n := t.now(); n.After(t.seen) {
		return n
	}
	return t.seen
}

func (t *timer) observe(at time.Time) time.Time {
	if at.After(t.seen) {
		t.seen = at
	}
	return t.seen
}

func (t *timer) elapsedAt(at time.Time) time.Duration {
	d := at.Sub(t.start)
	if d < 0 {
		return 0
	}
	if d > t.limit {
		return t.limit
	}
	return d
}

func (t *timer) deadline() time.Time {
	return t.start.Add(t.limit)
}

// attempt is the navigation, timing and lifecycle core shared by MCQ and
// coding sessions. Its exported methods are promoted onto both.
type attempt struct {
	id       string
	subject  string
	username string

	n       int
	current int
	visited []bool
	spent   []time.Duration
	shownAt time.Time

	timer       timer
	state       State
	submittedAt time.Time
	auto        bool
}

func newAttempt(subject string, n int, limit time.Duration, o options) attempt {
	a := attempt{
		subject:  subject,
		username: o.username,
		timer:    timer{now: o.now, limit: limit},
	}
	a.reset(n)
	return a
}

func (a *attempt) reset(n int) {
	a.id = uuid.NewString()
	a.n = n
	a.current = 0
	a.visited = make([]bool, n)
	a.spent = make([]time.Duration, n)
	a.timer.reset()
	a.shownAt = a.timer.start
	a.state = StateActive
	a.submittedAt = time.Time{}
	a.auto = false
	a.visited[0] = true
}

// ID returns the session identifier. A restart assigns a new one.
func (a *attempt) ID() string { return a.id }

// Subject returns the subject the session was drawn from.
func (a *attempt) Subject() string { return a.subject }

// Username returns the user the session belongs to.
func (a *attempt) Username() string { return a.username }

// Len returns the number of items in the session.
func (a *attempt) Len() int { return a.n }

// CurrentIndex returns the 0-based position being displayed.
func (a *attempt) CurrentIndex() int { return a.current }

// State returns the lifecycle state, moving to StateExpired first if the
// limit has passed since the last check.
func (a *attempt) State() State {
	a.refresh()
	return a.state
}

// Visited returns a copy of the visited flags.
func (a *attempt) Visited() []bool {
	out := make([]bool, a.n)
	copy(out, a.visited)
	return out
}

// Remaining returns max(0, limit - elapsed). It never increases between calls.
func (a *attempt) Remaining() time.Duration {
	if a.state == StateSubmitted {
		return a.timer.limit - a.timer.elapsedAt(a.submittedAt)
	}
	return a.timer.limit - a.timer.elapsedAt(a.timer.observe(a.timer.now()))
}

// RemainingSeconds is Remaining rounded up to whole seconds, so it reports 0
// exactly when the session has run out of time.
func (a *attempt) RemainingSeconds() int {
	return int((a.Remaining() + time.Second - 1) / time.Second)
}

// Tick feeds the periodic driver's notion of now into the session. It
// returns the state after the tick; StateExpired tells the caller to submit.
func (a *attempt) Tick(now time.Time) State {
	if a.state == StateActive {
		a.timer.observe(now)
		a.refresh()
	}
	return a.state
}

// Goto makes index the current item and marks it visited.
func (a *attempt) Goto(index int) error {
	if err := a.checkOpen(); err != nil {
		return err
	}
	if index < 0 || index >= a.n {
		return ErrInvalidIndex
	}
	a.switchTo(index)
	return nil
}

// Next moves forward by one. At the last item it reports moved=false.
func (a *attempt) Next() (bool, error) {
	if err := a.checkOpen(); err != nil {
		return false, err
	}
	if a.current >= a.n-1 {
		return false, nil
	}
	a.switchTo(a.current + 1)
	return true, nil
}

// Previous moves back by one. At the first item it reports moved=false.
func (a *attempt) Previous() (bool, error) {
	if err := a.checkOpen(); err != nil {
		return false, err
	}
	if a.current == 0 {
		return false, nil
	}
	a.switchTo(a.current - 1)
	return true, nil
}

func (a *attempt) refresh() {
	if a.state != StateActive {
		return
	}
	if a.Remaining() <= 0 {
		a.state = StateExpired
		slog.Info("session expired", "session", a.id, "subject", a.subject)
	}
}

func (a *attempt) checkOpen() error {
	a.refresh()
	if a.state != StateActive {
		return ErrSessionClosed
	}
	return nil
}

// clamp limits an instant to the session deadline for time accounting.
func (a *attempt) clamp(at time.Time) time.Time {
	if d := a.timer.deadline(); at.After(d) {
		return d
	}
	return at
}

func (a *attempt) switchTo(index int) {
	now := a.clamp(a.timer.observe(a.timer.now()))
	if d := now.Sub(a.shownAt); d > 0 {
		a.spent[a.current] += d
	}
	a.shownAt = now
	a.current = index
	a.visited[index] = true
}

// finish closes the attempt. It reports false if it was already submitted.
func (a *attempt) finish() bool {
	a.refresh()
	if a.state == StateSubmitted {
		return false
	}
	now := a.timer.observe(a.timer.now())
	if d := a.clamp(now).Sub(a.shownAt); d > 0 {
		a.spent[a.current] += d
	}
	a.shownAt = a.clamp(now)
	a.auto = a.state == StateExpired
	a.submittedAt = now
	a.state = StateSubmitted
	return true
}

// scoringEnd is the instant elapsed time is measured to.
func (a *attempt) scoringEnd() time.Time {
	if a.state == StateSubmitted {
		return a.submittedAt
	}
	return a.timer.peek()
}

func (a *attempt) elapsed() time.Duration {
	return a.timer.elapsedAt(a.scoringEnd())
}

func (a *attempt) avgPerItem() float64 {
	var total time.Duration
	for _, d := range a.spent {
		total += d
	}
	if a.state != StateSubmitted {
		if d := a.clamp(a.scoringEnd()).Sub(a.shownAt); d > 0 {
			total += d
		}
	}
	return total.Seconds() / float64(max(1, a.n))
}
