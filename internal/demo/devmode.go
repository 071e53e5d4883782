package demo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vango-dev/statesync/pkg/reactive"
	"github.com/vango-dev/statesync/pkg/statesync"
	"github.com/vango-dev/statesync/pkg/vdom"
)

// ErrNoPrompt is returned by Confirm and Cancel when nothing is awaiting
// confirmation.
var ErrNoPrompt = errors.New("demo: no transition awaiting confirmation")

// prompt is the confirmation dialog state.
type prompt struct {
	Open   bool
	Target bool
}

// State is a snapshot of a DeveloperMode for plain-text frontends.
type State struct {
	Shown  bool
	Actual bool
	// Prompt is true while a transition waits for Confirm or Cancel.
	Prompt bool
	// Target is the value Confirm would commit.
	Target bool
	// Saving is true while a confirmed value is being written to the store.
	Saving bool
	// Error describes the last failed save. It is cleared by the next
	// toggle or successful save.
	Error  string
}

// Pending reports whether the shown state has not been committed.
func (s State) Pending() bool {
	return s.Shown != s.Actual
}

// Status describes the state in a few words.
func (s State) Status() string {
	switch {
	case s.Saving:
		return "saving"
	case s.Prompt && s.Target:
		return "enable? confirm or cancel"
	case s.Prompt:
		return "disable? confirm or cancel"
	case s.Actual:
		return "on"
	default:
		return "off"
	}
}

// DeveloperMode is a switch whose changes must be confirmed before they are
// written to a FlagStore.
//
// Flipping the switch shows the new position at once and opens a prompt.
// Confirm saves the value and then commits it. Cancel, or a failed save,
// rolls the switch back. A commit made through another switch over the same
// Flag snaps this one.
type DeveloperMode struct {
	flag     *Flag
	ctx      context.Context
	logger   *slog.Logger
	dispatch func(func()) error

	actual  *reactive.BoolSignal
	prompt  *reactive.Signal[prompt]
	saving  *reactive.BoolSignal
	failure *reactive.Signal[string]

	toggle *statesync.StateSync[*vdom.VNode]
}

type options struct {
	logger   *slog.Logger
	dispatch func(func()) error
	owner    *reactive.Owner
	extra    []statesync.Option
}

// Option configures a DeveloperMode.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDispatch makes Confirm save on a separate goroutine and apply the
// result through dispatch, which must run the function on the UI loop.
// Commits made through other switches over the same Flag are applied through
// dispatch too. Without it Confirm saves synchronously and foreign commits
// are applied on the committing goroutine.
func WithDispatch(dispatch func(func()) error) Option {
	return func(o *options) {
		o.dispatch = dispatch
	}
}

// WithOwner ties the switch's subscriptions to owner.
func WithOwner(owner *reactive.Owner) Option {
	return func(o *options) {
		o.owner = owner
	}
}

// WithStateSyncOptions passes extra options to the underlying StateSync,
// such as observers and interceptors.
func WithStateSyncOptions(opts ...statesync.Option) Option {
	return func(o *options) {
		o.extra = append(o.extra, opts...)
	}
}

// NewDeveloperMode loads the flag from store and builds a switch over it.
// ctx bounds every store call.
func NewDeveloperMode(ctx context.Context, store FlagStore, opts ...Option) (*DeveloperMode, error) {
	flag, err := LoadFlag(ctx, store)
	if err != nil {
		return nil, err
	}
	return NewSharedDeveloperMode(ctx, flag, opts...), nil
}

// NewSharedDeveloperMode builds a switch over a Flag that other switches
// may share. ctx bounds every store call.
func NewSharedDeveloperMode(ctx context.Context, flag *Flag, opts ...Option) *DeveloperMode {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	d := &DeveloperMode{
		flag:     flag,
		ctx:      ctx,
		logger:   o.logger.With("component", "developer-mode"),
		dispatch: o.dispatch,
		actual:   reactive.NewBoolSignal(flag.Get()),
		prompt:   reactive.NewSignal(prompt{}),
		saving:   reactive.NewBoolSignal(false),
		failure:  reactive.NewSignal(""),
	}

	ssOpts := []statesync.Option{
		statesync.WithName("developer-mode"),
		statesync.WithLogger(o.logger),
		statesync.WithOwner(o.owner),
		statesync.OnActivate(func(statesync.Sync) { d.open(true) }),
		statesync.OnDeactivate(func(statesync.Sync) { d.open(false) }),
		statesync.WithObserver(statesync.ObserverFunc(d.observe)),
	}
	d.toggle = statesync.New[*vdom.VNode](d.actual, d.build, append(ssOpts, o.extra...)...)
	reactive.Watch[bool](d.toggle.Owner(), flag, d.mirror)

	return d
}

// mirror carries a commit published through the Flag into this switch's
// actual state. The value is re-read when applied, so out-of-order
// dispatches still land on the latest commit.
func (d *DeveloperMode) mirror(bool) {
	if d.actual.Get() == d.flag.Get() {
		return
	}
	apply := func() { d.actual.Set(d.flag.Get()) }
	if d.dispatch == nil {
		apply()
		return
	}
	// dispatch can block while the target loop is busy.
	go func() {
		if err := d.dispatch(apply); err != nil {
			d.logger.Debug("commit not mirrored", "error", err)
		}
	}()
}

func (d *DeveloperMode) open(target bool) {
	d.prompt.Set(prompt{Open: true, Target: target})
}

// observe closes the prompt once nothing is pending.
func (d *DeveloperMode) observe(e statesync.Event) {
	switch e.Kind {
	case statesync.EventMatched, statesync.EventSnap, statesync.EventRollback:
		d.prompt.Set(prompt{})
	}
}

// Toggle flips the shown state, as a click on the switch does.
func (d *DeveloperMode) Toggle() {
	d.failure.Set("")
	shown := d.toggle.Shown()
	shown.Set(!shown.Get())
}

// Confirm saves the value the prompt is asking about and commits it.
//
// With WithDispatch the save runs in the background and Confirm returns
// nil once it has started. Otherwise the save error, if any, is returned
// after the switch has been rolled back.
func (d *DeveloperMode) Confirm() error {
	p := d.prompt.Get()
	if !p.Open {
		return ErrNoPrompt
	}
	d.prompt.Set(prompt{})
	d.saving.SetTrue()

	if d.dispatch == nil {
		err := d.flag.Save(d.ctx, p.Target)
		d.finish(p.Target, err)
		return err
	}

	go func() {
		err := d.flag.Save(d.ctx, p.Target)
		if derr := d.dispatch(func() { d.finish(p.Target, err) }); derr != nil {
			d.logger.Warn("save result dropped", "error", derr)
		}
	}()
	return nil
}

// finish applies the outcome of a save. A failure is kept in State.Error.
func (d *DeveloperMode) finish(target bool, err error) {
	d.saving.SetFalse()
	if err != nil {
		d.logger.Error("save developer mode failed", "target", target, "error", err)
		d.failure.Set(err.Error())
		d.toggle.Sync()
		return
	}
	d.logger.Info("developer mode saved", "enabled", target)
	d.failure.Set("")
	d.actual.Set(target)
	d.flag.Publish(target)
}

// Cancel abandons the pending transition and rolls the switch back.
func (d *DeveloperMode) Cancel() error {
	if !d.prompt.Get().Open {
		return ErrNoPrompt
	}
	d.prompt.Set(prompt{})
	d.toggle.Sync()
	return nil
}

// State returns a snapshot.
func (d *DeveloperMode) State() State {
	p := d.prompt.Get()
	return State{
		Shown:  d.toggle.Shown().Get(),
		Actual: d.actual.Get(),
		Prompt: p.Open,
		Target: p.Target,
		Saving: d.saving.Get(),
		Error:  d.failure.Get(),
	}
}

// Subscribe calls fn with a fresh snapshot after any part of the state
// changes.
func (d *DeveloperMode) Subscribe(fn func(State)) (unsubscribe func()) {
	notify := func() { fn(d.State()) }
	stops := []func(){
		d.toggle.Subscribe(func(bool) { notify() }),
		d.actual.Subscribe(func(bool) { notify() }),
		d.prompt.Subscribe(func(prompt) { notify() }),
		d.saving.Subscribe(func(bool) { notify() }),
		d.failure.Subscribe(func(string) { notify() }),
	}
	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}

// Actual returns the committed state.
func (d *DeveloperMode) Actual() *reactive.BoolSignal {
	return d.actual
}

// Render returns the switch, the prompt when open, and a status line.
func (d *DeveloperMode) Render() *vdom.VNode {
	return d.toggle.Render()
}

// Dispose releases the switch's subscriptions.
func (d *DeveloperMode) Dispose() {
	d.toggle.Dispose()
}

func (d *DeveloperMode) build(shown, actual statesync.Binding, sync statesync.Sync) *vdom.VNode {
	st := d.State()
	return vdom.Section(vdom.Class("dev-mode"),
		vdom.Label(
			vdom.Input(
				vdom.Type("checkbox"),
				vdom.Role("switch"),
				vdom.Checked(shown.Get()),
				vdom.Disabled(st.Saving),
				vdom.AriaBusy(shown.Get() != actual.Get()),
				vdom.OnChange(func() { shown.Set(!shown.Get()) }),
			),
			"Developer mode",
		),
		vdom.If(st.Prompt, vdom.Dialog(
			vdom.Open(true),
			vdom.Role("alertdialog"),
			vdom.P(promptText(st.Target)),
			// A failed save lands in State.Error; ErrNoPrompt only means a
			// repeated click.
			vdom.Button(vdom.Class("confirm"), vdom.OnClick(func() { _ = d.Confirm() }), "Confirm"),
			vdom.Button(vdom.Class("cancel"), vdom.OnClick(sync), "Cancel"),
		)),
		vdom.P(vdom.Class("status"), vdom.Textf("Status: %s", st.Status())),
		vdom.If(st.Error != "", vdom.P(vdom.Class("error"), vdom.Textf("Save failed: %s", st.Error))),
	)
}

func promptText(target bool) string {
	if target {
		return "Enable developer mode? Diagnostic tools will be visible to this account."
	}
	return "Disable developer mode?"
}
