package pipe

import (
	"fmt"
)

// Func is a stage function: it receives the normalized piped-in value and
// may fail.
type Func func(Value) (Value, error)

// BindFunc is a stage function with extra fixed arguments; the piped-in
// value stays the leading argument.
type BindFunc func(v Value, args ...any) (Value, error)

// Pipe wraps one fault-absorbed stage function. A Pipe is immutable once
// constructed: composition allocates a fresh instance, and applying one has
// no effect on it.
type Pipe struct {
	fn    func(Value) Outcome
	warns *Warnings
}

// Option configures a Pipe at construction.
type Option func(*options)

type options struct {
	warns *Warnings
}

// WithWarnings injects the collector absorbed faults are reported to.
func WithWarnings(w *Warnings) Option {
	return func(o *options) { o.warns = w }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.warns == nil {
		o.warns = NewWarnings(nil)
	}
	return o
}

func newPipe(o *options, fn Func) *Pipe {
	return &Pipe{fn: absorb(fn, o.warns), warns: o.warns}
}

// New builds a Pipe around fn. Any error or panic raised by fn is absorbed
// into an absent Outcome plus one warning; it never propagates.
func New(fn Func, opts ...Option) *Pipe {
	return newPipe(newOptions(opts), fn)
}

// Bind builds a Pipe around fn with args fixed, the partial-application form:
// the piped-in value is still supplied as the leading argument.
func Bind(fn BindFunc, args ...any) *Pipe {
	return New(func(v Value) (Value, error) {
		return fn(v, args...)
	})
}

// BindWith is Bind with construction options.
func BindWith(fn BindFunc, opts []Option, args ...any) *Pipe {
	return New(func(v Value) (Value, error) {
		return fn(v, args...)
	}, opts...)
}

// absorb converts fn into a total function: errors and panics become absent
// Outcomes, each reported once to warns.
func absorb(fn Func, warns *Warnings) func(Value) Outcome {
	return func(v Value) (out Outcome) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic recovered: %v", r)
				warns.Warn(err)
				out = Fail(err)
			}
		}()
		res, err := fn(v)
		if err != nil {
			warns.Warn(err)
			return Fail(err)
		}
		return Success(res)
	}
}

// Apply evaluates the pipe: the input is normalized through Of, the wrapped
// function invoked, and a present result flattened. An absorbed fault yields
// the nil scalar, substituting for the missing value.
func (p *Pipe) Apply(v any) Value {
	out := p.ApplyOutcome(v)
	if !out.IsSuccess() {
		return Value{}
	}
	return out.Result()
}

// ApplyOutcome is Apply without the nil collapse, for callers that want to
// pattern-match on presence.
func (p *Pipe) ApplyOutcome(v any) Outcome {
	out := p.fn(Of(v))
	if !out.IsSuccess() {
		return out
	}
	return Success(Flatten(out.Result()))
}

// Then composes sequentially: the result of p feeds into next. An absorbed
// fault in p flows on as the nil scalar, exactly as if next had been applied
// to it directly, so composition is associative in observable behavior.
func (p *Pipe) Then(next *Pipe) *Pipe {
	return &Pipe{
		warns: p.warns,
		fn: func(v Value) Outcome {
			mid := p.fn(v)
			var m Value
			if mid.IsSuccess() {
				m = Flatten(mid.Result())
			}
			return next.fn(m)
		},
	}
}

// Compose folds Then over stages left to right. With no stages it returns
// the identity pipe.
func Compose(stages ...*Pipe) *Pipe {
	if len(stages) == 0 {
		return New(func(v Value) (Value, error) { return v, nil })
	}
	p := stages[0]
	for _, next := range stages[1:] {
		p = p.Then(next)
	}
	return p
}

// Warnings returns the collector absorbed faults are reported to.
func (p *Pipe) Warnings() *Warnings {
	return p.warns
}
