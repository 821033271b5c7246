package lead

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"comforttech.in/ac-web/internal/catalog"
)

// DefaultResetDelay is how long the success acknowledgment stays before the form clears.
const DefaultResetDelay = time.Second

// ErrAlreadySubmitted is returned when a submission arrives while the previous
// one is still being acknowledged.
var ErrAlreadySubmitted = errors.New("lead: booking already submitted")

// State is the in-progress booking draft. It is stored in the visitor session.
type State struct {
	Name    string     `json:"name,omitempty"`
	Phone   string     `json:"phone,omitempty"`
	Service string     `json:"service,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
	Message string     `json:"message,omitempty"`
	Step    Step       `json:"step"`
	ResetAt time.Time  `json:"resetAt,omitzero"`
}

// Opener hands a deep link to whatever opens it for the visitor. It is fire-and-forget.
type Opener interface {
	Open(ctx context.Context, link string)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, link string)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, link string) { f(ctx, link) }

// Receipt describes an accepted submission.
type Receipt struct {
	Reference   string
	Text        string
	Link        string
	SubmittedAt time.Time
	ResetAt     time.Time
}

// Flow drives a State through the five booking steps.
type Flow struct {
	state      *State
	services   []string
	now        func() time.Time
	loc        *time.Location
	resetDelay time.Duration
	linker     Linker
	newID      func() string
}

// Option customises a Flow.
type Option func(*Flow)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) {
		if now != nil {
			f.now = now
		}
	}
}

// WithLocation sets the zone used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(f *Flow) {
		if loc != nil {
			f.loc = loc
		}
	}
}

// WithResetDelay sets how long after submission the form clears.
func WithResetDelay(d time.Duration) Option {
	return func(f *Flow) {
		if d >= 0 {
			f.resetDelay = d
		}
	}
}

// WithLinker sets the deep link builder.
func WithLinker(l Linker) Option {
	return func(f *Flow) { f.linker = l }
}

// WithIDGenerator overrides how submission references are minted.
func WithIDGenerator(gen func() string) Option {
	return func(f *Flow) {
		if gen != nil {
			f.newID = gen
		}
	}
}

// WithServices restricts the service choices.
func WithServices(services []string) Option {
	return func(f *Flow) {
		if len(services) > 0 {
			f.services = append([]string(nil), services...)
		}
	}
}

// NewFlow wraps state. A nil state starts a fresh draft.
func NewFlow(state *State, opts ...Option) *Flow {
	if state == nil {
		state = &State{}
	}
	f := &Flow{
		state:      state,
		services:   catalog.Default().ServiceNames(),
		now:        time.Now,
		loc:        DefaultLocation(),
		resetDelay: DefaultResetDelay,
		linker:     Linker{Number: DefaultNumber},
		newID:      func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.state.Step = f.state.Step.Normalize()
	return f
}

// Services lists the selectable service labels.
func (f *Flow) Services() []string {
	return append([]string(nil), f.services...)
}

// settle applies a reset whose delay has elapsed.
func (f *Flow) settle() {
	if !f.state.ResetAt.IsZero() && !f.now().Before(f.state.ResetAt) {
		*f.state = State{}
	}
	f.state.Step = f.state.Step.Normalize()
}

// State returns a copy of the current draft.
func (f *Flow) State() State {
	f.settle()
	out := *f.state
	if out.Date != nil {
		d := *out.Date
		out.Date = &d
	}
	return out
}

// Step reports the current step.
func (f *Flow) Step() Step {
	f.settle()
	return f.state.Step
}

// Pending reports whether a submission is being acknowledged and a reset is due.
func (f *Flow) Pending() bool {
	f.settle()
	return !f.state.ResetAt.IsZero()
}

// Set binds a field from trimmed form input. Input carrying markup is
// rejected with a field error and leaves the draft unchanged.
func (f *Flow) Set(field Field, value string) error {
	f.settle()
	if !slices.Contains(Fields, field) {
		return fmt.Errorf("lead: unknown field %q", field)
	}
	if HasMarkup(value) {
		return &ValidationError{Fields: FieldErrors{field: msgMarkup}}
	}
	value = strings.TrimSpace(value)
	switch field {
	case FieldName:
		f.state.Name = value
	case FieldPhone:
		f.state.Phone = value
	case FieldService:
		f.state.Service = value
	case FieldDate:
		date, err := ParseDate(value, f.loc)
		if err != nil {
			return err
		}
		f.state.Date = date
	case FieldMessage:
		f.state.Message = value
	default:
		return fmt.Errorf("lead: unknown field %q", field)
	}
	return nil
}

// Check returns the validation message for field against the current draft.
func (f *Flow) Check(field Field) string {
	switch field {
	case FieldName:
		return ValidateName(f.state.Name)
	case FieldPhone:
		return ValidatePhone(f.state.Phone)
	case FieldService:
		return ValidateService(f.state.Service, f.services)
	case FieldDate:
		return ValidateDate(f.state.Date, f.now(), f.loc)
	case FieldMessage:
		return ValidateMessage(f.state.Message)
	}
	return ""
}

// Advance validates the current step's field and moves forward. It is a no-op
// on the last step.
func (f *Flow) Advance() error {
	f.settle()
	step := f.state.Step
	if step >= LastStep {
		return nil
	}
	if msg := f.Check(step.Field()); msg != "" {
		return &ValidationError{Fields: FieldErrors{step.Field(): msg}}
	}
	f.state.Step = step + 1
	return nil
}

// Retreat moves back one step without validating.
func (f *Flow) Retreat() {
	f.settle()
	if f.state.Step > FirstStep {
		f.state.Step--
	}
}

// Submit composes the booking text, opens the deep link once and schedules
// the draft to clear after the reset delay.
func (f *Flow) Submit(ctx context.Context, opener Opener) (Receipt, error) {
	f.settle()
	if !f.state.ResetAt.IsZero() {
		return Receipt{}, ErrAlreadySubmitted
	}

	missing := FieldErrors{}
	for _, field := range []Field{FieldName, FieldPhone, FieldService} {
		if msg := f.Check(field); msg != "" {
			missing[field] = msg
		}
	}
	if len(missing) > 0 {
		return Receipt{}, &ValidationError{Fields: missing, Err: ErrMissingInformation}
	}

	now := f.now()
	text := ComposeMessage(*f.state)
	receipt := Receipt{
		Reference:   f.newID(),
		Text:        text,
		Link:        f.linker.Link(text),
		SubmittedAt: now,
		ResetAt:     now.Add(f.resetDelay),
	}
	if opener != nil {
		opener.Open(ctx, receipt.Link)
	}
	f.state.ResetAt = receipt.ResetAt
	return receipt, nil
}

// Reset clears the draft immediately.
func (f *Flow) Reset() {
	*f.state = State{Step: FirstStep}
}
