package main

import (
	"net/http"

	"comforttech.in/ac-web/internal/lead"
	mw "comforttech.in/ac-web/internal/middleware"
)

// BookingView is the booking form at a given step.
type BookingView struct {
	Step       int
	Total      int
	Title      string
	Field      string
	Optional   bool
	First      bool
	Last       bool
	Steps      []BookingStepView
	Values     BookingValues
	Services   []string
	Errors     lead.FieldErrors
	Error      string
	MinDate    string
	MaxMessage int
	CSRFToken  string
	Submitted  *BookingReceiptView
}

// BookingStepView is one dot in the progress indicator.
type BookingStepView struct {
	Number  int
	Title   string
	Done    bool
	Current bool
}

// BookingValues mirrors the draft as strings for form inputs.
type BookingValues struct {
	Name    string
	Phone   string
	Service string
	Date    string
	Message string
}

// BookingReceiptView acknowledges a sent booking until the draft clears.
type BookingReceiptView struct {
	Reference string
	Link      string
	Service   string
	ResetMS   int64
}

// flowFor wraps the session's draft. A reset that came due since the last
// request is applied and persisted.
func (s *server) flowFor(r *http.Request) *lead.Flow {
	sess := mw.GetSession(r)
	hadReset := !sess.Lead.ResetAt.IsZero()
	flow := lead.NewFlow(&sess.Lead,
		lead.WithClock(s.now),
		lead.WithLocation(s.cfg.Booking.Location),
		lead.WithResetDelay(s.cfg.Booking.ResetDelay),
		lead.WithLinker(s.linker),
		lead.WithServices(s.catalog.ServiceNames()),
	)
	if hadReset && !flow.Pending() {
		sess.MarkDirty()
	}
	return flow
}

// bookingView projects the flow. raw, when set, replaces the displayed value
// of the fields it names so rejected input is echoed back.
func (s *server) bookingView(r *http.Request, flow *lead.Flow, verr *lead.ValidationError, raw ...map[lead.Field]string) BookingView {
	st := flow.State()
	step := st.Step
	loc := s.cfg.Booking.Location
	if loc == nil {
		loc = lead.DefaultLocation()
	}
	v := BookingView{
		Step:       int(step),
		Total:      int(lead.LastStep),
		Title:      step.Title(),
		Field:      string(step.Field()),
		Optional:   step.Optional(),
		First:      step == lead.FirstStep,
		Last:       step == lead.LastStep,
		Services:   flow.Services(),
		MinDate:    s.now().In(loc).Format(lead.DateLayout),
		MaxMessage: lead.MaxMessageLength,
		CSRFToken:  mw.CSRFToken(r),
		Values: BookingValues{
			Name:    st.Name,
			Phone:   st.Phone,
			Service: st.Service,
			Message: st.Message,
		},
	}
	if st.Date != nil {
		v.Values.Date = st.Date.In(loc).Format(lead.DateLayout)
	}
	for n := lead.FirstStep; n <= lead.LastStep; n++ {
		v.Steps = append(v.Steps, BookingStepView{
			Number:  int(n),
			Title:   n.Title(),
			Done:    n < step,
			Current: n == step,
		})
	}
	if verr != nil {
		v.Errors = verr.Fields
		v.Error = verr.Message(step.Field())
		if v.Error == "" {
			for _, f := range lead.Fields {
				if msg := verr.Message(f); msg != "" {
					v.Error = msg
					break
				}
			}
		}
	}
	v.Submitted = s.pendingReceipt(flow)
	for _, m := range raw {
		for f, val := range m {
			switch f {
			case lead.FieldName:
				v.Values.Name = val
			case lead.FieldPhone:
				v.Values.Phone = val
			case lead.FieldService:
				v.Values.Service = val
			case lead.FieldDate:
				v.Values.Date = val
			case lead.FieldMessage:
				v.Values.Message = val
			}
		}
	}
	return v
}

func receiptView(rc lead.Receipt, service string) *BookingReceiptView {
	reset := rc.ResetAt.Sub(rc.SubmittedAt)
	if reset < 0 {
		reset = 0
	}
	return &BookingReceiptView{
		Reference: rc.Reference,
		Link:      rc.Link,
		Service:   service,
		ResetMS:   reset.Milliseconds(),
	}
}

// pendingReceipt rebuilds the acknowledgement for a draft awaiting reset.
func (s *server) pendingReceipt(flow *lead.Flow) *BookingReceiptView {
	st := flow.State()
	if st.ResetAt.IsZero() {
		return nil
	}
	remaining := st.ResetAt.Sub(s.now())
	if remaining < 0 {
		remaining = 0
	}
	return &BookingReceiptView{
		Link:    s.linker.Link(lead.ComposeMessage(st)),
		Service: st.Service,
		ResetMS: remaining.Milliseconds(),
	}
}
