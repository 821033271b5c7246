package main

import (
	"context"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"comforttech.in/ac-web/internal/lead"
	mw "comforttech.in/ac-web/internal/middleware"
	"comforttech.in/ac-web/internal/observability"
)

const bookingOpenEvent = "booking:open"

// BookingHandler renders the form at the visitor's current step.
func (s *server) BookingHandler(w http.ResponseWriter, r *http.Request) {
	flow := s.flowFor(r)
	s.respondBooking(w, r, http.StatusOK, s.bookingView(r, flow, nil))
}

// BookingNextHandler binds the current step's input and advances when it is valid.
func (s *server) BookingNextHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	sess := mw.GetSession(r)
	flow := s.flowFor(r)
	if flow.Pending() {
		s.respondBooking(w, r, http.StatusConflict, s.bookingView(r, flow, nil))
		return
	}

	step := flow.Step()
	field := step.Field()
	value := r.PostFormValue(string(field))
	raw := map[lead.Field]string{field: value}

	if err := flow.Set(field, value); err != nil {
		var verr *lead.ValidationError
		if !errors.As(err, &verr) {
			mw.WriteError(w, r, http.StatusBadRequest, "invalid form")
			return
		}
		s.metrics.ObserveStep(int(step), "invalid")
		s.respondBooking(w, r, http.StatusUnprocessableEntity, s.bookingView(r, flow, verr, raw))
		return
	}
	sess.MarkDirty()

	if err := flow.Advance(); err != nil {
		var verr *lead.ValidationError
		if !errors.As(err, &verr) {
			observability.FromContext(r.Context()).Error("booking advance", zap.Error(err))
			mw.WriteError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		s.metrics.ObserveStep(int(step), "invalid")
		s.respondBooking(w, r, http.StatusUnprocessableEntity, s.bookingView(r, flow, verr))
		return
	}
	s.metrics.ObserveStep(int(step), "advanced")
	s.respondBooking(w, r, http.StatusOK, s.bookingView(r, flow, nil))
}

// BookingBackHandler keeps whatever was typed on the current step and moves back.
func (s *server) BookingBackHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	sess := mw.GetSession(r)
	flow := s.flowFor(r)
	if !flow.Pending() {
		field := flow.Step().Field()
		if values, ok := r.PostForm[string(field)]; ok && len(values) > 0 {
			// input that fails to bind is dropped rather than blocking navigation
			_ = flow.Set(field, values[0])
		}
		step := flow.Step()
		flow.Retreat()
		sess.MarkDirty()
		s.metrics.ObserveStep(int(step), "back")
	}
	s.respondBooking(w, r, http.StatusOK, s.bookingView(r, flow, nil))
}

// BookingSubmitHandler composes the booking message and hands the deep link to
// the browser: htmx clients receive a booking:open event, others a redirect.
func (s *server) BookingSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	logger := observability.FromContext(r.Context())
	sess := mw.GetSession(r)
	flow := s.flowFor(r)

	ctx, span := observability.Tracer().Start(r.Context(), "booking.submit")
	defer span.End()

	if flow.Pending() {
		s.metrics.ObserveSubmission("duplicate")
		span.SetStatus(codes.Error, lead.ErrAlreadySubmitted.Error())
		s.respondBooking(w, r, http.StatusConflict, s.bookingView(r, flow, nil))
		return
	}

	if values, ok := r.PostForm[string(lead.FieldMessage)]; ok && len(values) > 0 {
		raw := map[lead.Field]string{lead.FieldMessage: values[0]}
		if err := flow.Set(lead.FieldMessage, values[0]); err != nil {
			var verr *lead.ValidationError
			if !errors.As(err, &verr) {
				mw.WriteError(w, r, http.StatusBadRequest, "invalid form")
				return
			}
			s.metrics.ObserveSubmission("invalid")
			span.SetStatus(codes.Error, "message rejected")
			s.respondBooking(w, r, http.StatusUnprocessableEntity, s.bookingView(r, flow, verr, raw))
			return
		}
		sess.MarkDirty()
		if msg := flow.Check(lead.FieldMessage); msg != "" {
			s.metrics.ObserveSubmission("invalid")
			span.SetStatus(codes.Error, "message too long")
			verr := &lead.ValidationError{Fields: lead.FieldErrors{lead.FieldMessage: msg}}
			s.respondBooking(w, r, http.StatusUnprocessableEntity, s.bookingView(r, flow, verr, raw))
			return
		}
	}

	var link string
	receipt, err := flow.Submit(ctx, lead.OpenerFunc(func(_ context.Context, l string) { link = l }))
	if err != nil {
		var verr *lead.ValidationError
		switch {
		case errors.Is(err, lead.ErrAlreadySubmitted):
			s.metrics.ObserveSubmission("duplicate")
			span.SetStatus(codes.Error, err.Error())
			s.respondBooking(w, r, http.StatusConflict, s.bookingView(r, flow, nil))
		case errors.As(err, &verr):
			s.metrics.ObserveSubmission("missing")
			span.SetStatus(codes.Error, err.Error())
			s.respondBooking(w, r, http.StatusUnprocessableEntity, s.bookingView(r, flow, verr))
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Error("booking submit", zap.Error(err))
			mw.WriteError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return
	}
	sess.MarkDirty()

	service := flow.State().Service
	s.metrics.ObserveSubmission("sent")
	span.SetAttributes(
		attribute.String("booking.reference", receipt.Reference),
		attribute.String("booking.service", service),
	)
	logger.Info("booking submitted",
		zap.String("reference", receipt.Reference),
		zap.String("service", service),
	)

	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, link, http.StatusSeeOther)
		return
	}
	mw.Trigger(w, bookingOpenEvent, map[string]string{
		"url":       link,
		"reference": receipt.Reference,
	})
	view := s.bookingView(r, flow, nil)
	view.Submitted = receiptView(receipt, service)
	s.renderTemplate(w, r, http.StatusOK, "booking_form", view)
}

// respondBooking swaps the form fragment for htmx and falls back to
// post/redirect/get for plain form posts.
func (s *server) respondBooking(w http.ResponseWriter, r *http.Request, status int, view BookingView) {
	if mw.IsHTMX(r.Context()) {
		s.renderTemplate(w, r, status, "booking_form", view)
		return
	}
	if r.Method != http.MethodGet && status == http.StatusOK {
		http.Redirect(w, r, "/booking", http.StatusSeeOther)
		return
	}
	vm := s.basePage(r, "Book a Service", "Book AC servicing, installation or repair in Pune over WhatsApp.")
	vm.Booking = view
	s.renderPage(w, r, status, "booking", vm)
}
