package lead

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type recorder struct{ links []string }

func (r *recorder) Open(_ context.Context, link string) { r.links = append(r.links, link) }

func newTestFlow(t *testing.T, state *State) (*Flow, *clock) {
	t.Helper()
	loc := DefaultLocation()
	clk := &clock{now: time.Date(2026, time.March, 5, 10, 0, 0, 0, loc)}
	f := NewFlow(state,
		WithClock(clk.Now),
		WithLocation(loc),
		WithIDGenerator(func() string { return "01TESTREFERENCE" }),
	)
	return f, clk
}

func fill(t *testing.T, f *Flow, values map[Field]string) {
	t.Helper()
	for field, v := range values {
		require.NoError(t, f.Set(field, v))
	}
}

func TestAdvanceNameStep(t *testing.T) {
	t.Parallel()

	f, _ := newTestFlow(t, nil)
	require.NoError(t, f.Set(FieldName, "S2"))
	err := f.Advance()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Name must be at least 3 characters", verr.Message(FieldName))
	require.Equal(t, StepName, f.Step())

	require.NoError(t, f.Set(FieldName, "S22"))
	require.ErrorAs(t, f.Advance(), &verr)
	require.Equal(t, "Name must contain only letters and spaces", verr.Message(FieldName))

	require.NoError(t, f.Set(FieldName, "Sagar Shinde"))
	require.NoError(t, f.Advance())
	require.Equal(t, StepPhone, f.Step())
}

func TestAdvancePhoneStep(t *testing.T) {
	t.Parallel()

	cases := []struct {
		phone string
		ok    bool
	}{
		{"9876543210", true},
		{"+919876543210", true},
		{"6000000000", true},
		{"5123456789", false},
		{"12345", false},
		{"98765432101", false},
		{"+449876543210", false},
		{"", false},
	}
	for _, tc := range cases {
		f, _ := newTestFlow(t, &State{Name: "Sagar Shinde", Step: StepPhone})
		require.NoError(t, f.Set(FieldPhone, tc.phone))
		err := f.Advance()
		if tc.ok {
			require.NoError(t, err, tc.phone)
			require.Equal(t, StepService, f.Step())
			continue
		}
		require.Error(t, err, tc.phone)
		require.Equal(t, StepPhone, f.Step(), tc.phone)
	}
}

func TestAdvanceServiceStep(t *testing.T) {
	t.Parallel()

	f, _ := newTestFlow(t, &State{Step: StepService})
	err := f.Advance()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Please select a service", verr.Message(FieldService))

	require.NoError(t, f.Set(FieldService, "Window Cleaning"))
	require.Error(t, f.Advance())

	require.NoError(t, f.Set(FieldService, "Gas Refill"))
	require.NoError(t, f.Advance())
	require.Equal(t, StepDate, f.Step())
}

func TestAdvanceDateStep(t *testing.T) {
	t.Parallel()

	cases := []struct {
		date string
		ok   bool
	}{
		{"", true},
		{"2026-03-04", false},
		{"2026-03-05", true},
		{"2026-03-06", true},
	}
	for _, tc := range cases {
		f, _ := newTestFlow(t, &State{Step: StepDate})
		require.NoError(t, f.Set(FieldDate, tc.date))
		err := f.Advance()
		if tc.ok {
			require.NoError(t, err, tc.date)
			require.Equal(t, StepMessage, f.Step())
			continue
		}
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, tc.date)
		require.Equal(t, "Date must be today or in the future", verr.Message(FieldDate))
		require.Equal(t, StepDate, f.Step())
	}
}

func TestSetRejectsMalformedDate(t *testing.T) {
	t.Parallel()

	f, _ := newTestFlow(t, &State{Step: StepDate})
	var verr *ValidationError
	require.ErrorAs(t, f.Set(FieldDate, "05/03/2026"), &verr)
	require.Equal(t, "Please pick a valid date", verr.Message(FieldDate))
	require.Nil(t, f.State().Date)

	require.Error(t, f.Set(Field("email"), "x"))
}

func TestAdvanceIsNoOpOnLastStep(t *testing.T) {
	t.Parallel()

	f, _ := newTestFlow(t, &State{Step: StepMessage})
	require.NoError(t, f.Set(FieldMessage, strings.Repeat("a", MaxMessageLength+1)))
	require.NoError(t, f.Advance())
	require.Equal(t, StepMessage, f.Step())
	require.Equal(t, "Message must be less than 500 characters", f.Check(FieldMessage))

	require.NoError(t, f.Set(FieldMessage, strings.Repeat("न", MaxMessageLength)))
	require.Empty(t, f.Check(FieldMessage))
}

func TestRetreatFloorsAtFirstStep(t *testing.T) {
	t.Parallel()

	f, _ := newTestFlow(t, nil)
	f.Retreat()
	require.Equal(t, StepName, f.Step())

	f, _ = newTestFlow(t, &State{Step: StepDate, Date: nil})
	f.Retreat()
	f.Retreat()
	require.Equal(t, StepPhone, f.Step())
}

func TestRetreatKeepsValues(t *testing.T) {
	t.Parallel()

	f, _ := newTestFlow(t, nil)
	fill(t, f, map[Field]string{FieldName: "Sagar Shinde"})
	require.NoError(t, f.Advance())
	require.NoError(t, f.Set(FieldPhone, "123"))
	f.Retreat()
	require.Equal(t, StepName, f.Step())
	require.Equal(t, "123", f.State().Phone)
}

func TestSubmitOpensLinkOnceAndResets(t *testing.T) {
	t.Parallel()

	f, clk := newTestFlow(t, nil)
	fill(t, f, map[Field]string{
		FieldName:    "Rahul Shah",
		FieldPhone:   "9988776655",
		FieldService: "AC Repair",
	})

	rec := &recorder{}
	receipt, err := f.Submit(context.Background(), rec)
	require.NoError(t, err)

	wantText := "🔧 New Service Booking Request\n\nName: Rahul Shah\nPhone: 9988776655\nService: AC Repair\nPreferred Date: Not specified\nMessage: No additional message"
	require.Equal(t, wantText, receipt.Text)
	wantLink := "https://wa.me/917745046520?text=%F0%9F%94%A7%20New%20Service%20Booking%20Request%0A%0AName%3A%20Rahul%20Shah%0APhone%3A%209988776655%0AService%3A%20AC%20Repair%0APreferred%20Date%3A%20Not%20specified%0AMessage%3A%20No%20additional%20message"
	require.Equal(t, wantLink, receipt.Link)
	require.Equal(t, []string{wantLink}, rec.links)
	require.Equal(t, "01TESTREFERENCE", receipt.Reference)
	require.Equal(t, clk.now.Add(DefaultResetDelay), receipt.ResetAt)

	require.True(t, f.Pending())
	require.Equal(t, "Rahul Shah", f.State().Name)
	_, err = f.Submit(context.Background(), rec)
	require.ErrorIs(t, err, ErrAlreadySubmitted)
	require.Len(t, rec.links, 1)

	clk.Advance(DefaultResetDelay)
	require.False(t, f.Pending())
	require.Equal(t, State{Step: StepName}, f.State())
}

func TestSubmitWithDateAndMessage(t *testing.T) {
	t.Parallel()

	f, _ := newTestFlow(t, nil)
	fill(t, f, map[Field]string{
		FieldName:    "Priya Kulkarni",
		FieldPhone:   "+919876543210",
		FieldService: "Deep Cleaning",
		FieldDate:    "2026-03-06",
		FieldMessage: "  Split AC in bedroom  ",
	})
	receipt, err := f.Submit(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(receipt.Text,
		"Service: Deep Cleaning\nPreferred Date: 06-Mar-2026\nMessage: Split AC in bedroom"), receipt.Text)
}

func TestSetRejectsMarkup(t *testing.T) {
	t.Parallel()

	f, _ := newTestFlow(t, nil)
	var verr *ValidationError
	require.ErrorAs(t, f.Set(FieldName, "<b>Sagar</b>"), &verr)
	require.Equal(t, msgMarkup, verr.Message(FieldName))
	require.Empty(t, f.State().Name)
	require.Error(t, f.Advance())
	require.Equal(t, StepName, f.Step())

	require.ErrorAs(t, f.Set(FieldMessage, "Split AC in <b>bedroom</b>"), &verr)
	require.Equal(t, msgMarkup, verr.Message(FieldMessage))
	require.Empty(t, f.State().Message)

	require.NoError(t, f.Set(FieldName, "  Sagar Shinde "))
	require.Equal(t, "Sagar Shinde", f.State().Name)
	require.NoError(t, f.Set(FieldMessage, "Tom & Jerry say 2 < 3"))
	require.Equal(t, "Tom & Jerry say 2 < 3", f.State().Message)
}

func TestSubmitRequiresNamePhoneService(t *testing.T) {
	t.Parallel()

	f, _ := newTestFlow(t, nil)
	fill(t, f, map[Field]string{
		FieldName:  "Rahul Shah",
		FieldPhone: "9988776655",
	})
	rec := &recorder{}
	_, err := f.Submit(context.Background(), rec)
	require.ErrorIs(t, err, ErrMissingInformation)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Fields, FieldService)
	require.Empty(t, rec.links)
	require.False(t, f.Pending())
	require.Equal(t, "Rahul Shah", f.State().Name)
}

func TestSubmitIgnoresSkippedDateValidation(t *testing.T) {
	t.Parallel()

	f, _ := newTestFlow(t, nil)
	fill(t, f, map[Field]string{
		FieldName:    "Rahul Shah",
		FieldPhone:   "9988776655",
		FieldService: "AC Repair",
		FieldDate:    "2026-03-01",
	})
	receipt, err := f.Submit(context.Background(), nil)
	require.NoError(t, err)
	require.Contains(t, receipt.Text, "Preferred Date: 01-Mar-2026")
}

func TestZeroResetDelayClearsOnNextAccess(t *testing.T) {
	t.Parallel()

	f, _ := newTestFlow(t, nil)
	f = NewFlow(f.state, WithClock(f.now), WithResetDelay(0))
	fill(t, f, map[Field]string{
		FieldName:    "Rahul Shah",
		FieldPhone:   "9988776655",
		FieldService: "AC Repair",
	})
	_, err := f.Submit(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, StepName, f.Step())
	require.Empty(t, f.State().Name)
}
