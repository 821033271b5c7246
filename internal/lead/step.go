package lead

// Field names a booking form input.
type Field string

const (
	FieldName    Field = "name"
	FieldPhone   Field = "phone"
	FieldService Field = "service"
	FieldDate    Field = "date"
	FieldMessage Field = "message"
)

// Fields lists the form inputs in step order.
var Fields = []Field{FieldName, FieldPhone, FieldService, FieldDate, FieldMessage}

// Step is the 1-based position in the booking form.
type Step int

const (
	StepName Step = iota + 1
	StepPhone
	StepService
	StepDate
	StepMessage
)

const (
	FirstStep = StepName
	LastStep  = StepMessage
)

// Normalize clamps s into the valid step range.
func (s Step) Normalize() Step {
	if s < FirstStep {
		return FirstStep
	}
	if s > LastStep {
		return LastStep
	}
	return s
}

// Field returns the input edited on this step.
func (s Step) Field() Field {
	return Fields[s.Normalize()-1]
}

// Optional reports whether the step can be left blank.
func (s Step) Optional() bool {
	s = s.Normalize()
	return s == StepDate || s == StepMessage
}

// Title is the heading shown above the step's input.
func (s Step) Title() string {
	switch s.Normalize() {
	case StepName:
		return "Your Name"
	case StepPhone:
		return "Phone Number"
	case StepService:
		return "Select Service"
	case StepDate:
		return "Preferred Date"
	default:
		return "Additional Details"
	}
}
