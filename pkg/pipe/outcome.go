package pipe

// Outcome is the two-variant result of one absorbed stage call: either a
// value is present, or it is absent with the fault that suppressed it.
type Outcome struct {
	value     Value
	err       error
	isSuccess bool
}

func Success(v Value) Outcome {
	return Outcome{value: v, isSuccess: true}
}

func Fail(err error) Outcome {
	return Outcome{err: err}
}

// Result returns the present value; the zero Value when absent.
func (o Outcome) Result() Value {
	return o.value
}

// Err returns the fault that suppressed the value, if any.
func (o Outcome) Err() error {
	return o.err
}

func (o Outcome) IsSuccess() bool {
	return o.isSuccess
}
