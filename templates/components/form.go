package components

// FormState carries submitted values and field errors back into a form
type FormState struct {
	Values map[string]string
	Errors map[string]string
}

// NewFormState returns an empty form state
func NewFormState() FormState {
	return FormState{Values: map[string]string{}, Errors: map[string]string{}}
}

// Get returns the submitted value of a field
func (f FormState) Get(name string) string {
	return f.Values[name]
}

// Set stores a field value
func (f FormState) Set(name, value string) {
	f.Values[name] = value
}

// Option is a select choice
type Option struct {
	Value string
	Label string
}

// EnumOptions builds select options from enumeration codes
func EnumOptions(codes []string, label func(string) string) []Option {
	options := make([]Option, 0, len(codes))
	for _, code := range codes {
		options = append(options, Option{Value: code, Label: label(code)})
	}
	return options
}

// Invalid reports whether name carries a field error
func (f FormState) Invalid(name string) bool {
	_, invalid := f.Errors[name]
	return invalid
}
