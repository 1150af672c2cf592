package validator

// Validator collects field-level validation errors
type Validator struct {
	Errors map[string]string
}

// New returns a Validator with an empty error map
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if no errors have been recorded
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records an error for a field, first message wins
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check records an error for a field when ok is false
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// ValidationError wraps field errors for transport in API responses
type ValidationError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// NewValidationError builds a ValidationError from a message and field errors
func NewValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

func (e *ValidationError) Error() string {
	return e.Message
}
