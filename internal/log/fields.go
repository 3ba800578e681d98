package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldErrorType = "error_type"
	FieldSalary    = "salary"
	FieldNet       = "net_salary"
	FieldIndex     = "index"
	FieldLabel     = "label"
	FieldCount     = "count"
	FieldMode      = "mode"
	FieldFormat    = "format"
	FieldPath      = "path"
	FieldBackend   = "backend"
	FieldReportID  = "report_id"
	FieldDuration  = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentSession = "session"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpCompute = "compute"
	OpAdd     = "add"
	OpEdit    = "edit"
	OpDelete  = "delete"
	OpWipe    = "wipe"
	OpImport  = "import"
	OpCompose = "compose"
	OpExport  = "export"
	OpLoad    = "load"
	OpSave    = "save"
	OpStartup = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeDatabase   = "database_error"
	ErrorTypeNotFound   = "not_found_error"
	ErrorTypeParse      = "parse_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error message, skipping nil errors.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithSlot adds the ledger slot fields of an expense change.
func (f LogFields) WithSlot(index int, label string) LogFields {
	f[FieldIndex] = index
	f[FieldLabel] = label
	return f
}

// WithResult adds the headline figures of a computation.
func (f LogFields) WithResult(salary, net float64) LogFields {
	f[FieldSalary] = salary
	f[FieldNet] = net
	return f
}

func (f LogFields) With(key string, value any) LogFields {
	f[key] = value
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
