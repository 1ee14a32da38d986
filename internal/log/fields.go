package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldPhone       = "phone"
	FieldAmountCents = "amount_cents"
	FieldBalance     = "balance_cents"
	FieldContactID   = "contact_id"
	FieldEnvelopeID  = "envelope_id"
	FieldRuleID      = "rule_id"
	FieldEventKind   = "event_kind"
	FieldEventCount  = "event_count"
	FieldDirection   = "direction"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentLedger     = "ledger"
	ComponentAutomation = "automation"
	ComponentJournal    = "journal"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentBackend    = "backend"
	ComponentCache      = "cache"
)

// Operations defines standard operation names
const (
	OpLogin     = "login"
	OpLogout    = "logout"
	OpTransfer  = "transfer"
	OpInbound   = "inbound_transfer"
	OpRecharge  = "recharge"
	OpAllocate  = "allocate"
	OpCreate    = "create"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpPublish   = "publish"
	OpConsume   = "consume"
	OpRecord    = "record"
	OpBiometric = "biometric"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithMovement adds the phone and amount of a money movement
func (f LogFields) WithMovement(phone string, amountCents int64) LogFields {
	f[FieldPhone] = phone
	f[FieldAmountCents] = amountCents
	return f
}

// WithHTTP adds request and response fields
func (f LogFields) WithHTTP(method, path string, statusCode int, durationMs int64) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
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
