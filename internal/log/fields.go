package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldUserID      = "user_id"
	FieldTxID        = "transaction_id"
	FieldDebtID      = "debt_id"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldRefDate     = "reference_date"
)

// Standard component names.
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentClassifier = "classifier"
	ComponentSheets     = "sheets"
	ComponentAuth       = "auth"
)
