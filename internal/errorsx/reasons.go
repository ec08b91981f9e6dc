package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	// Completion client.
	ReasonTransport ReasonCode = "transport" // network unreachable / timeout
	ReasonUpstream  ReasonCode = "upstream"  // error status or unparseable body

	// Dispatch.
	ReasonUnknownAction    ReasonCode = "unknown_action"
	ReasonInvalidArguments ReasonCode = "invalid_arguments"

	// Weather / news executors.
	ReasonExternalService ReasonCode = "external_service"

	ReasonConfig ReasonCode = "config"
)
