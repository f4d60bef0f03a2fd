package errors

// Error codes for the hub and chain contracts. Keep stable; used across adapters, hub and chain.
const (
	ErrCodeTopicRequired        = "eventhub.topic_required"
	ErrCodeCallbackRequired     = "eventhub.callback_required"
	ErrCodeHandlerFault         = "eventhub.handler_fault"
	ErrCodeArgumentMismatch     = "eventhub.argument_mismatch"
	ErrCodeUnhandled            = "chain.unhandled"
	ErrCodeHandlerExists        = "chain.handler_exists"
	ErrCodeHandlerNotFound      = "chain.handler_not_found"
	ErrCodeForwardNotConfigured = "relay.forward_not_configured"
	ErrCodeForwardFailed        = "relay.forward_failed"
	ErrCodeSerializationFailed  = "relay.serialization_failed"
)

// Code returns an error value that carries only a code string.
// It implements error by returning the code string in Error().
func Code(code string) error { return codedError(code) }

type codedError string

func (e codedError) Error() string { return string(e) }

var (
	ErrTopicRequired        = Code(ErrCodeTopicRequired)
	ErrCallbackRequired     = Code(ErrCodeCallbackRequired)
	ErrHandlerFault         = Code(ErrCodeHandlerFault)
	ErrArgumentMismatch     = Code(ErrCodeArgumentMismatch)
	ErrUnhandled            = Code(ErrCodeUnhandled)
	ErrHandlerExists        = Code(ErrCodeHandlerExists)
	ErrHandlerNotFound      = Code(ErrCodeHandlerNotFound)
	ErrForwardNotConfigured = Code(ErrCodeForwardNotConfigured)
	ErrForwardFailed        = Code(ErrCodeForwardFailed)
	ErrSerializationFailed  = Code(ErrCodeSerializationFailed)
)
