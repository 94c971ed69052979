package protocol

import "encoding/json"

// Error body codes returned inside call payloads and error events
const (
	CodeInvalidParams        = "invalid_params"
	CodeNotConnected         = "not_connected"
	CodeToolCallError        = "tool_call_error"
	CodeResourceRequestError = "resource_request_error"
	CodeConnectionFailed     = "connection_failed"
	CodeConnectionLost       = "connection_lost"
)

// ErrorBody is the {"error": {...}} payload returned as a normal call result
type ErrorBody struct {
	Error ErrorEvent `json:"error"`
}

// ErrorJSON renders an error body
func ErrorJSON(code, message string) string {
	data, _ := json.Marshal(&ErrorBody{Error: ErrorEvent{Code: code, Message: message}})
	return string(data)
}
