package bridge

import (
	"errors"
	"fmt"
)

// Code is a stable failure code reported to the host
type Code string

const (
	InitializationError  Code = "InitializationError"
	ConnectError         Code = "ConnectError"
	DisconnectError      Code = "DisconnectError"
	ConnectionCheckError Code = "ConnectionCheckError"
	ToolCallError        Code = "ToolCallError"
	ResourceRequestError Code = "ResourceRequestError"
	ServerInfoError      Code = "ServerInfoError"
	InputHandlingError   Code = "InputHandlingError"
	// NativeBoundaryFault classifies failures raised by the native layer; it is reported
	// alongside the operation code, never instead of it.
	NativeBoundaryFault Code = "NativeBoundaryFault"
)

// Operation identifies a host facing operation
type Operation string

const (
	OpInitialize      Operation = "initialize"
	OpConnect         Operation = "connect"
	OpDisconnect      Operation = "disconnect"
	OpIsConnected     Operation = "isConnected"
	OpCallTool        Operation = "callTool"
	OpRequestResource Operation = "requestResource"
	OpGetServerInfo   Operation = "getServerInfo"
	OpHandleInput     Operation = "handleInput"
)

var operationCodes = map[Operation]Code{
	OpInitialize:      InitializationError,
	OpConnect:         ConnectError,
	OpDisconnect:      DisconnectError,
	OpIsConnected:     ConnectionCheckError,
	OpCallTool:        ToolCallError,
	OpRequestResource: ResourceRequestError,
	OpGetServerInfo:   ServerInfoError,
	OpHandleInput:     InputHandlingError,
}

var operationFailures = map[Operation]string{
	OpInitialize:      "failed to initialize client",
	OpConnect:         "failed to connect",
	OpDisconnect:      "failed to disconnect",
	OpIsConnected:     "failed to check connection",
	OpCallTool:        "failed to call tool",
	OpRequestResource: "failed to request resource",
	OpGetServerInfo:   "failed to get server info",
	OpHandleInput:     "failed to handle input",
}

// Code returns the failure code of the operation
func (o Operation) Code() Code {
	if code, ok := operationCodes[o]; ok {
		return code
	}
	return NativeBoundaryFault
}

func (o Operation) failure() string {
	if msg, ok := operationFailures[o]; ok {
		return msg
	}
	return fmt.Sprintf("failed to %s", string(o))
}

var (
	// ErrNativeFault matches every error raised by the native layer
	ErrNativeFault = errors.New("native boundary fault")
	// ErrNotInitialized is the cause of calls made before a successful initialize
	ErrNotInitialized = errors.New("client not initialized")
	// ErrTimeout is the cause of calls that exceeded their deadline
	ErrTimeout = errors.New("call timed out")
	// ErrMissingArgument is the cause of calls missing a required argument
	ErrMissingArgument = errors.New("missing required argument")
	// ErrZeroHandle is returned when the native client creation yields no handle
	ErrZeroHandle = errors.New("native client creation returned 0")
)

// Error is a host facing rejection
type Error struct {
	Op      Operation
	Code    Code
	Message string
	Cause   error
	// Fault is set when the failure was raised by the native layer
	Fault bool
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	return target == ErrNativeFault && e.Fault
}

func newError(op Operation, cause error, fault bool) *Error {
	message := op.failure()
	if cause != nil {
		message += ": " + cause.Error()
	}
	return &Error{Op: op, Code: op.Code(), Message: message, Cause: cause, Fault: fault}
}

// CodeOf returns the failure code carried by err
func CodeOf(err error) (Code, bool) {
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		return bridgeErr.Code, true
	}
	return "", false
}

// RequireArg checks presence of a required host argument. Empty strings are accepted.
func RequireArg(op Operation, name string, value *string) (string, error) {
	if value == nil {
		return "", newError(op, fmt.Errorf("%w: %s", ErrMissingArgument, name), false)
	}
	return *value, nil
}
