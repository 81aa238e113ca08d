package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the closed set of reasons a fetch can fail.
type Kind int

const (
	ResolutionFailed Kind = iota + 1
	SocketCreateFailed
	ConnectFailed
	SendFailed
	JoinTimeout
	PriorSendFailed
	EmptyResponse
	NoHeaderBoundary
	LengthMismatch
	InvalidResponse
	NotGzip
	DecompressFailed
	CapabilityUnavailable
)

func (k Kind) String() string {
	switch k {
	case ResolutionFailed:
		return "ResolutionFailed"
	case SocketCreateFailed:
		return "SocketCreateFailed"
	case ConnectFailed:
		return "ConnectFailed"
	case SendFailed:
		return "SendFailed"
	case JoinTimeout:
		return "JoinTimeout"
	case PriorSendFailed:
		return "PriorSendFailed"
	case EmptyResponse:
		return "EmptyResponse"
	case NoHeaderBoundary:
		return "NoHeaderBoundary"
	case LengthMismatch:
		return "LengthMismatch"
	case InvalidResponse:
		return "InvalidResponse"
	case NotGzip:
		return "NotGzip"
	case DecompressFailed:
		return "DecompressFailed"
	case CapabilityUnavailable:
		return "CapabilityUnavailable"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error lets a bare Kind be used as an errors.Is target.
func (k Kind) Error() string {
	return defaultMessage(k)
}

func defaultMessage(k Kind) string {
	switch k {
	case ResolutionFailed:
		return "address resolution failed"
	case SocketCreateFailed:
		return "socket creation failed"
	case ConnectFailed:
		return "connect failed"
	case SendFailed:
		return "send failed"
	case JoinTimeout:
		return "connection task did not finish before the timeout"
	case PriorSendFailed:
		return "request was never sent"
	case EmptyResponse:
		return "empty server response received"
	case NoHeaderBoundary:
		return "no HTTP header end found"
	case LengthMismatch:
		return "content length mismatch"
	case InvalidResponse:
		return "invalid response"
	case NotGzip:
		return "content is marked gzip but is not gzip data"
	case DecompressFailed:
		return "failed to decompress response body"
	case CapabilityUnavailable:
		return "decompression is unavailable"
	default:
		return "unknown fetch error"
	}
}

func defaultSuggestions(k Kind) []string {
	switch k {
	case ResolutionFailed:
		return []string{
			"Check the host name for typos",
			"Try the other address family (-6 toggles IPv6)",
			"Verify DNS works on this machine",
		}
	case ConnectFailed, JoinTimeout:
		return []string{
			"Check if the server is running and listening on the port",
			"Increase the timeout with --timeout",
			"Check firewall settings",
		}
	case LengthMismatch, EmptyResponse, NoHeaderBoundary:
		return []string{
			"The response was cut short; retry the request",
			"Increase the timeout with --timeout",
		}
	case InvalidResponse:
		return []string{
			"Only 'HTTP/1.1 200 OK' responses are accepted",
			"Use -i to print the raw response headers",
		}
	case NotGzip, DecompressFailed:
		return []string{
			"Retry with --no-compress",
		}
	default:
		return nil
	}
}

// FetchError is the error returned by every failing fetch stage.
type FetchError struct {
	Kind        Kind
	Message     string   // user facing message
	Suggestions []string // possible solutions shown by the CLI
	Err         error    // underlying cause, may be nil
}

// Error implements the error interface
func (e *FetchError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = defaultMessage(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches another *FetchError or a bare Kind of the same kind.
func (e *FetchError) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *FetchError:
		return e.Kind == t.Kind
	}
	return false
}

// Detailed renders the message with suggestions, the way the CLI prints it.
func (e *FetchError) Detailed() string {
	var sb strings.Builder
	msg := e.Message
	if msg == "" {
		msg = defaultMessage(e.Kind)
	}
	sb.WriteString(msg)

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n\nPossible solutions:")
		for _, suggestion := range e.Suggestions {
			sb.WriteString("\n  • ")
			sb.WriteString(suggestion)
		}
	}

	if e.Err != nil {
		sb.WriteString("\n\nTechnical details: ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

// New creates a FetchError with the default message and suggestions for kind.
func New(kind Kind, err error) *FetchError {
	return &FetchError{
		Kind:        kind,
		Message:     defaultMessage(kind),
		Suggestions: defaultSuggestions(kind),
		Err:         err,
	}
}

// Newf creates a FetchError with a formatted message.
func Newf(kind Kind, err error, format string, args ...interface{}) *FetchError {
	return &FetchError{
		Kind:        kind,
		Message:     fmt.Sprintf(format, args...),
		Suggestions: defaultSuggestions(kind),
		Err:         err,
	}
}

// KindOf returns the kind of the first FetchError in err's chain, or 0.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return 0
}

// IsFetchError checks if an error is a FetchError
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// UserError represents a non-fetch error with a user-friendly message and suggestions
type UserError struct {
	Message     string
	Suggestions []string
	Err         error
}

// Error implements the error interface
func (e *UserError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n\nPossible solutions:")
		for _, suggestion := range e.Suggestions {
			sb.WriteString("\n  • ")
			sb.WriteString(suggestion)
		}
	}

	if e.Err != nil {
		sb.WriteString("\n\nTechnical details: ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

// Unwrap returns the underlying error
func (e *UserError) Unwrap() error {
	return e.Err
}

// ConfigError creates an error for configuration issues
func ConfigError(message string, err error) error {
	return &UserError{
		Message: message,
		Suggestions: []string{
			"Check your config file at ~/.config/quickget/quickget.yaml",
			"Verify the YAML syntax is correct",
			"Try running 'quickget config show' to see current settings",
			"Delete the config file to reset to defaults",
		},
		Err: err,
	}
}

// UsageError creates an error for bad command line input
func UsageError(message string) error {
	return &UserError{
		Message: message,
		Suggestions: []string{
			"Run 'quickget <command> -h' for usage",
		},
	}
}
