package events

import "strings"

const (
	ErrorTypeHandler          = "handler_error"
	ErrorTypeHandlerException = "handler_exception"
	ErrorTypeNoHandler        = "no_handler"
)

// Result is the outcome of handling an event. Success implies Error is empty.
type Result struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`
}

func Success(data any) Result {
	return Result{Success: true, Data: data}
}

// Failure builds a failed result. An empty errorType means ErrorTypeHandler.
func Failure(msg, errorType string) Result {
	if errorType == "" {
		errorType = ErrorTypeHandler
	}
	return Result{Error: msg, ErrorType: errorType}
}

func NoHandler() Result {
	return Result{Error: "No handler registered for event", ErrorType: ErrorTypeNoHandler}
}

// Combine merges per-handler results. All succeeded: Data is the ordered list
// of non-nil Data values. Any failed: Data is dropped, Error joins the failure
// messages with "; " and ErrorType comes from the first failure.
func Combine(results ...Result) Result {
	var (
		data      = make([]any, 0, len(results))
		errs      []string
		errorType string
	)

	for _, r := range results {
		if r.Success {
			if r.Data != nil {
				data = append(data, r.Data)
			}
			continue
		}
		if errorType == "" {
			errorType = r.ErrorType
			if errorType == "" {
				errorType = ErrorTypeHandler
			}
		}
		if r.Error != "" {
			errs = append(errs, r.Error)
		}
	}

	if errorType != "" {
		return Result{Error: strings.Join(errs, "; "), ErrorType: errorType}
	}
	return Success(data)
}

// Map renders the result for JSON boundaries that want a plain object.
func (r Result) Map() map[string]any {
	m := map[string]any{"success": r.Success}
	if r.Data != nil {
		m["data"] = r.Data
	}
	if r.Error != "" {
		m["error"] = r.Error
	}
	if r.ErrorType != "" {
		m["error_type"] = r.ErrorType
	}
	return m
}
