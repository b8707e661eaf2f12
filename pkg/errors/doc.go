// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeInvalidInput,
//	    "failed to decode device record",
//	    decodeErr,
//	    map[string]interface{}{
//	        "path": recordPath,
//	        "source": sourceName,
//	    },
//	)
package errors
