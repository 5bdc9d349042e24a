package provider

import "fmt"

// TransportError reports a failed round-trip: a network error or a non-2xx status.
type TransportError struct {
	Message string
	Status  int    // zero when no response was received
	Body    []byte // response body, if any
}

func (e *TransportError) Error() string {
	if len(e.Body) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s\nResponse Body: %s", e.Message, e.Body)
}
