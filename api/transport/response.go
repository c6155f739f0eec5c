package transport

import "encoding/json"

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Envelope wraps every API response. Success payloads carry Data; failures
// carry the machine-readable Code plus a human-readable Error.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{Status: statusSuccess, Data: data, Meta: meta}
}

func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{Status: statusError, Code: code, Error: err, Meta: meta}
}

// String renders the envelope as JSON for logging.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
