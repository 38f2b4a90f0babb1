package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Result is the decoded reply to a JSON endpoint.
type Result struct {
	Status  int
	Message string
	Account *Account
}

// OK reports a 2xx status.
func (r Result) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Account is the record returned by view_account.
type Account struct {
	ID      FlexString `json:"id"`
	Name    string     `json:"name"`
	Phone   string     `json:"phone"`
	Balance float64    `json:"balance"`
}

// FlexString accepts a JSON string or number and keeps its text. The service
// sends account ids as numbers; other deployments send strings.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// TransportError means no usable response arrived: the request could not be
// sent, the body could not be read, or it was not JSON.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }
