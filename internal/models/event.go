package models

import "encoding/json"

// TicketmasterSearchResponse is the slice of the Discovery API response we
// care about. Event records themselves stay opaque and are passed through
// to the client unchanged.
type TicketmasterSearchResponse struct {
	Embedded struct {
		Events []json.RawMessage `json:"events"`
	} `json:"_embedded"`
}
