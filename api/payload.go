// payload.go - Geordnete Request-Payloads
// Hauptfunktionen: newPayload, nullable
package api

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// payload is a JSON object whose fields are written in insertion order.
type payload struct {
	om *orderedmap.OrderedMap[string, any]
}

func newPayload() *payload {
	return &payload{om: orderedmap.New[string, any]()}
}

// set adds a field; a nil value is sent as null.
func (p *payload) set(key string, value any) *payload {
	p.om.Set(key, value)
	return p
}

func (p *payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.om)
}

// nullable maps an unset optional text field to null.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
