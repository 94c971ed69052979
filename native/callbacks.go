package native

import (
	"encoding/json"

	"github.com/viant/mcpbridge/internal/collection"
)

// Callbacks holds one event callback per event name
type Callbacks struct {
	registry *collection.SyncMap[string, EventCallback]
}

// Register sets the callback for a name
func (c *Callbacks) Register(eventName string, callback EventCallback) {
	if callback == nil {
		c.registry.Delete(eventName)
		return
	}
	c.registry.Put(eventName, callback)
}

// Registered returns true when a callback is set for the name
func (c *Callbacks) Registered(eventName string) bool {
	_, ok := c.registry.Get(eventName)
	return ok
}

// Emit delivers payload to the callback registered under eventName. Non string payloads are JSON encoded.
// It returns false when nothing was delivered.
func (c *Callbacks) Emit(eventName string, payload interface{}) (delivered bool) {
	callback, ok := c.registry.Get(eventName)
	if !ok {
		return false
	}
	var text string
	switch actual := payload.(type) {
	case string:
		text = actual
	case []byte:
		text = string(actual)
	case json.RawMessage:
		text = string(actual)
	default:
		data, err := json.Marshal(actual)
		if err != nil {
			return false
		}
		text = string(data)
	}
	defer func() {
		if r := recover(); r != nil {
			delivered = false
		}
	}()
	callback(eventName, text)
	return true
}

// NewCallbacks creates an empty callback set
func NewCallbacks() *Callbacks {
	return &Callbacks{registry: collection.NewSyncMap[string, EventCallback]()}
}
