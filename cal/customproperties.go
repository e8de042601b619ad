package cal

import (
	"fmt"
)

// Free-form properties attached to attendees and incidences.
// Insertion order is preserved so serialization is deterministic.
type CustomProperties struct {
	keys  []string
	props map[string]string
}

// Set a property. Any non-empty name is accepted, "X-" prefixed or not.
func (c *CustomProperties) SetProperty(name string, value string) error {
	if name == "" {
		return fmt.Errorf("CustomProperties.SetProperty: name is blank")
	}
	if c.props == nil {
		c.props = make(map[string]string)
	}
	if _, ok := c.props[name]; !ok {
		c.keys = append(c.keys, name)
	}
	c.props[name] = value
	return nil
}

func (c *CustomProperties) GetProperty(name string) (string, bool) {
	value, ok := c.props[name]
	return value, ok
}

func (c *CustomProperties) RemoveProperty(name string) {
	if _, ok := c.props[name]; !ok {
		return
	}
	delete(c.props, name)
	for i, key := range c.keys {
		if key == name {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// Property names in insertion order.
func (c *CustomProperties) Keys() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

func (c *CustomProperties) Len() int {
	return len(c.keys)
}

// Equality ignores insertion order.
func (c *CustomProperties) Equal(other CustomProperties) bool {
	if len(c.props) != len(other.props) {
		return false
	}
	for name, value := range c.props {
		if otherValue, ok := other.props[name]; !ok || otherValue != value {
			return false
		}
	}
	return true
}

func (c *CustomProperties) clone() CustomProperties {
	var out CustomProperties
	if c.props == nil {
		return out
	}
	out.keys = make([]string, len(c.keys))
	copy(out.keys, c.keys)
	out.props = make(map[string]string, len(c.props))
	for name, value := range c.props {
		out.props[name] = value
	}
	return out
}

func (c *CustomProperties) serialize(sw *streamWriter) {
	sw.writeUint32(uint32(len(c.keys)))
	for _, name := range c.keys {
		sw.writeString(name)
		sw.writeString(c.props[name])
	}
}

func (c *CustomProperties) deserialize(sr *streamReader) {
	count := sr.readUint32()
	if sr.Err() != nil {
		return
	}
	if count > maxStreamBlobLen {
		sr.err = fmt.Errorf("CustomProperties: property count %d out of range", count)
		return
	}
	c.keys = nil
	c.props = nil
	for i := uint32(0); i < count; i++ {
		name := sr.readString()
		value := sr.readString()
		if sr.Err() != nil {
			return
		}
		if c.props == nil {
			c.props = make(map[string]string, count)
		}
		if _, ok := c.props[name]; !ok {
			c.keys = append(c.keys, name)
		}
		c.props[name] = value
	}
}
