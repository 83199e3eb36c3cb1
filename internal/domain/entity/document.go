// Package entity contains the core business objects of the project.
// Registry records are schemaless documents, so the central type is an open
// field map rather than a fixed struct.
package entity

import (
	"fmt"
	"time"
)

// Reserved document field names shared by every entity type.
const (
	FieldID             = "id"
	FieldPassword       = "password"
	FieldCreatedAt      = "createdAt"
	FieldUpdatedAt      = "updatedAt"
	FieldLastLogin      = "lastLogin"
	FieldUpdatePassword = "updatePassword"
)

// TimestampFormat is the wire format for createdAt/updatedAt/lastLogin.
const TimestampFormat = time.RFC3339

// Document is a single registry record as stored in the document store.
// Values are whatever the store hands back (strings, numbers, nil).
type Document map[string]any

// ID returns the document's primary key, or "" when unset.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)

	return id
}

// StringField returns the value under key rendered as a string.
// Missing keys and nil values render as "".
func (d Document) StringField(key string) string {
	val, ok := d[key]
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", val)
}

// IsEmptyField reports whether key is absent, nil, or the empty string.
func (d Document) IsEmptyField(key string) bool {
	val, ok := d[key]
	if !ok || val == nil {
		return true
	}
	s, isString := val.(string)

	return isString && s == ""
}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}

	return out
}

// Sanitized returns a copy of the document safe for external callers:
// the password hash field is removed. The original is left untouched.
func (d Document) Sanitized() Document {
	out := d.Clone()
	delete(out, FieldPassword)

	return out
}

// Now returns the current UTC time formatted for storage.
func Now() string {
	return time.Now().UTC().Format(TimestampFormat)
}
