package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

type Credentials struct {
	Domain        string `json:"domain"`
	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`
}

func (c Credentials) Complete() bool {
	return c.Domain != "" && c.AdminEmail != "" && c.AdminPassword != ""
}

func (c Credentials) Empty() bool {
	return c.Domain == "" && c.AdminEmail == "" && c.AdminPassword == ""
}

// FillFrom copies fields that are empty in c from other.
func (c Credentials) FillFrom(other Credentials) Credentials {
	if c.Domain == "" {
		c.Domain = other.Domain
	}
	if c.AdminEmail == "" {
		c.AdminEmail = other.AdminEmail
	}
	if c.AdminPassword == "" {
		c.AdminPassword = other.AdminPassword
	}
	return c
}

// ParseCredentialsPayload decodes a staged payload. The payload is either a
// JSON object or a JSON string whose contents are the JSON object.
func ParseCredentialsPayload(raw json.RawMessage) (Credentials, error) {
	var creds Credentials
	if len(raw) == 0 {
		return creds, errors.New("empty payload")
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		raw = json.RawMessage(text)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return creds, fmt.Errorf("payload is not a credentials object, %w", err)
	}
	if obj == nil {
		return creds, errors.New("payload is null")
	}
	if err := json.Unmarshal(raw, &creds); err != nil {
		return creds, fmt.Errorf("payload has invalid credential fields, %w", err)
	}

	return creds, nil
}
