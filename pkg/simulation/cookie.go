package simulation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/tendant/ministry-portal/pkg/client"
	perrors "github.com/tendant/ministry-portal/pkg/errors"
)

// CookiePayload is the value persisted in the simulation cookie.
// Only the impersonate variant is written.
type CookiePayload struct {
	Type        client.SimulationType `json:"type" validate:"required"`
	ContactId   int64                 `json:"contactId" validate:"required"`
	AdminUserId string                `json:"adminUserId" validate:"required"`
}

var payloadValidator = validator.New()

// NewImpersonatePayload returns the cookie payload for adminUserId acting as contactId
func NewImpersonatePayload(contactId int64, adminUserId string) CookiePayload {
	return CookiePayload{
		Type:        client.SimulationImpersonate,
		ContactId:   contactId,
		AdminUserId: adminUserId,
	}
}

// EncodeCookieValue serializes the payload as URL-escaped JSON
func EncodeCookieValue(p CookiePayload) (string, error) {
	if err := payloadValidator.Struct(p); err != nil {
		return "", perrors.Wrap(err, perrors.ErrCodeInvalidInput, "invalid simulation payload")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(data)), nil
}

// DecodeCookieValue parses a cookie value written by EncodeCookieValue.
// Unknown fields, unknown types and missing fields are rejected.
func DecodeCookieValue(value string) (CookiePayload, error) {
	raw, err := url.QueryUnescape(value)
	if err != nil {
		return CookiePayload{}, perrors.Wrap(err, perrors.ErrCodeInvalidFormat, "simulation cookie is not url encoded")
	}

	var p CookiePayload
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return CookiePayload{}, perrors.Wrap(err, perrors.ErrCodeInvalidFormat, "simulation cookie is not valid json")
	}

	switch p.Type {
	case client.SimulationImpersonate:
	case client.SimulationRoles:
		return CookiePayload{}, perrors.New(perrors.ErrCodeUnsupported, "role simulation is not supported")
	default:
		return CookiePayload{}, perrors.New(perrors.ErrCodeInvalidFormat, fmt.Sprintf("unknown simulation type %q", p.Type))
	}

	if err := payloadValidator.Struct(p); err != nil {
		return CookiePayload{}, perrors.Wrap(err, perrors.ErrCodeInvalidFormat, "simulation cookie is incomplete")
	}
	return p, nil
}
