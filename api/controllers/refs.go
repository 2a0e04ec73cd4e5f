package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
)

// idRef is a reference sent either as a bare id or as an object carrying
// "id" or "_id". Storefront clients use all three shapes.
type idRef string

func (r *idRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err == nil {
		*r = idRef(strings.TrimSpace(raw))
		return nil
	}
	var obj struct {
		ID       string `json:"id"`
		LegacyID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("reference must be an id string or an object with an id")
	}
	id := obj.ID
	if id == "" {
		id = obj.LegacyID
	}
	*r = idRef(strings.TrimSpace(id))
	return nil
}

func (r idRef) String() string { return string(r) }

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, pkgerrors.Validation(name, "must be a valid uuid")
	}
	return id, nil
}
