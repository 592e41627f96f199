package shared

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeTarget struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count"`
}

// selfValidating exercises the custom-Validate branch of ValidateRequest.
type selfValidating struct {
	fail bool
}

func (s selfValidating) Validate() error {
	if s.fail {
		return errors.New("self validation failed")
	}
	return nil
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes_valid_body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"laundry","count":3}`))

		var target decodeTarget
		require.NoError(t, DecodeJSON(req, &target))
		assert.Equal(t, "laundry", target.Name)
		assert.Equal(t, 3, target.Count)
	})

	t.Run("rejects_malformed_body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))

		var target decodeTarget
		assert.Error(t, DecodeJSON(req, &target))
	})

	t.Run("rejects_type_mismatch", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"count":"three"}`))

		var target decodeTarget
		assert.Error(t, DecodeJSON(req, &target))
	})
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	t.Run("uses_struct_tags", func(t *testing.T) {
		t.Parallel()

		assert.Error(t, ValidateRequest(decodeTarget{}))
		assert.NoError(t, ValidateRequest(decodeTarget{Name: "laundry"}))
	})

	t.Run("prefers_custom_validate_method", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, ValidateRequest(selfValidating{}))

		err := ValidateRequest(selfValidating{fail: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "self validation failed")
	})
}
