package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "saasbase/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseTenantID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseProjectID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		raw := uuid.New()
		id, err := ParseTaskID("  " + raw.String() + " ")
		require.NoError(t, err)
		assert.Equal(t, TaskID(raw), id)
	})
}

func TestTypedIDsMarshalAsStrings(t *testing.T) {
	raw := uuid.New()
	out, err := json.Marshal(struct {
		TenantID TenantID `json:"tenantId"`
	}{TenantID: TenantID(raw)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tenantId":"`+raw.String()+`"}`, string(out))
}

func TestNewIDsAreNotNil(t *testing.T) {
	assert.False(t, NewUserID().IsNil())
	assert.False(t, NewTenantID().IsNil())
	assert.NotEqual(t, NewProjectID(), NewProjectID())
}
