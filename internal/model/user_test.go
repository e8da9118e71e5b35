package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUser_JSONNeverExposesPassword(t *testing.T) {
	user := User{
		ID:           uuid.New(),
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}

	payload, err := json.Marshal(user)
	assert.NoError(t, err)

	var out map[string]interface{}
	assert.NoError(t, json.Unmarshal(payload, &out))

	assert.NotContains(t, out, "password")
	assert.NotContains(t, out, "passwordHash")
	assert.NotContains(t, string(payload), user.PasswordHash)
	assert.Equal(t, "Ada", out["firstName"])
	assert.Equal(t, "ada@example.com", out["email"])
}

func TestUser_JSONImageFieldsNullable(t *testing.T) {
	payload, err := json.Marshal(User{})
	assert.NoError(t, err)

	var out map[string]interface{}
	assert.NoError(t, json.Unmarshal(payload, &out))

	assert.Nil(t, out["profileImage"])
	assert.Nil(t, out["profileImagePublicId"])
}
