package model

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMarshalSubstitutesBaseRole(t *testing.T) {
	user := User{
		Id:        1,
		Email:     "nobody@example.com",
		Password:  "secret-hash",
		FirstName: "Nobody",
		LastName:  "Cares",
		Roles:     RoleList{},
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	var decoded struct {
		Roles RoleList `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, RoleList{RoleUser}, decoded.Roles)
	assert.NotContains(t, string(data), `"roles":[]`)
	assert.NotContains(t, string(data), "secret-hash")
}

func TestUserMarshalKeepsStoredRoles(t *testing.T) {
	user := &User{Id: 1, Roles: RoleList{RoleBlogger}}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	var decoded struct {
		Roles RoleList `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, RoleList{RoleBlogger}, decoded.Roles)
}
