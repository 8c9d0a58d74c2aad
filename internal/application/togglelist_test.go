package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/selflearning/internal/application"
	"github.com/ericfisherdev/selflearning/internal/domain/model"
)

const (
	serverA = "aaaaaaaa-0000-4000-8000-000000000001"
	serverB = "bbbbbbbb-0000-4000-8000-000000000002"
)

func twoServers() []model.Credential {
	return []model.Credential{
		{ID: serverA, Models: []model.Model{
			{Name: "A", CredentialID: serverA, Toggle: true},
			{Name: "B", CredentialID: serverA},
		}},
		{ID: serverB, Models: []model.Model{
			{Name: "C", CredentialID: serverB},
		}},
	}
}

func toggles(creds []model.Credential) [][]bool {
	out := make([][]bool, len(creds))
	for i, c := range creds {
		for _, m := range c.Models {
			out[i] = append(out[i], m.Toggle)
		}
	}
	return out
}

func TestToggleList_ToggleResetsAcrossCredentials(t *testing.T) {
	list := application.NewToggleList(twoServers())

	require.NoError(t, list.Toggle(1, 0))

	assert.Equal(t, [][]bool{{false, false}, {true}}, toggles(list.Credentials()))
}

func TestToggleList_ToggleOutOfRange(t *testing.T) {
	list := application.NewToggleList(twoServers())

	assert.Error(t, list.Toggle(2, 0))
	assert.Error(t, list.Toggle(0, 5))
	assert.Error(t, list.Toggle(-1, 0))
	assert.Equal(t, [][]bool{{true, false}, {false}}, toggles(list.Credentials()), "failed toggles change nothing")
}

func TestToggleList_Select(t *testing.T) {
	list := application.NewToggleList(twoServers())

	require.NoError(t, list.Select(serverA+"/B"))
	assert.Equal(t, [][]bool{{false, true}, {false}}, toggles(list.Credentials()))

	assert.Error(t, list.Select(serverB+"/missing"))
	assert.Equal(t, [][]bool{{false, true}, {false}}, toggles(list.Credentials()), "an unknown key changes nothing")
}

func TestToggleList_DoesNotAliasInput(t *testing.T) {
	input := twoServers()
	list := application.NewToggleList(input)

	require.NoError(t, list.Toggle(1, 0))

	assert.True(t, input[0].Models[0].Toggle)
	assert.False(t, input[1].Models[0].Toggle)
}
