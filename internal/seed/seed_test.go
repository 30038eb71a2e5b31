package seed

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/hospital-portal/internal/apperr"
	"github.com/hackgods/hospital-portal/internal/dashboard"
)

type fakeRegistrar struct {
	got  []dashboard.NewUserForm
	fail map[string]error
}

func (f *fakeRegistrar) RegisterUser(_ context.Context, form dashboard.NewUserForm) error {
	if err, ok := f.fail[form.Email]; ok {
		return err
	}
	f.got = append(f.got, form)
	return nil
}

func TestAccounts(t *testing.T) {
	accounts := Accounts(gofakeit.New(42), "secret1", 3)

	roles := map[string]int{}
	for _, acc := range accounts {
		roles[acc.Role]++
		require.NoError(t, acc.Validate(), acc.Email)
	}
	assert.Equal(t, 8, roles["Doctor"])
	assert.Equal(t, 1, roles["Pharmacy"])
	assert.Equal(t, 1, roles["OT"])
	assert.Equal(t, 3, roles["Patient"])

	assert.Equal(t, "Dr. Rao", accounts[1].Name)
	assert.Equal(t, "Cardiology", accounts[1].Department)
	assert.Equal(t, "rao@hospital.test", accounts[1].Email)
}

func TestRun_ContinuesPastConflicts(t *testing.T) {
	accounts := Accounts(gofakeit.New(7), "secret1", 0)
	api := &fakeRegistrar{fail: map[string]error{
		"rao@hospital.test": apperr.HTTP(400, "User already exists"),
	}}

	res, err := Run(context.Background(), api, accounts)
	require.NoError(t, err)
	assert.Equal(t, len(accounts)-1, res.Created)
	assert.Equal(t, 1, res.Failed)
}

func TestRun_StopsOnUnauthorized(t *testing.T) {
	accounts := Accounts(gofakeit.New(7), "secret1", 0)
	api := &fakeRegistrar{fail: map[string]error{
		accounts[0].Email: apperr.HTTP(401, "Not authorized"),
	}}

	res, err := Run(context.Background(), api, accounts)
	require.Error(t, err)
	assert.True(t, apperr.IsUnauthorized(err))
	assert.Zero(t, res.Created)
	assert.Empty(t, api.got)
}
