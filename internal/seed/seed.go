// Package seed creates demo accounts through the hospital API so every
// dashboard has someone to sign in as.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/hospital-portal/internal/apiclient"
	"github.com/hackgods/hospital-portal/internal/apperr"
	"github.com/hackgods/hospital-portal/internal/dashboard"
)

// Registrar is the part of the API client the seeder needs.
type Registrar interface {
	RegisterUser(ctx context.Context, form dashboard.NewUserForm) error
}

// Accounts lists one doctor per directory entry, one pharmacist, one OT staff
// member and n patients. Names of doctors come from the directory so that
// bookings line up with real accounts; everything else is fake.
func Accounts(faker *gofakeit.Faker, password string, patients int) []dashboard.NewUserForm {
	var out []dashboard.NewUserForm

	for _, dep := range dashboard.DepartmentNames() {
		for _, doc := range dashboard.DoctorsFor(dep) {
			out = append(out, dashboard.NewUserForm{
				Name:       doc,
				Email:      emailFor(doc),
				Password:   password,
				Role:       "Doctor",
				Department: dep,
			})
		}
	}

	out = append(out,
		dashboard.NewUserForm{Name: faker.Name(), Email: "pharmacy@hospital.test", Password: password, Role: "Pharmacy"},
		dashboard.NewUserForm{Name: faker.Name(), Email: "ot@hospital.test", Password: password, Role: "OT"},
	)

	for i := 0; i < patients; i++ {
		out = append(out, dashboard.NewUserForm{
			Name:     faker.Name(),
			Email:    strings.ToLower(faker.Email()),
			Password: password,
			Role:     "Patient",
		})
	}
	return out
}

func emailFor(name string) string {
	local := strings.NewReplacer("Dr. ", "", ".", "", " ", ".").Replace(name)
	return strings.ToLower(local) + "@hospital.test"
}

type Result struct {
	Created int
	Failed  int
}

// Run registers every account. A failure on one account is logged and does
// not stop the rest; an unauthorized admin token stops immediately.
func Run(ctx context.Context, api Registrar, accounts []dashboard.NewUserForm) (Result, error) {
	var res Result
	for _, acc := range accounts {
		if err := acc.Validate(); err != nil {
			return res, fmt.Errorf("account %s: %w", acc.Email, err)
		}
		err := api.RegisterUser(ctx, acc)
		switch {
		case err == nil:
			res.Created++
		case apperr.IsUnauthorized(err):
			return res, fmt.Errorf("register %s: %w", acc.Email, err)
		default:
			res.Failed++
			log.Warn().Err(err).Str("email", acc.Email).Str("role", acc.Role).Msg("account not created")
		}
	}
	return res, nil
}

// SignIn logs in as the admin that owns the seeded accounts.
func SignIn(ctx context.Context, api *apiclient.Client, email, password string) (context.Context, error) {
	res, err := api.Login(ctx, email, password)
	if err != nil {
		return ctx, fmt.Errorf("admin login: %w", err)
	}
	if res.Role != "Admin" {
		return ctx, fmt.Errorf("admin login: %s has role %q", email, res.Role)
	}
	return apiclient.WithToken(ctx, res.Token), nil
}
