// Command sessiontoken mints a signed session token for local testing and
// for bootstrapping the first administrator.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
	"github.com/ericfisherdev/selflearning/internal/security"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "sessiontoken:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("sessiontoken", flag.ContinueOnError)
	secret := fs.String("secret", os.Getenv("SELFLEARNING_SESSION_SECRET"), "session signing secret")
	id := fs.String("id", "", "principal ID (random UUID when empty)")
	name := fs.String("name", "admin", "display name")
	role := fs.String("role", string(model.RoleAdmin), "ADMIN or USER")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r := model.Role(strings.ToUpper(*role))
	if r != model.RoleAdmin && r != model.RoleUser {
		return fmt.Errorf("invalid role %q: want ADMIN or USER", *role)
	}
	if *id == "" {
		*id = uuid.NewString()
	}

	token, err := security.GenerateSessionToken(*secret, model.Principal{ID: *id, Name: *name, Role: r}, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
