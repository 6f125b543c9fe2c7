package admincli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/flagx"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
)

// UserCreator creates accounts; services.UserService satisfies it.
type UserCreator interface {
	CreateUser(ctx context.Context, name, email, password, role string) (int64, error)
}

// Options are the account details given on the command line. Missing
// values are prompted for.
type Options struct {
	Name  string
	Email string
}

// ParseOptions reads -name and -email from args, ignoring every other flag.
func ParseOptions(args []string) (Options, error) {
	var o Options

	fs := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.Name, "name", "", "administrator name")
	fs.StringVar(&o.Email, "email", "", "administrator email")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-name", "-email"})); err != nil {
		return Options{}, err
	}
	return o, nil
}

// CreateAdmin prompts for whatever o lacks, then creates an admin account.
func CreateAdmin(ctx context.Context, users UserCreator, o Options, in *bufio.Reader, out io.Writer) (int64, error) {
	var err error

	if o.Name == "" {
		if o.Name, err = GetSimpleText(in, "Enter name", out); err != nil {
			return 0, err
		}
	}
	if o.Email == "" {
		if o.Email, err = GetSimpleText(in, "Enter email", out); err != nil {
			return 0, err
		}
	}

	password, err := GetPassword(out)
	if err != nil {
		return 0, err
	}
	defer common.WipeByteArray(password)

	if len(password) == 0 {
		return 0, common.ErrMissingFields
	}

	id, err := users.CreateUser(ctx, o.Name, o.Email, string(password), models.RoleAdmin)
	if err != nil {
		if errors.Is(err, common.ErrUserAlreadyExists) {
			return 0, fmt.Errorf("%s: %w", o.Email, err)
		}
		return 0, err
	}

	fmt.Fprintf(out, "Admin %s created with id %d\n", o.Email, id)
	return id, nil
}
