package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
)

// promptCredentials asks for whichever of email and password is missing.
func promptCredentials(email, password *string) error {
	if strings.TrimSpace(*email) != "" && *password != "" {
		return nil
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password),
		),
	).WithTheme(huh.ThemeDracula()).Run()
}

type SignupCmd struct {
	Email    string `help:"Account email."`
	Password string `help:"Account password. Prompted for when omitted." env:"HABITUAL_PASSWORD"`
}

func (c *SignupCmd) Run(ctx *cli.Context) error {
	if err := promptCredentials(&c.Email, &c.Password); err != nil {
		return err
	}
	account, err := ctx.Auth().SignUp(ctx.Background(), c.Email, c.Password)
	if err != nil {
		return fmt.Errorf("sign up failed: %w", err)
	}
	fmt.Printf("✓ Account created for %s\n", account.Email)
	fmt.Println("  Run 'habitual login' to start tracking habits.")
	return nil
}

type LoginCmd struct {
	Email    string `help:"Account email."`
	Password string `help:"Account password. Prompted for when omitted." env:"HABITUAL_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if err := promptCredentials(&c.Email, &c.Password); err != nil {
		return err
	}
	session, err := ctx.Auth().Login(ctx.Background(), c.Email, c.Password)
	if err != nil {
		return err
	}
	ctx.Session = session
	fmt.Printf("✓ Logged in as %s\n", session.Email)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	if err := ctx.Auth().Logout(ctx.Background()); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	email := ctx.Session.Email
	ctx.Session = models.Session{}
	fmt.Printf("Logged out %s\n", email)
	return nil
}

type ProfileCmd struct{}

func (c *ProfileCmd) Run(ctx *cli.Context) error {
	session, err := ctx.RequireSession()
	if err != nil {
		return err
	}
	fmt.Println("Profile:")
	fmt.Printf("  Email:      %s\n", session.Email)
	if !session.LoggedInAt.IsZero() {
		fmt.Printf("  Logged in:  %s\n", session.LoggedInAt.Local().Format(time.DateTime))
	}
	return nil
}
