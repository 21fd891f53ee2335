package cli

import (
	"github.com/spf13/cobra"

	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/views"
)

var (
	email    string
	password string
	name     string
	phone    string

	street, city, state, zipCode, country string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  runWhoami,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
	Long: `Without flags prints the profile. Any of --name, --email, --phone or the
address flags updates it; unset fields keep their current value.`,
	RunE: runProfile,
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&email, "email", "", "Account email")
		c.Flags().StringVar(&password, "password", "", "Account password")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
	registerCmd.Flags().StringVar(&name, "name", "", "Full name")
	registerCmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	_ = registerCmd.MarkFlagRequired("name")

	profileCmd.Flags().StringVar(&name, "name", "", "Full name")
	profileCmd.Flags().StringVar(&email, "email", "", "Email")
	profileCmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	addressFlags(profileCmd)
}

func addressFlags(c *cobra.Command) {
	c.Flags().StringVar(&street, "street", "", "Street address")
	c.Flags().StringVar(&city, "city", "", "City")
	c.Flags().StringVar(&state, "state", "", "State or province")
	c.Flags().StringVar(&zipCode, "zip", "", "ZIP code")
	c.Flags().StringVar(&country, "country", "", "Country")
}

func runLogin(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), "/login", func(s *session) error {
		if err := report(cmd, s.pages.Login(cmd.Context(), models.LoginForm{Email: email, Password: password})); err != nil {
			return err
		}
		cmd.Println(views.ProfileView(s.store.Auth.State().User.Data))
		return nil
	})
}

func runRegister(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), "/register", func(s *session) error {
		form := models.RegisterForm{Name: name, Email: email, Phone: phone, Password: password}
		if err := report(cmd, s.pages.Register(cmd.Context(), form)); err != nil {
			return err
		}
		cmd.Println(views.ProfileView(s.store.Auth.State().User.Data))
		return nil
	})
}

func runLogout(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), "/", func(s *session) error {
		if err := report(cmd, s.pages.Logout(cmd.Context())); err != nil {
			return err
		}
		cmd.Println("Signed out.")
		return nil
	})
}

func runWhoami(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), "/", func(s *session) error {
		cmd.Println(views.ProfileView(s.store.Auth.State().User.Data))
		return nil
	})
}

func runProfile(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), "/profile", func(s *session) error {
		user := s.store.Auth.State().User.Data
		form := models.ProfileFormFor(user)
		changed := false
		set := func(flag string, dst *string, v string) {
			if cmd.Flags().Changed(flag) {
				*dst = v
				changed = true
			}
		}
		set("name", &form.Name, name)
		set("email", &form.Email, email)
		set("phone", &form.Phone, phone)
		set("street", &form.Address.Street, street)
		set("city", &form.Address.City, city)
		set("state", &form.Address.State, state)
		set("zip", &form.Address.ZipCode, zipCode)
		set("country", &form.Address.Country, country)

		if changed {
			if err := report(cmd, s.pages.UpdateProfile(cmd.Context(), form)); err != nil {
				return err
			}
			user = s.store.Auth.State().User.Data
		}
		cmd.Println(views.ProfileView(user))
		return nil
	})
}
