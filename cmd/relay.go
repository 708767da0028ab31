package cmd

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamdex/streamdex/auth"
	"github.com/streamdex/streamdex/color"
	"github.com/streamdex/streamdex/icon"
	"github.com/streamdex/streamdex/key"
	"github.com/streamdex/streamdex/style"
)

func init() {
	rootCmd.AddCommand(relayCmd)
}

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Manage the relay credential",
	Long: `Manage the relay credential.

In relay mode every request goes through the endpoint set in ` + key.FetchRelayURL + `,
authenticated with a bearer token kept in the system keyring.`,
}

func init() {
	relayCmd.AddCommand(relayLoginCmd)
	relayLoginCmd.Flags().StringP("token", "t", "", "Relay token, prompted for when omitted")
}

var relayLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save the relay token in the keyring",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		token := lo.Must(cmd.Flags().GetString("token"))
		if token == "" {
			handleErr(survey.AskOne(&survey.Password{Message: "Relay token"}, &token, survey.WithValidator(survey.Required)))
		}

		handleErr(auth.SetToken(token))
		cmd.Printf("%s relay token saved\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	relayCmd.AddCommand(relayLogoutCmd)
}

var relayLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the relay token from the keyring",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken())
		cmd.Printf("%s relay token removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	relayCmd.AddCommand(relayStatusCmd)
}

var relayStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the relay configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		token, err := auth.GetToken()
		handleErr(err)

		endpoint := lo.CoalesceOrEmpty(viper.GetString(key.FetchRelayURL), style.Fg(color.Red)("unset"))
		saved := style.Fg(color.Red)("missing")
		if token.IsPresent() {
			saved = style.Fg(color.Green)("saved")
		}

		cmd.Printf("%s %s\n", style.Fg(color.HiPurple)("Mode:"), viper.GetString(key.FetchMode))
		cmd.Printf("%s %s\n", style.Fg(color.HiPurple)("Endpoint:"), endpoint)
		cmd.Printf("%s %s\n", style.Fg(color.HiPurple)("Token:"), saved)
	},
}
