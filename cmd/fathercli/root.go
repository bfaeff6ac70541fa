package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd(r *runner) *cobra.Command {
	var opts options
	var debug bool

	cmd := &cobra.Command{
		Use:   "fathercli",
		Short: "Manage your Telegram bots through @BotFather from the command line",
		Long: `fathercli talks to @BotFather from your own Telegram account to list the
bots you own, create new ones and fetch or rotate their API tokens.

Configure the API id and hash from https://my.telegram.org once with --api.`,
		Example: `  fathercli --api 12345:1a2b3c4d5e6f
  fathercli --list
  fathercli --create "Weather Reporter@weather"
  fathercli --token @weather_bot`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return r.run(cmd.Context(), opts)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	f := cmd.Flags()
	f.StringVarP(&opts.api, "api", "a", "", "set the apiid:apihash pair")
	f.BoolVarP(&opts.reload, "reload", "r", false, "reload the list of bots")
	f.BoolVarP(&opts.list, "list", "l", false, "list owned bots")
	f.StringVarP(&opts.create, "create", "c", "", `create a bot given as "Bot Name@username"`)
	f.StringVarP(&opts.token, "token", "t", "", "print the existing token of a bot (username or id)")
	f.StringVarP(&opts.newToken, "newtoken", "n", "", "revoke the token of a bot and print the new one")
	f.StringVar(&opts.phone, "phone", "", "phone number used when a login is required")
	f.BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.MarkFlagsMutuallyExclusive("token", "newtoken")

	return cmd
}
