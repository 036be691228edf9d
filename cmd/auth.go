package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aurora-stream/aurora/auth"
	"github.com/aurora-stream/aurora/color"
	"github.com/aurora-stream/aurora/icon"
	"github.com/aurora-stream/aurora/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

// authCmd manages the bearer token sent to the streaming API.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the API token used for authenticated streams",
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authLoginCmd.Flags().Bool("stdin", false, "Read the token from standard input")
}

var authLoginCmd = &cobra.Command{
	Use:   "login [token]",
	Short: "Save an API token to the system keyring",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var token string

		switch {
		case len(args) == 1:
			token = args[0]
		case lo.Must(cmd.Flags().GetBool("stdin")) || !term.IsTerminal(int(os.Stdin.Fd())):
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				handleErr(fmt.Errorf("read token: %w", err))
			}
			token = line
		default:
			fmt.Print("Token: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			handleErr(err)
			token = string(raw)
		}

		token = strings.TrimSpace(token)
		if token == "" {
			handleErr(auth.ErrEmptyToken)
		}

		handleErr(auth.NewKeyring().Set(token))
		fmt.Printf("%s saved token %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Yellow)(auth.Masked(auth.NewKeyring().Get())))
	},
}

func init() {
	authCmd.AddCommand(authLogoutCmd)
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved API token",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.NewKeyring().Clear())
		fmt.Printf("%s removed token\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	authCmd.AddCommand(authStatusCmd)
	authStatusCmd.SetOut(os.Stdout)
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an API token is saved",
	Run: func(cmd *cobra.Command, args []string) {
		token := auth.NewKeyring().Get()
		if token.IsAbsent() {
			handleErr(errors.New("not logged in, streams are requested anonymously"))
		}
		cmd.Printf("%s logged in with token %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Yellow)(auth.Masked(token)))
	},
}
