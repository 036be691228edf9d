package cmd

import (
	"fmt"
	"os"

	"github.com/aurora-stream/aurora/color"
	"github.com/aurora-stream/aurora/icon"
	"github.com/aurora-stream/aurora/store"
	"github.com/aurora-stream/aurora/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(profileCmd)
}

// profileCmd selects the profile id sent to the stream proxy.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the active viewer profile",
}

func init() {
	profileCmd.AddCommand(profileSetCmd)
	profileSetCmd.Flags().StringP("name", "n", "", "Display name of the profile")
}

var profileSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Select the active profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		name := lo.Must(cmd.Flags().GetString("name"))

		handleErr(store.Update(func(s *store.State) {
			if s.User == nil {
				s.User = &store.User{}
			}

			profile, ok := lo.Find(s.User.Profiles, func(p store.Profile) bool { return p.ID == id })
			if !ok {
				profile = store.Profile{ID: id, Name: lo.Ternary(name != "", name, id)}
				s.User.Profiles = append(s.User.Profiles, profile)
			}
			s.User.CurrentProfile = &profile
		}))

		fmt.Printf("%s active profile is now %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(id))
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileShowCmd.SetOut(os.Stdout)
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List known profiles and mark the active one",
	Run: func(cmd *cobra.Command, args []string) {
		state, err := store.Load()
		handleErr(err)

		if state.User == nil || len(state.User.Profiles) == 0 {
			cmd.Println(style.Faint("no profiles, streams use the default profile"))
			return
		}

		active := store.CurrentProfileID().OrEmpty()
		for _, p := range state.User.Profiles {
			marker := lo.Ternary(p.ID == active, style.Fg(color.Green)("*"), " ")
			cmd.Printf("%s %s %s\n", marker, style.Fg(color.Purple)(p.ID), style.Faint(p.Name))
		}
	},
}
