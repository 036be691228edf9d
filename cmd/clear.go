package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/aurora-stream/aurora/color"
	"github.com/aurora-stream/aurora/icon"
	"github.com/aurora-stream/aurora/store"
	"github.com/aurora-stream/aurora/style"
	"github.com/aurora-stream/aurora/util"
	"github.com/aurora-stream/aurora/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget is a filesystem resource that can be removed.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

var clearTargets = []clearTarget{
	{"stream blobs", "blobs", mo.Some("b"), where.Blobs},
	{"logs", "logs", mo.Some("l"), where.Logs},
	{"stored profiles and token", "store", mo.Some("s"), where.Store},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := "clear " + target.name
		if short, ok := target.argShort.Get(); ok {
			clearCmd.Flags().BoolP(target.argLong, short, false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

// clearCmd removes leftover blobs and other local state.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove leftover stream blobs and local state",
	Run: func(cmd *cobra.Command, args []string) {
		selected := lo.Filter(clearTargets, func(t clearTarget, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(t.argLong))
		})

		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, target := range selected {
			fmt.Printf("%s clearing %s...\n", icon.Get(icon.Progress), target.name)
			if err := util.Delete(target.location()); err != nil && !errors.Is(err, fs.ErrNotExist) {
				handleErr(err)
			}
			fmt.Printf("%s %s cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)), target.name)
		}

		store.ResetCache()
	},
}
