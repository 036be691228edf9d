package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aurora-stream/aurora/auth"
	"github.com/aurora-stream/aurora/blob"
	"github.com/aurora-stream/aurora/config"
	"github.com/aurora-stream/aurora/constant"
	"github.com/aurora-stream/aurora/filesystem"
	"github.com/aurora-stream/aurora/key"
	"github.com/aurora-stream/aurora/log"
	"github.com/aurora-stream/aurora/network"
	"github.com/aurora-stream/aurora/playback"
	"github.com/aurora-stream/aurora/player"
	"github.com/aurora-stream/aurora/store"
	"github.com/aurora-stream/aurora/stream"
	"github.com/aurora-stream/aurora/tui"
	"github.com/aurora-stream/aurora/util"
	"github.com/aurora-stream/aurora/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("title", "t", "", "Title shown above the player")
	playCmd.Flags().StringP("profile", "p", "", "Profile id sent to the stream proxy, overrides the active profile")
	playCmd.Flags().String("scheme", "", "Transport scheme reported to the API (http: or https:)")
	playCmd.Flags().StringP("player", "P", "", "Media player backend")
	lo.Must0(playCmd.RegisterFlagCompletionFunc("player", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return player.Available(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.Player, playCmd.Flags().Lookup("player")))
}

// playCmd plays the intro clip and then the stream of a locator.
var playCmd = &cobra.Command{
	Use:     "play <locator>",
	Short:   "Play a stream after the intro clip",
	Example: "  aurora play https://cdn.example.com/movies/1.mp4 --title \"Movie 1\"",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			handleErr(errors.New("play needs an interactive terminal"))
		}

		name := viper.GetString(key.Player)
		if _, err := player.LookPath(name, player.Options{}); err != nil {
			printMissingDependencyError(name)
			os.Exit(1)
		}

		handleErr(play(cmd, args[0]))
	},
}

func play(cmd *cobra.Command, locator string) error {
	intro, err := introPath()
	if err != nil {
		return err
	}

	// Each process keeps its blobs apart so a second aurora doesn't revoke them.
	blobDir := filepath.Join(where.Blobs(), strconv.Itoa(os.Getpid()))
	blobs := blob.NewRegistry(filesystem.API(), blobDir)
	defer func() {
		blobs.RevokeAll()
		_ = util.Delete(blobDir)
	}()

	backend, err := player.New(viper.GetString(key.Player), player.Options{Resolve: blobs.Path})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := backend.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warn(err)
		}
	}()

	title := lo.Must(cmd.Flags().GetString("title"))
	if title == "" {
		title = filepath.Base(locator)
	}

	session := playback.NewSession(locator, title, playback.Options{
		Element:         backend,
		Resolver:        stream.FromConfig(network.New()),
		Credentials:     auth.NewKeyring(),
		ProfileID:       profileID(cmd),
		Scheme:          flagOr(cmd, "scheme", viper.GetString(key.StreamFrontendScheme)),
		Blobs:           blobs,
		IntroURL:        intro,
		ControlsTimeout: config.Seconds(key.PlayerControlsTimeout),
		OnError: func(message string) {
			log.WithField("locator", locator).Error(message)
		},
	})
	defer session.Close()

	if err := session.Start(ctx); err != nil {
		return err
	}

	return tui.Run(&tui.Options{
		Session:     session,
		Exited:      backend.Wait(),
		SkipSeconds: viper.GetFloat64(key.PlayerSkipSeconds),
		VolumeStep:  viper.GetFloat64(key.PlayerVolumeStep) / 100,
	})
}

// introPath returns the configured intro, or the bundled one extracted to the assets directory.
func introPath() (string, error) {
	fs := filesystem.API()

	if path := viper.GetString(key.PlayerIntro); path != "" {
		exists, err := fs.Exists(path)
		if err != nil {
			return "", err
		}
		if !exists {
			return "", fmt.Errorf("intro clip not found at %s, fix %s or unset it to use the bundled clip", path, key.PlayerIntro)
		}
		return path, nil
	}

	path := where.Intro()
	exists, err := fs.Exists(path)
	if err != nil {
		return "", err
	}
	if !exists {
		if err := fs.WriteFile(path, constant.IntroClip, 0o644); err != nil {
			return "", fmt.Errorf("extract intro clip: %w", err)
		}
	}
	return path, nil
}

func profileID(cmd *cobra.Command) mo.Option[string] {
	if id := lo.Must(cmd.Flags().GetString("profile")); id != "" {
		return mo.Some(id)
	}
	return store.CurrentProfileID()
}

func flagOr(cmd *cobra.Command, name, fallback string) string {
	value := lo.Must(cmd.Flags().GetString(name))
	return lo.Ternary(value != "", value, fallback)
}
