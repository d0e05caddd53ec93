// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// app builds the root command. Without a subcommand it runs the shuffle pipeline.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:  "ytshuffle",
		Usage: "Shuffle the items of one of your YouTube playlists in place",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "index",
				Aliases: []string{"i"},
				Usage:   "Playlist number to shuffle (skips the prompt)",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Pick the playlist in an interactive list",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before: r.before,
		Action: r.Shuffle,
		Commands: []*cli.Command{
			clearCommand(r),
			playlistsCommand(r),
			setupCommand(r),
		},
	}
}

// clearCommand revokes and removes the stored tokens.
func clearCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Revoke and clear the stored access and refresh tokens",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Clear tokens even if revocation fails",
			},
		},
		Action: r.Clear,
	}
}

// playlistsCommand lists the playlists of the authenticated account.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"ls"},
		Usage:   "List your YouTube playlists",
		Flags:   []cli.Flag{configFlag()},
		Action:  r.Playlists,
	}
}

// setupCommand writes the config file and initializes the credential database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the credential database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}
