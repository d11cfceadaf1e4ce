// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/passport/internal/formatter"
)

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// setupCommand handles setup operations for configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	credentials := []cli.Flag{
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Account password",
			Sources: cli.EnvVars("PASSPORT_PASSWORD"),
		},
	}

	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the passport session",
		Commands: []*cli.Command{
			{
				Name:      "register",
				Usage:     "Create an account and sign in",
				Arguments: []cli.Argument{&cli.StringArg{Name: "username"}},
				Flags:     credentials,
				Action:    r.AuthRegister,
			},
			{
				Name:      "login",
				Usage:     "Sign in and persist the session",
				Arguments: []cli.Argument{&cli.StringArg{Name: "username"}},
				Flags:     credentials,
				Action:    r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "End the session on the backend and locally",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current session",
				Action: r.AuthStatus,
			},
			{
				Name:      "whois",
				Usage:     "Look up a user id by username",
				Arguments: []cli.Argument{&cli.StringArg{Name: "username"}},
				Flags:     jsonFlags(),
				Action:    r.AuthWhois,
			},
		},
	}
}

// playlistCommand handles playlist operations
func playlistCommand(r *Runner) *cli.Command {
	playlistArg := &cli.StringArg{Name: "playlist"}
	songArg := &cli.StringArg{Name: "song"}

	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List your playlists",
				Flags:  jsonFlags(),
				Action: r.PlaylistList,
			},
			{
				Name:      "show",
				Usage:     "Show a playlist and its songs",
				Arguments: []cli.Argument{playlistArg},
				Flags:     jsonFlags(),
				Action:    r.PlaylistShow,
			},
			{
				Name:      "create",
				Usage:     "Create a playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.PlaylistCreate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a playlist",
				Arguments: []cli.Argument{playlistArg},
				Action:    r.PlaylistDelete,
			},
			{
				Name:      "rename",
				Usage:     "Rename a playlist",
				Arguments: []cli.Argument{playlistArg, &cli.StringArg{Name: "name"}},
				Action:    r.PlaylistRename,
			},
			{
				Name:      "add",
				Usage:     "Add a song to a playlist",
				Arguments: []cli.Argument{playlistArg, songArg},
				Action:    r.PlaylistAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove a song from a playlist",
				Arguments: []cli.Argument{playlistArg, songArg},
				Action:    r.PlaylistRemove,
			},
			{
				Name:      "reorder",
				Usage:     "Replace a playlist's song order",
				Arguments: []cli.Argument{playlistArg, &cli.StringArgs{Name: "songs", Min: 0, Max: -1}},
				Action:    r.PlaylistReorder,
			},
		},
	}
}

// passportCommand handles exploration history operations
func passportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "passport",
		Aliases: []string{"pp"},
		Usage:   "Exploration history operations",
		Commands: []*cli.Command{
			{
				Name:   "countries",
				Usage:  "List explored countries",
				Flags:  jsonFlags(),
				Action: r.PassportCountries,
			},
			{
				Name:      "history",
				Usage:     "Print the history of one country",
				Arguments: []cli.Argument{&cli.StringArg{Name: "country"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: json, csv, markdown, txt",
						Value:   formatter.FormatText,
					},
				},
				Action: r.PassportHistory,
			},
			{
				Name:   "songs",
				Usage:  "List every explored song across all countries, deduplicated",
				Flags:  jsonFlags(),
				Action: r.PassportSongs,
			},
			{
				Name:      "log",
				Usage:     "Log a song as explored in a country",
				Arguments: []cli.Argument{&cli.StringArg{Name: "country"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "rec", Usage: "Recommendation id to log (looked up in the country's recommendations)"},
					&cli.StringFlag{Name: "song-id", Usage: "Song id"},
					&cli.StringFlag{Name: "title", Usage: "Song title"},
					&cli.StringFlag{Name: "artist", Usage: "Song artist"},
				},
				Action: r.PassportLog,
			},
			{
				Name:  "export",
				Usage: "Export every explored country to files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: json, csv, markdown, txt",
						Value:   formatter.FormatJSON,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: passport_export_{epoch})",
					},
					&cli.StringSliceFlag{
						Name:  "country",
						Usage: "Only export these countries",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers (max 10)",
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "History requests per second",
					},
				},
				Action: r.PassportExport,
			},
		},
	}
}

// recsCommand handles country recommendation operations
func recsCommand(r *Runner) *cli.Command {
	countryArg := &cli.StringArg{Name: "country"}

	return &cli.Command{
		Name:    "recs",
		Aliases: []string{"rec"},
		Usage:   "Country recommendation operations",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List system and community recommendations for a country",
				Arguments: []cli.Argument{countryArg},
				Flags: append(jsonFlags(), &cli.StringFlag{
					Name:  "kind",
					Usage: "Filter: all, system, community",
					Value: "all",
				}),
				Action: r.RecsList,
			},
			{
				Name:      "add",
				Usage:     "Submit a community recommendation",
				Arguments: []cli.Argument{countryArg},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Song title", Required: true},
					&cli.StringFlag{Name: "artist", Usage: "Song artist", Required: true},
					&cli.StringFlag{Name: "language", Usage: "Song language", Required: true},
					&cli.StringFlag{Name: "url", Usage: "YouTube URL", Required: true},
					&cli.StringFlag{Name: "genre", Usage: "Genre"},
				},
				Action: r.RecsAdd,
			},
			{
				Name:      "open",
				Usage:     "Open a recommendation's YouTube link in the browser",
				Arguments: []cli.Argument{countryArg, &cli.StringArg{Name: "id"}},
				Action:    r.RecsOpen,
			},
		},
	}
}

// reportCommand handles content reporting
func reportCommand(r *Runner) *cli.Command {
	objectArg := &cli.StringArg{Name: "object"}

	return &cli.Command{
		Name:  "report",
		Usage: "Report content and inspect report counts",
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Register an object for reporting",
				Arguments: []cli.Argument{objectArg},
				Action:    r.ReportInit,
			},
			{
				Name:      "add",
				Usage:     "Report an object",
				Arguments: []cli.Argument{objectArg},
				Action:    r.ReportAdd,
			},
			{
				Name:      "remove",
				Usage:     "Withdraw your report",
				Arguments: []cli.Argument{objectArg},
				Action:    r.ReportRemove,
			},
			{
				Name:      "status",
				Usage:     "Show the report count and whether you reported an object",
				Arguments: []cli.Argument{objectArg},
				Flags:     jsonFlags(),
				Action:    r.ReportStatus,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive passport browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "view",
				Usage: "Initial view path, e.g. /profile or /recommendations/Japan",
				Value: "/",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file used while the TUI owns the terminal",
				Value: "./tmp/passport-tui.log",
			},
			&cli.StringFlag{
				Name:  "export-dir",
				Usage: "Directory for exports started from the TUI",
			},
		},
		Action: r.TUI,
	}
}
