package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/passport/internal/shared"
)

// PlaylistList prints the signed-in user's playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	if err := r.playlists.FetchPlaylists(ctx); err != nil {
		return err
	}

	playlists := r.playlists.Playlists()
	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	for _, p := range playlists {
		r.writePlain("%s\t%s\n", p.Playlist, p.Name)
	}
	return nil
}

// PlaylistShow prints one playlist with its songs.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "playlist")
	if err != nil {
		return err
	}
	if err := r.requireAuth(); err != nil {
		return err
	}

	playlist, err := r.playlists.FetchPlaylistDetails(ctx, id)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}

	r.writePlainHeader(playlist.Name)
	r.writePlain("ID: %s\nOwner: %s\nSongs: %d\n\n", playlist.ID, playlist.Owner, len(playlist.Songs))
	for i, song := range playlist.Songs {
		r.writePlain("  %d. %s\n", i+1, song)
	}
	return nil
}

// PlaylistCreate creates a playlist and prints its id.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}

	id, err := r.playlists.CreatePlaylist(ctx, name)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Created playlist %s (%s)\n", name, id)
}

// PlaylistDelete deletes a playlist.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "playlist")
	if err != nil {
		return err
	}
	if err := r.playlists.DeletePlaylist(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted playlist %s\n", id)
}

// PlaylistRename renames a playlist.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "playlist")
	if err != nil {
		return err
	}
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}
	if err := r.playlists.RenamePlaylist(ctx, id, name); err != nil {
		return err
	}
	return r.writePlain("✓ Renamed playlist %s to %s\n", id, name)
}

// PlaylistAdd appends a song to a playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	id, song, err := playlistSongArgs(cmd)
	if err != nil {
		return err
	}
	if err := r.playlists.AddSong(ctx, id, song); err != nil {
		return err
	}
	return r.writePlain("✓ Added %s to %s\n", song, id)
}

// PlaylistRemove removes a song from a playlist.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	id, song, err := playlistSongArgs(cmd)
	if err != nil {
		return err
	}
	if err := r.playlists.RemoveSong(ctx, id, song); err != nil {
		return err
	}
	return r.writePlain("✓ Removed %s from %s\n", song, id)
}

// PlaylistReorder replaces a playlist's song order with the given ids.
func (r *Runner) PlaylistReorder(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "playlist")
	if err != nil {
		return err
	}
	ids := cmd.StringArgs("songs")
	if len(ids) == 0 {
		return fmt.Errorf("%w: songs", shared.ErrMissingArgument)
	}

	songs := make([]any, len(ids))
	for i, s := range ids {
		songs[i] = s
	}
	if err := r.playlists.ReorderSongs(ctx, id, songs); err != nil {
		return err
	}
	return r.writePlain("✓ Reordered %d songs in %s\n", len(ids), id)
}

func playlistSongArgs(cmd *cli.Command) (string, string, error) {
	id, err := requireArg(cmd, "playlist")
	if err != nil {
		return "", "", err
	}
	song, err := requireArg(cmd, "song")
	if err != nil {
		return "", "", err
	}
	return id, song, nil
}
