// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// Views follow the router's view table:
//  1. home : menu of destinations, login or logout
//  2. login : username and password form, ctrl+r registers instead
//  3. profile : explored countries, per-country history and bulk export with live progress
//  4. playlists : the user's playlists and the songs of an open playlist
//  5. recommendations : system and community picks for a country
//
// Every navigation goes through [router.Router], so guarded views redirect to login
// while signed out. When the request pipeline invalidates the session it moves the
// router itself; the [Model] notices on the next message and shows the login view.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
