// Package ui provides the terminal dashboard for Marquee.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea program. Model owns one state struct per
// view and routes every message through Update; all network calls run inside
// tea.Cmd functions and report back as messages, so Update never blocks.
//
// Access to views is decided by session.Gate. While a stored session is being
// restored the placeholder view shows a spinner; afterwards protected views
// redirect to the login screen, which returns to the view that was asked for.
//
// # Views
//
//   - Login: email and password, validated before any request is sent
//   - Series: paged table with search, ordering and create/edit/delete
//   - Categories: paged table with create/edit/delete
//   - Episodes: series picker and a create-only episode dialog
//   - Activity: tail of the application log, filtered by level
//
// Lists are backed by state.List and paging.Pager. Dialogs wrap a
// form.Controller; invalid input keeps the dialog open with per-field
// messages, and deletions are confirmed before the request is issued.
//
// # Stale results
//
// Leaving a view closes its list and bumps a mount counter. Results that
// arrive for a closed list, an older mount or a dismissed dialog are dropped.
//
// # Key Bindings
//
//   - 1-4, Tab/Shift+Tab: Switch view
//   - n / e / d: New, edit, delete
//   - [ / ]: Previous and next page
//   - /: Search series
//   - o: Toggle series ordering
//   - f: Cycle activity level filter
//   - T: Cycle theme
//   - L: Logout
//   - ?: Help
//   - q or Ctrl+C: Exit
package ui
