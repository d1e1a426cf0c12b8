// Package session persists the operator's token and profile and gates which
// views may render.
//
// A Gate starts in Loading. Restore moves it to Authenticated when a usable
// session file exists and to Unauthenticated otherwise; a missing, corrupt or
// expired session is never fatal. Views receive the gate through the narrow
// Access interface and ask Resolve where a requested route should land.
package session
