// Package cli provides the interactive study planner terminal client.
//
// It wires configuration, local storage, the backend client and the
// application services, then runs a REPL until the user exits. Commands:
//
//   - register, login, biologin, identity, forgot, logout, setpin
//   - add, list [pending|completed], search <q>, show/toggle/delete <id>
//   - focus, endfocus, status
//   - me, prefs, notify on|off, theme light|dark, duration <minutes>
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
