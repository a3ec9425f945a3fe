// Package cli provides the interactive dermascan command-line client.
//
// It wires configuration, local storage, the session manager, the history
// store and the remote API clients into an interactive REPL. Typical flow:
// restore the session from the local database, then execute user commands.
//
// Key features:
//   - register / login / logout with a locally persisted session
//   - analyze <image>: submit a photo to the inference endpoint and save the
//     result to the per-user history
//   - history / delete / clear-history
//   - chat: follow-up questions about the last diagnosis
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
