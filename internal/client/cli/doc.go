// Package cli provides the interactive snapshop command-line client.
//
// It wires configuration, local storage, the Gemini client and the camera
// into a REPL. Typical flow: restore or start a session, capture an image
// with the camera or upload a file, search, and page through the shopping
// results.
//
// Key features:
//   - Signup / Login / Logout against local accounts
//   - Profile with location and profile picture
//   - Image search (camera or upload) and text search
//   - Search history with re-display of past results
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// the process is interrupted. See runREPL for the command set.
package cli
