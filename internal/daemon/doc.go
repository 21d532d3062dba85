// Package daemon wires the page shell, the notification stack and their
// collaborators together. It routes host messages, owns the stack's
// lifetime and applies configuration hot reloads.
package daemon
