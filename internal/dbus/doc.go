// Package dbus exposes toastd on the session bus as io.github.jmylchreest.Toastd
// and provides a client for it. Host messages arrive as method calls;
// page and notification closes leave as signals.
package dbus
