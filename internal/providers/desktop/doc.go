// Package desktop drives the native window through the Wails runtime.
//
// Wails owns exactly one native window and its lifecycle callbacks. This
// package maps them onto the window controller:
//
//	OnStartup       bind the runtime context, Create the window (hidden)
//	OnDomReady      Ready, which shows the window once
//	OnBeforeClose   Closed
//	second launch   Activate
//
// The runtime raises no maximize event, so WatchMaximize polls for it. Bus
// events are re-emitted as runtime events by Forwarder, and the asset server
// answers /bridge.json with the loopback bridge address and token.
//
// Every runtime call goes through the Runtime interface; tests substitute a
// recording fake for WailsRuntime.
package desktop
