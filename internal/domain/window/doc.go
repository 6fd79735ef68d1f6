// Package window owns the shell's single top-level window.
//
// Lifecycle:
//
//	(none) --Create/Activate--> hidden --Ready--> visible --Close/Closed--> (none)
//
// The window is created hidden and shown only once the hosted content reports
// it has painted, so the user never sees a blank frame. Window commands issued
// while no window exists are silent no-ops, and IsMaximized reports false.
//
// OS maximize transitions are pushed as window.maximizeChanged events; this is
// the only unsolicited message the host sends.
package window
