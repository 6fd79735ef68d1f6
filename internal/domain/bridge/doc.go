// Package bridge is the closed catalog of privileged commands the sandboxed UI
// may invoke. Commands are fixed at compile time; nothing registers at runtime.
//
// Absent resources (no window, a cancelled dialog) yield an empty success and
// policy denials (a non-web URL) are reported as success. Only real failures,
// such as an unreachable skill backend, produce a tagged Failure.
package bridge
