// Package tcodeemu emulates a TCode motion device in the terminal.
//
// TCode is the line-oriented serial protocol spoken by multi-axis motion
// toys: six channels (L0-L2 linear, R0-R2 rotary) driven by 4-digit
// fixed-point position commands with optional timed and speed-limited
// moves. The emulator parses a live stream, runs the per-axis motion state
// machines, and charts all six axes, so firmware and pattern senders can be
// developed without hardware. It can also shadow the axes onto real feetech
// servos.
//
// # Installation
//
//	go install github.com/gwillem/tcode-emu/cmd/tcode-emu@latest
//
// # Usage
//
// First, run setup to pick the device port:
//
//	tcode-emu setup
//
// Then watch a live stream, or play the built-in demo pattern:
//
//	tcode-emu monitor
//	tcode-emu play
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/tcode-emu: CLI with setup, monitor, play and mirror commands
//   - cmd/tcode-send: Sends command lines to a device port
//   - pkg/tcode: Protocol parsing and the axis motion state machines
//   - pkg/device: Transports, the frame loop, and configuration
//   - pkg/pattern: Waveform patterns and the pattern player
//   - pkg/mirror: Shadowing axes onto a feetech servo bus
package tcodeemu
