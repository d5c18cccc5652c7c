// Package alert fans a single alert out to a fixed, ordered set of channels.
//
// A Channel adapts one third-party backend (chat, email, bot API) to the
// two-string contract Send(ctx, title, message). The Dispatcher owns the
// channel set and broadcasts each alert to every channel in registration
// order.
//
// # Failure semantics
//
// Delivery is sequential and synchronous. The first channel error is
// returned unmodified and the remaining channels are skipped, so a caller
// cannot tell "nothing sent" from "the first N channels succeeded".
//
// # Subpackages
//
// slack, mailgun, sendgrid and telegram provide the concrete channels.
package alert
