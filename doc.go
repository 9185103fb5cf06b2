// Package accounts provides the authentication core of the user-account
// service: credential verification, JWT access-token issuance, the time-boxed
// two-factor challenge protocol, and the single-use confirmation and
// password-reset token lifecycle.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// accounts is the public surface. It exposes [Engine], [Builder], [Config],
// the [Store] and [Mailer] collaborator interfaces, and value types. The
// persistent user store and the email transport are collaborators owned by
// the caller; this repository ships a SQLite store (store/sqlite) and SMTP
// and console mailers (mail), but the engine depends only on the interfaces.
//
// # What this package must NOT do
//
//   - Block a request on email delivery, or surface transport failures to the
//     caller of Register, Login, or RequestPasswordReset.
//   - Distinguish "unknown email" from "wrong password" in any error it
//     returns from Login.
//   - Hold plaintext passwords beyond the scope of the call that received
//     them.
package accounts
