// Package commands defines the sessionkit CLI and wires dependencies for subcommands.
//
// Commands
//
//   - keygen         Create or rotate the local identity key pair
//   - fingerprint    Print the identity fingerprint
//   - pubkey         Print the identity public key
//   - agree          Compute a shared secret with a peer public key
//   - sign           Sign a message with the identity key
//   - verify         Check a signature against a public key
//   - address        Parse and normalize "<name>.<deviceId>" addresses
//   - session        Establish a session with a peer device
//   - bench          Drive the per-device job queue and report its counters
//
// # Implementation
//
// The root command loads configuration, builds the logger and a dependency
// graph (key store, services, job queue) before any subcommand runs, and
// drains queued work after it returns.
package commands
