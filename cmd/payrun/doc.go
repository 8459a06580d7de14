// Package main hosts the payrun CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into payout
// runs, configuration scaffolding, run-history queries, and notification
// smoke tests. It centralizes configuration resolution, audit log setup, and
// gateway construction so subcommands can focus on user experience instead
// of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
