// Package main hosts the dicomweb-pacs CLI entrypoint and command graph.
//
// The Cobra-based command tree starts the gateway, scaffolds and validates
// configuration, queries a running instance for status, and inspects the
// query tag dictionary and the audit trail. Command bodies stay thin; the
// behavior lives in the internal packages and is surfaced here through
// dedicated subcommands.
package main
