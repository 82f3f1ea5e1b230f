// Package config provides configuration loading, merging, and validation
// facilities for the wallet storage.
//
// Two kinds of configuration live here:
//   - [Storage] and [Credentials], the per-call documents every storage
//     backend receives (decoded from JSON with [DecodeStorage] and
//     [DecodeCredentials]);
//   - [StructuredConfig], the process configuration of the walletctl tool,
//     assembled from several sources in the following priority order
//     (later sources override earlier non-zero fields):
//     1. Environment variables
//     2. Command-line flags
//     3. JSON config file
package config
