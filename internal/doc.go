// Package internal contains helper utilities that are intentionally private
// to redsession: secure identifier generation and the versioned one-way
// derivation behind the private storage-key form.
//
// # What this package must NOT do
//
//   - Export types that appear in the public redsession API.
//   - Be imported by any package outside the redsession module.
package internal
