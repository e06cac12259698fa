// SPDX-License-Identifier: MPL-2.0

// Package testutil builds filesystem fixtures for tests: pack manifests,
// .mcpack and .mcaddon archives, and Must* wrappers that fail the test
// instead of returning errors.
package testutil
