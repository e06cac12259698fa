// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// Two complementary tools live here: [ActionableError], which carries the
// failed operation, the resource involved and remediation hints, and a
// catalog of Markdown [Issue] pages rendered with glamour for the failures
// operators run into most often (bad configuration, a missing staging
// directory, an archive that keeps failing to install).
package issue
