// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE plumbing shared by the configuration loader
// and the lenient manifest reader: schema unification with size limits,
// and error formatting that points at the offending field.
package cueutil
