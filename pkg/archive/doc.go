// SPDX-License-Identifier: MPL-2.0

// Package archive extracts pack archives and merges extracted trees into the
// server's pack directories.
//
// .mcaddon and .mcpack files are plain ZIP archives with a different
// extension, so extraction sniffs the content rather than trusting the name.
package archive
