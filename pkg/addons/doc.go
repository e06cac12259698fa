// SPDX-License-Identifier: MPL-2.0

// Package addons installs, activates and removes Bedrock add-on packages.
//
// A [Service] owns one server [Layout]. Operators drop archives into the
// staging directory and [Service.InstallPending] turns each of them into
// installed pack folders, world activation entries and a ledger record:
//
//   - bundles (.mcaddon) may contribute a behavior pack, a resource pack or both;
//   - standalone packs (.mcpack) contribute exactly one pack.
//
// Every archive moves through the states Discovered, Extracted, Classified,
// Installed, Registered and Cleaned. A failure moves it to Failed, leaves the
// archive in staging for another attempt and never stops the rest of the run.
// Pack files are always installed before the ledger is written, so a crash
// can orphan files but never leave a ledger entry pointing at nothing.
//
// [Service.RemoveBundle] and [Service.RemovePack] reverse an installation by
// the 1-based index shown in the listings. [Commands] adapts the service to a
// verb-and-arguments command surface.
package addons
