// SPDX-License-Identifier: MPL-2.0

// Package activation maintains the per-world pack activation files
// world_behavior_packs.json and world_resource_packs.json.
//
// Each file is a JSON array of {"pack_id", "version"} objects. Activation is
// idempotent by pack id and removal filters every matching entry. Fields the
// server or other tools add to an entry are preserved when the file is rewritten.
//
// The registry never returns errors to its callers: failures are logged and
// the operation reports that nothing changed.
package activation
