// SPDX-License-Identifier: MPL-2.0

// Package ledger persists the list of installed bundles and standalone packs.
//
// The ledger is the only record tying an operator-facing index ("addon 2")
// to the directories and pack ids an installation created. It is kept in
// insertion order, loaded once at startup and rewritten after every change.
//
// On disk the ledger is pretty-printed JSON restricted to ASCII:
//
//	{
//	  "addons": [{"name": ..., "type": "addon", "behavior_folder": ..., "behavior_uuid": ...}],
//	  "packs":  [{"name": ..., "folder": ..., "uuid": ..., "type": "behavior"}]
//	}
package ledger
