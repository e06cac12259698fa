// SPDX-License-Identifier: MPL-2.0

package addons

import (
	"github.com/addonhelper/addonhelper/pkg/ledger"
)

const (
	// StateDiscovered means the archive was found in staging.
	StateDiscovered State = iota
	// StateExtracted means the archive was unpacked into scratch space.
	StateExtracted
	// StateClassified means the contained manifests were read.
	StateClassified
	// StateInstalled means pack folders were copied and activated.
	StateInstalled
	// StateRegistered means the ledger records the installation.
	StateRegistered
	// StateCleaned means scratch space and the source archive were removed.
	StateCleaned
	// StateFailed means a step failed; the source archive is kept.
	StateFailed
)

const (
	// ArchiveBundle is an .mcaddon style archive holding one or two packs.
	ArchiveBundle ArchiveKind = "bundle"
	// ArchivePack is an .mcpack style archive holding exactly one pack.
	ArchivePack ArchiveKind = "pack"
)

type (
	// State is the progress of a single archive through the installer.
	State int

	// ArchiveKind tells bundle archives from standalone pack archives.
	ArchiveKind string

	// ArchiveResult is the outcome of processing one staged archive.
	ArchiveResult struct {
		Path  string
		Kind  ArchiveKind
		State State
		// Err is set when State is StateFailed, and for non-fatal cleanup failures.
		Err error
		// Ignored is set for standalone archives without an installable manifest.
		Ignored bool

		Bundle *ledger.Bundle
		Pack   *ledger.Pack
	}

	// InstallReport summarizes an InstallPending run.
	InstallReport struct {
		Results         []ArchiveResult
		RestartRequired bool
	}
)

var stateNames = [...]string{
	StateDiscovered: "discovered",
	StateExtracted:  "extracted",
	StateClassified: "classified",
	StateInstalled:  "installed",
	StateRegistered: "registered",
	StateCleaned:    "cleaned",
	StateFailed:     "failed",
}

// String returns the lower-case state name.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Succeeded reports whether the archive reached the ledger, or was
// deliberately ignored and removed.
func (r ArchiveResult) Succeeded() bool {
	return r.State == StateRegistered || r.State == StateCleaned
}

// Found returns the number of archives the run discovered.
func (r InstallReport) Found() int { return len(r.Results) }

// Installed returns the number of archives recorded in the ledger.
func (r InstallReport) Installed() int {
	n := 0
	for _, res := range r.Results {
		if res.Succeeded() && !res.Ignored {
			n++
		}
	}
	return n
}

// Failed returns the results that ended in StateFailed.
func (r InstallReport) Failed() []ArchiveResult {
	var out []ArchiveResult
	for _, res := range r.Results {
		if res.State == StateFailed {
			out = append(out, res)
		}
	}
	return out
}
