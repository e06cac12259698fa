// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestFilesystemPath_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     FilesystemPath
		wantErrs int
	}{
		{"absolute path", "/srv/bedrock/behavior_packs", 0},
		{"relative path", "plugins/addonshelper", 0},
		{"windows style", `C:\bedrock\worlds`, 0},
		{"spaces inside", "/srv/Bedrock level", 0},
		{"empty", "", 1},
		{"whitespace only", "   ", 1},
		{"tab only", "\t", 1},
		{"nul byte", "/srv/bed\x00rock", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, errs := tt.path.IsValid()
			if ok != (tt.wantErrs == 0) || len(errs) != tt.wantErrs {
				t.Fatalf("FilesystemPath(%q).IsValid() = %v, %v; want %d errors", tt.path, ok, errs, tt.wantErrs)
			}
			for _, err := range errs {
				if !errors.Is(err, ErrInvalidFilesystemPath) {
					t.Errorf("error %v does not wrap ErrInvalidFilesystemPath", err)
				}
			}
		})
	}
}

func TestFolderName_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   FolderName
		want bool
	}{
		{"default world", "Bedrock level", true},
		{"unicode", "Mundo Ñandú", true},
		{"dotted", "v1.2 world", true},
		{"empty", "", false},
		{"blank", "  ", false},
		{"dot", ".", false},
		{"dot dot", "..", false},
		{"slash", "../other", false},
		{"backslash", `worlds\other`, false},
		{"nul byte", "a\x00b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, errs := tt.in.IsValid()
			if ok != tt.want {
				t.Fatalf("FolderName(%q).IsValid() = %v, want %v", tt.in, ok, tt.want)
			}
			if !ok && (len(errs) != 1 || !errors.Is(errs[0], ErrInvalidFolderName)) {
				t.Errorf("errors = %v, want one ErrInvalidFolderName", errs)
			}
		})
	}
}
