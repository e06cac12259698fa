// SPDX-License-Identifier: MPL-2.0

package addons

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/addonhelper/addonhelper/internal/testutil"
	"github.com/addonhelper/addonhelper/pkg/activation"
)

const (
	fooID      = "11111111-1111-4111-8111-111111111111"
	barBehID   = "22222222-2222-4222-8222-222222222222"
	barResID   = "33333333-3333-4333-8333-333333333333"
	otherResID = "44444444-4444-4444-8444-444444444444"
)

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	layout := DefaultLayout(t.TempDir(), "")
	svc, err := New(layout, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return svc
}

func stage(t *testing.T, svc *Service, name string, files map[string]string) string {
	t.Helper()
	path := filepath.Join(svc.Layout().StagingDir, name)
	testutil.WriteZip(t, path, files)
	return path
}

func stageFoo(t *testing.T, svc *Service) string {
	t.Helper()
	return stage(t, svc, "Foo.mcpack", map[string]string{
		"manifest.json":        testutil.Manifest("Foo", fooID, testutil.ModuleData, [3]int{1, 2, 0}),
		"entities/zombie.json": "{}",
	})
}

func stageBar(t *testing.T, svc *Service) string {
	t.Helper()
	return stage(t, svc, "Bar.mcaddon", map[string]string{
		"Bar_BP/manifest.json":          testutil.Manifest("Bar", barBehID, testutil.ModuleData, [3]int{1, 0, 0}),
		"Bar_BP/scripts/main.js":        "console.log('bar')",
		"Bar_RP/manifest.json":          testutil.Manifest("Bar", barResID, testutil.ModuleResources, [3]int{1, 0, 0}),
		"Bar_RP/textures/bar_block.png": "png",
	})
}

func install(t *testing.T, svc *Service) InstallReport {
	t.Helper()
	return svc.InstallPending(context.Background())
}

func activeIDs(t *testing.T, svc *Service, table activation.Table) []string {
	t.Helper()
	entries, err := svc.Registry().Entries(table)
	if err != nil {
		t.Fatalf("Entries(%s) error = %v", table, err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.PackID)
	}
	return ids
}
