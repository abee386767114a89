// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package batch

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{
		"a.dcm",
		"series1/b.dcm",
		"series1/deeper/c",
		".DS_Store",
		"series1/.DS_Store",
		"series1/Thumbs.db",
		"desktop.ini",
		"series1/._b.dcm",
	} {
		touch(t, filepath.Join(root, name))
	}
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, "a.dcm"), filepath.Join(root, "link.dcm")))

	got, err := Discover(root, nil)
	require.NoError(t, err)
	sort.Strings(got)

	want := []string{
		filepath.Join(root, "a.dcm"),
		filepath.Join(root, "series1/b.dcm"),
		filepath.Join(root, "series1/deeper/c"),
	}
	assert.Equal(t, want, got)
}

func TestDiscover_SymlinkedRoot(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	touch(t, filepath.Join(real, "a.dcm"))
	touch(t, filepath.Join(real, "series1/b.dcm"))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(real, link))

	got, err := Discover(link, nil)
	require.NoError(t, err)
	sort.Strings(got)
	assert.Equal(t, []string{
		filepath.Join(link, "a.dcm"),
		filepath.Join(link, "series1/b.dcm"),
	}, got)
}

func TestDiscover_EmptyRoot(t *testing.T) {
	got, err := Discover(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscover_SetupErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.dcm")
	touch(t, file)

	tests := []struct {
		name string
		root string
	}{
		{"missing root", filepath.Join(dir, "missing")},
		{"root is a file", file},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Discover(tc.root, nil)
			assert.ErrorIs(t, err, ErrSetup)
		})
	}
}

func TestDiscover_SkipsUnreadableDirectories(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root := t.TempDir()
	touch(t, filepath.Join(root, "ok.dcm"))
	locked := filepath.Join(root, "locked")
	touch(t, filepath.Join(locked, "hidden.dcm"))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	got, err := Discover(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "ok.dcm")}, got)
}
