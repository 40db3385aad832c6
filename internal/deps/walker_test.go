// SPDX-License-Identifier: MPL-2.0

package deps

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elmforge/elmforge/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestWalker_FindAllDependencies(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteProject(t, root, []string{"src", "shared"}, map[string]string{
		"src/Main.elm": `module Main exposing (main)
import Html
import Page.Home
import Api
`,
		"src/Page/Home.elm": `module Page.Home exposing (view)
import Html
import Ui.Button
import Api
`,
		"shared/Ui/Button.elm": `module Ui.Button exposing (view)
import Html.Events
`,
		"src/Api.elm": `module Api exposing (get)
import Http
`,
		"src/Unused.elm": "module Unused exposing (..)\n",
	})

	w, err := New()
	require.NoError(t, err)

	got, err := w.FindAllDependencies(context.Background(), filepath.Join(root, "src", "Main.elm"))
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "src", "Page", "Home.elm"),
		filepath.Join(root, "src", "Api.elm"),
		filepath.Join(root, "shared", "Ui", "Button.elm"),
	}, got)
}

func TestWalker_Cycle(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteProject(t, root, []string{"src"}, map[string]string{
		"src/A.elm": "module A exposing (..)\nimport B\n",
		"src/B.elm": "module B exposing (..)\nimport A\n",
	})

	w, err := New(WithCacheSize(4))
	require.NoError(t, err)

	got, err := w.FindAllDependencies(context.Background(), filepath.Join(root, "src", "A.elm"))
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "src", "B.elm")}, got)
}

func TestWalker_NoManifest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteFile(t, root, "Main.elm", "module Main exposing (..)\nimport Helper\n")
	testutil.WriteFile(t, root, "Helper.elm", "module Helper exposing (..)\n")

	w, err := New()
	require.NoError(t, err)

	got, err := w.FindAllDependencies(context.Background(), filepath.Join(root, "Main.elm"))
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "Helper.elm")}, got)
}

func TestWalker_MissingEntry(t *testing.T) {
	t.Parallel()

	w, err := New()
	require.NoError(t, err)

	_, err = w.FindAllDependencies(context.Background(), filepath.Join(t.TempDir(), "Missing.elm"))
	require.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
}

func TestWalker_UnscannableDependency(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteProject(t, root, []string{"src"}, map[string]string{
		"src/Main.elm":  "module Main exposing (..)\nimport Big\n",
		"src/Big.elm":   "module Big exposing (..)\n-- " + strings.Repeat("x", 2*MaxLineSize) + "\nimport After\n",
		"src/After.elm": "module After exposing (..)\n",
	})

	w, err := New()
	require.NoError(t, err)

	got, err := w.FindAllDependencies(context.Background(), filepath.Join(root, "src", "Main.elm"))
	require.ErrorIs(t, err, bufio.ErrTooLong)
	require.Contains(t, err.Error(), "Big.elm")
	require.Nil(t, got)
}

func TestWalker_Canceled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteProject(t, root, []string{"src"}, map[string]string{
		"src/Main.elm": "module Main exposing (..)\n",
	})

	w, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = w.FindAllDependencies(ctx, filepath.Join(root, "src", "Main.elm"))
	require.ErrorIs(t, err, context.Canceled)
}
