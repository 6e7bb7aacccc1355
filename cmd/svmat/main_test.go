// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nicshackle/libsurvive/svmat"
)

func TestParseMatrix(t *testing.T) {
	t.Parallel()

	m, err := parseMatrix(" 1, 2 ; 3,4; ")
	require.NoError(t, err)
	defer svmat.ReleaseMat(&m)
	require.Equal(t, 2, m.Rows)
	require.Equal(t, 2, m.Cols)
	require.EqualValues(t, 4, m.At(1, 1))
	require.Equal(t, "1, 2\n3, 4", formatMatrix(m))
}

func TestParseMatrix_Errors(t *testing.T) {
	t.Parallel()

	_, err := parseMatrix(" ; ")
	require.ErrorIs(t, err, errEmptyLiteral)

	_, err = parseMatrix("1,2;3")
	require.ErrorContains(t, err, "ragged")

	_, err = parseMatrix("1,x")
	require.ErrorContains(t, err, "cell [0,1]")
}

func TestMethodValue(t *testing.T) {
	t.Parallel()

	var m methodValue
	require.Equal(t, "auto", m.String())
	require.NoError(t, m.Set("LU"))
	require.Equal(t, svmat.InvertLU, svmat.InvertMethod(m))
	require.NoError(t, m.Set("svd"))
	require.Equal(t, "svd", m.String())
	require.Error(t, m.Set("qr"))
}

// run executes the CLI with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(zerolog.Nop())
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()

	return out.String(), err
}

func TestSolveCmd(t *testing.T) {
	out, err := run(t, "solve", "--a", "1,0;0,1", "--b", "1;1")
	require.NoError(t, err)
	require.Equal(t, "status: ok\n1\n1\n", out)

	out, err = run(t, "solve", "--a", "1,2;2,4", "--b", "1;1", "--method", "lu")
	require.NoError(t, err)
	require.Contains(t, out, "status: singular")

	_, err = run(t, "solve", "--a", "1,0;0,1", "--b", "1;1;1")
	require.ErrorIs(t, err, svmat.ErrDimensionMismatch)

	_, err = run(t, "solve", "--a", "1")
	require.Error(t, err)
}

func TestInvertCmd(t *testing.T) {
	out, err := run(t, "invert", "--a", "4,7;2,6")
	require.NoError(t, err)
	require.Contains(t, out, "det: 10")
	require.Contains(t, out, "0.6, -0.7")

	out, err = run(t, "invert", "--a", "0,0;0,0", "--method", "svd")
	require.NoError(t, err)
	require.Contains(t, out, "w_min/w_max: 0")

	_, err = run(t, "invert", "--a", "1,2", "--eps", "-1")
	require.Error(t, err)
}

func TestSVDCmd_Plot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spectrum.png")
	out, err := run(t, "svd", "--a", "3,0;0,2", "--plot", path)
	require.NoError(t, err)
	require.Contains(t, out, "W:\n3\n2\n")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestInfoCmd(t *testing.T) {
	out, err := run(t, "info")
	require.NoError(t, err)
	require.Contains(t, out, "backend:   "+svmat.BackendName())
}
