//go:build !dim3

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/posebridge/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConvertToSceneAndBack(t *testing.T) {
	input := `
scale: 32
reference_frame:
  translation: [400, 80, 0]
  rotation: [0, 0, 0.5]
poses:
  - {x: 1, y: 2, angle: 0.25}
  - {x: -3, y: 0.5, angle: -2}
`
	scene, err := execute(t, input, "convert", "to-scene")
	require.NoError(t, err)

	var forward conversionDoc
	require.NoError(t, yaml.Unmarshal([]byte(scene), &forward))
	require.Len(t, forward.Transforms, 2)
	assert.Empty(t, forward.Poses)
	assert.Zero(t, forward.Transforms[0].Translation[2])
	assert.Equal(t, [3]float64{1, 1, 1}, forward.Transforms[0].Scale)

	back, err := execute(t, scene, "convert", "to-sim")
	require.NoError(t, err)

	var reverse conversionDoc
	require.NoError(t, yaml.Unmarshal([]byte(back), &reverse))
	require.Len(t, reverse.Poses, 2)
	want := []poseDoc{{X: 1, Y: 2, Angle: 0.25}, {X: -3, Y: 0.5, Angle: -2}}
	for i, p := range reverse.Poses {
		assert.InDelta(t, want[i].X, p.X, 1e-9)
		assert.InDelta(t, want[i].Y, p.Y, 1e-9)
		assert.InDelta(t, want[i].Angle, p.Angle, 1e-9)
	}
}

func TestConvertReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poses.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scale: 2\nposes:\n  - {x: 3, y: 4, angle: 0}\n"), 0o644))

	out, err := execute(t, "", "convert", "to-scene", "-f", path)
	require.NoError(t, err)

	var doc conversionDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Transforms, 1)
	assert.Equal(t, [3]float64{6, 8, 0}, doc.Transforms[0].Translation)
	assert.Equal(t, [4]float64{1, 0, 0, 0}, doc.Transforms[0].Rotation)
}

func TestConvertDropsOutOfPlaneRotation(t *testing.T) {
	// Half turn about X: no in-plane component survives.
	input := "transforms:\n  - {translation: [5, 6, 7], rotation: [0, 1, 0, 0]}\n"
	out, err := execute(t, input, "convert", "to-sim")
	require.NoError(t, err)

	var doc conversionDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Poses, 1)
	assert.Equal(t, poseDoc{X: 5, Y: 6, Angle: 0}, doc.Poses[0])
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		want  error
	}{
		{"negative_scale", "scale: -1\n", []string{"convert", "to-scene"}, config.ErrInvalidScale},
		{"nan_scale", "scale: .nan\n", []string{"convert", "to-sim"}, config.ErrInvalidScale},
		{"malformed", "poses: [", []string{"convert", "to-scene"}, nil},
		{"missing_file", "", []string{"convert", "to-scene", "-f", filepath.Join(os.TempDir(), "posebridge-missing.yaml")}, os.ErrNotExist},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.input, tc.args...)
			require.Error(t, err)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestConvertEmptyInput(t *testing.T) {
	out, err := execute(t, "", "convert", "to-scene")
	require.NoError(t, err)

	var doc conversionDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 1.0, doc.Scale)
	assert.Empty(t, doc.Transforms)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "posebridge version dev (2D)\n", out)
}

func TestRootRejectsBadLogLevel(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--log-level", "loud", "convert", "to-scene"})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
