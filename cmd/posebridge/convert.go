package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/posebridge/bridge"
	"github.com/milk9111/posebridge/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// conversionDoc is both the input and the output of the convert commands.
type conversionDoc struct {
	Scale          float64      `yaml:"scale"`
	ReferenceFrame config.Frame `yaml:"reference_frame"`
	Poses          []poseDoc    `yaml:"poses,omitempty"`
	Transforms     []sceneDoc   `yaml:"transforms,omitempty"`
}

// sceneDoc is a scene transform with the rotation written as w, x, y, z.
type sceneDoc struct {
	Translation [3]float64 `yaml:"translation,flow"`
	Rotation    [4]float64 `yaml:"rotation,flow"`
	Scale       [3]float64 `yaml:"scale,flow"`
}

func (d sceneDoc) transform() bridge.SceneTransform {
	t := bridge.DefaultSceneTransform()
	t.Translation = mgl64.Vec3(d.Translation)
	if d.Rotation != ([4]float64{}) {
		t.Rotation = quatFromDoc(d.Rotation)
	}
	if d.Scale != ([3]float64{}) {
		t.Scale = mgl64.Vec3(d.Scale)
	}
	return t
}

func newSceneDoc(t bridge.SceneTransform) sceneDoc {
	return sceneDoc{
		Translation: [3]float64(t.Translation),
		Rotation:    quatToDoc(t.Rotation),
		Scale:       [3]float64(t.Scale),
	}
}

func quatFromDoc(r [4]float64) mgl64.Quat {
	return mgl64.Quat{W: r[0], V: mgl64.Vec3{r[1], r[2], r[3]}}
}

func quatToDoc(q mgl64.Quat) [4]float64 {
	return [4]float64{q.W, q.V[0], q.V[1], q.V[2]}
}

func newConvertCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert poses between simulation and scene space",
	}
	cmd.AddCommand(
		newConvertDirectionCmd(root, "to-scene", "Convert simulation poses to scene transforms", true),
		newConvertDirectionCmd(root, "to-sim", "Convert scene transforms to simulation poses", false),
	)
	return cmd
}

func newConvertDirectionCmd(root *rootOptions, use, short string, toScene bool) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return convert(cmd.Context(), logger, in, cmd.OutOrStdout(), toScene)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "YAML input file, - for stdin")
	return cmd
}

func convert(ctx context.Context, logger *zap.Logger, in io.Reader, out io.Writer, toScene bool) error {
	var doc conversionDoc
	if err := yaml.NewDecoder(in).Decode(&doc); err != nil && err != io.EOF {
		return fmt.Errorf("convert: decode input: %w", err)
	}
	if doc.Scale == 0 {
		doc.Scale = config.DefaultScale
	}
	if err := config.ValidateScale(doc.Scale); err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	frame := doc.ReferenceFrame.Pose()

	if toScene {
		poses := make([]bridge.Pose, len(doc.Poses))
		for i, p := range doc.Poses {
			poses[i] = p.pose()
		}
		transforms := make([]bridge.SceneTransform, len(poses))
		if err := bridge.SceneTransforms(ctx, bridge.Active{}, poses, doc.Scale, frame, transforms); err != nil {
			return fmt.Errorf("convert: %w", err)
		}
		doc.Transforms = make([]sceneDoc, len(transforms))
		for i, t := range transforms {
			doc.Transforms[i] = newSceneDoc(t)
		}
		doc.Poses = nil
	} else {
		transforms := make([]bridge.SceneTransform, len(doc.Transforms))
		for i, t := range doc.Transforms {
			transforms[i] = t.transform()
		}
		poses := make([]bridge.Pose, len(transforms))
		if err := bridge.SimulationPoses(ctx, bridge.Active{}, transforms, doc.Scale, frame, poses); err != nil {
			return fmt.Errorf("convert: %w", err)
		}
		doc.Poses = make([]poseDoc, len(poses))
		for i, p := range poses {
			doc.Poses[i] = newPoseDoc(p)
		}
		doc.Transforms = nil
	}

	logger.Debug("converted",
		zap.Bool("to_scene", toScene),
		zap.Int("count", len(doc.Poses)+len(doc.Transforms)),
		zap.Float64("scale", doc.Scale),
	)

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("convert: encode output: %w", err)
	}
	return enc.Close()
}
