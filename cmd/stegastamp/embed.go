package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/stegastamp-go/stegastamp/internal/backend/cpu"
	"github.com/stegastamp-go/stegastamp/internal/fingerprint"
	"github.com/stegastamp-go/stegastamp/internal/imageio"
)

func newEmbedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Embed a fingerprint into an image and decode it back",
		Long: `Embed runs the encoder on an image and the decoder on the result.

Weights are randomly initialized, so the decoded fingerprint only matches the
embedded one by chance. The command exercises the full pipeline: image
loading, resizing, encoding, decoding and writing the stego image.`,
		Args: cobra.NoArgs,
		RunE: embedHandler,
	}
	addModelFlags(cmd)
	cmd.Flags().String("image", "", "Input image (PNG or JPEG)")
	cmd.Flags().String("out", "stego.png", "Output PNG path")
	cmd.Flags().String("fingerprint", "", "Fingerprint as hex (random when empty)")
	return cmd
}

func embedHandler(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	imagePath, err := flags.GetString("image")
	if err != nil {
		return err
	}
	if imagePath == "" {
		return errors.New("--image is required")
	}
	outPath, err := flags.GetString("out")
	if err != nil {
		return err
	}
	fpHex, err := flags.GetString("fingerprint")
	if err != nil {
		return err
	}

	cfg, err := modelConfig(cmd)
	if err != nil {
		return err
	}
	backend := cpu.New()
	model, err := buildModel(cfg, backend)
	if err != nil {
		return err
	}

	img, err := imageio.Load(imagePath)
	if err != nil {
		return err
	}
	slog.Debug("image loaded", "path", imagePath, "bounds", img.Bounds())

	x, err := imageio.ToTensor(img, cfg.Resolution, cfg.ImageChannels, backend)
	if err != nil {
		return err
	}

	fp := fingerprint.Random(1, cfg.FingerprintSize, rand.NewSource(cfg.Seed), backend)
	if fpHex != "" {
		if fp, err = fingerprint.FromHex(fpHex, cfg.FingerprintSize, backend); err != nil {
			return err
		}
	}

	start := time.Now()
	out := model.Forward(x, fp)
	slog.Info("forward pass complete", "elapsed", time.Since(start))

	stego, err := imageio.FromTensor(out.Encoder)
	if err != nil {
		return err
	}
	if err := imageio.Save(outPath, stego); err != nil {
		return err
	}

	accuracy, err := fingerprint.BitAccuracy(out.Decoder, fp)
	if err != nil {
		return err
	}
	embedded := fingerprint.Bits(fp)[0]
	decoded := fingerprint.Bits(out.Decoder)[0]
	slog.Info("stego image written", "path", outPath, "bit_accuracy", accuracy)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "embedded: %s\n", fingerprint.Hex(embedded))
	fmt.Fprintf(w, "decoded:  %s\n", fingerprint.Hex(decoded))
	fmt.Fprintf(w, "bit accuracy: %.4f\n", accuracy)
	return nil
}
