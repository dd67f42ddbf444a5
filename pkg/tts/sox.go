package tts

import (
	"context"
	"fmt"
	"os/exec"
)

// DefaultVolumeGain is the gain in dB applied to synthesized speech
// before playback.
const DefaultVolumeGain = 3.0

// SoxVolume rewrites inPath to outPath with a volume gain in dB, using
// the sox binary. Callers fall back to playing inPath when it fails, so
// a missing sox install degrades to quieter speech rather than silence.
func SoxVolume(ctx context.Context, inPath, outPath string, gainDB float64) error {
	sox, err := exec.LookPath("sox")
	if err != nil {
		return fmt.Errorf("tts: sox not installed: %w", err)
	}

	cmd := exec.CommandContext(ctx, sox, inPath, outPath, "vol", fmt.Sprintf("%gdB", gainDB))
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("tts: sox failed: %w: %s", err, out)
	}
	return nil
}
