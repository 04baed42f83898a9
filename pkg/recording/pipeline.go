package recording

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/voicecapture/pkg/audio/resampler"
	"github.com/xaionaro-go/voicecapture/pkg/capture"
	"github.com/xaionaro-go/voicecapture/pkg/interpolation/fourier"
	"github.com/xaionaro-go/voicecapture/pkg/vad"
	"github.com/xaionaro-go/voicecapture/pkg/vad/implementations/fvad"
	"github.com/xaionaro-go/voicecapture/pkg/wavfile"
)

// process converts a capture into the mono 16 kHz artifact.
func (c *Controller) process(
	ctx context.Context,
	captured capture.Capture,
) (_path string, _err error) {
	logger.Debugf(ctx, "process: %d samples at %dHz, %dch, %d dropped",
		len(captured.Samples), captured.SampleRate, captured.Channels, captured.DroppedSamples)
	defer func() { logger.Debugf(ctx, "/process: %s, %v", _path, _err) }()

	samples := captured.Samples
	if c.options.ConcealDrops && len(captured.Gaps) > 0 {
		samples = capture.ConcealGaps(ctx, captured, fourier.New())
		logger.Debugf(ctx, "concealed %d gaps", len(captured.Gaps))
	}

	mono := resampler.Downmix(samples, captured.Channels)
	resampled, err := resampler.ToTargetRate(ctx, mono, captured.SampleRate)
	if err != nil {
		return "", fmt.Errorf("unable to resample from %dHz to %dHz: %w", captured.SampleRate, resampler.TargetSampleRate, err)
	}

	if c.options.TrimSilence {
		resampled, err = c.trimSilence(ctx, resampled)
		if err != nil {
			return "", err
		}
	}

	path, err := wavfile.WriteMono(ctx, c.options.CacheDir, resampled, uint32(resampler.TargetSampleRate))
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(path) {
		if err := os.Remove(path); err != nil {
			logger.Warnf(ctx, "unable to remove '%s': %v", path, err)
		}
		return "", fmt.Errorf("%w: %q", ErrPathNotUTF8, path)
	}
	return path, nil
}

func (c *Controller) trimSilence(
	ctx context.Context,
	samples []float32,
) ([]float32, error) {
	detector, err := fvad.New(c.options.VADMode, resampler.TargetSampleRate, fvad.DefaultFrameDuration)
	if errors.Is(err, fvad.ErrNotCompiledIn) {
		logger.Warnf(ctx, "silence trimming is requested, but %v; keeping the audio untrimmed", err)
		return samples, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the voice activity detector: %w", err)
	}
	defer detector.Close()
	trimmed, err := vad.Trim(ctx, detector, samples, c.options.TrimMargin)
	if err != nil {
		return nil, fmt.Errorf("unable to trim silence: %w", err)
	}
	return trimmed, nil
}
