package main

import (
	"context"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/voicecapture/pkg/audio"
	_ "github.com/xaionaro-go/voicecapture/pkg/audio/backends/oto"
	_ "github.com/xaionaro-go/voicecapture/pkg/audio/backends/portaudio"
	_ "github.com/xaionaro-go/voicecapture/pkg/audio/backends/pulseaudio"
)

func main() {
	loggerLevel := logger.LevelDebug
	pflag.Var(&loggerLevel, "log-level", "Log level")
	pflag.Parse()

	if pflag.NArg() != 1 {
		panic("expected exactly one positional argument: path to a 16-bit PCM WAV file (e.g. a recording)")
	}
	filePath := pflag.Arg(0)

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	logger.Infof(ctx, "starting...")
	player, err := audio.NewPlayerAuto(ctx)
	assertNoError(err)
	defer player.Close()

	logger.Tracef(ctx, "player.PlayWAV")
	streamPlay, err := player.PlayWAV(ctx, filePath)
	logger.Tracef(ctx, "/player.PlayWAV: %v", err)
	assertNoError(err)
	defer func() {
		assertNoError(streamPlay.Close())
	}()
	logger.Infof(ctx, "started (%s -> %T)", filePath, player.PlayerPCM)
	assertNoError(streamPlay.Drain())
	logger.Infof(ctx, "finished")
}

func assertNoError(err error) {
	if err != nil {
		panic(err)
	}
}
