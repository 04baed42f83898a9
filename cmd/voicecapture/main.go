package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/voicecapture/pkg/audio"
	_ "github.com/xaionaro-go/voicecapture/pkg/audio/backends/malgo"
	_ "github.com/xaionaro-go/voicecapture/pkg/audio/backends/portaudio"
	_ "github.com/xaionaro-go/voicecapture/pkg/audio/backends/pulseaudio"
	"github.com/xaionaro-go/voicecapture/pkg/audio/registry"
	"github.com/xaionaro-go/voicecapture/pkg/config"
	"github.com/xaionaro-go/voicecapture/pkg/recording"
	"github.com/xaionaro-go/voicecapture/pkg/transcription"
	"github.com/xaionaro-go/voicecapture/pkg/transcription/openai"
)

func main() {
	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	configPath := pflag.String("config", config.DefaultPath(), "path to the YAML configuration file")
	backend := pflag.String("backend", "", "audio backend to capture with (\"auto\" tries them by priority)")
	cacheDir := pflag.String("cache-dir", "", "directory to write the recordings to")
	trimSilence := pflag.Bool("trim-silence", false, "trim leading and trailing non-speech")
	concealDrops := pflag.Bool("conceal-drops", false, "fill the audio dropped due to contention by interpolation")
	transcribe := pflag.Bool("transcribe", false, "transcribe the recording and delete it afterwards")
	language := pflag.String("language", "", "language of the speech for the transcription (\"auto\" to detect)")
	listBackends := pflag.Bool("list-backends", false, "print the compiled in audio backends and exit")
	pflag.Parse()

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if *listBackends {
		for _, name := range registry.DeviceSessionFactoryNames() {
			fmt.Println(name)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	assertNoError(err)
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *cacheDir != "" {
		cfg.CacheDir = *cacheDir
	}
	if pflag.CommandLine.Changed("trim-silence") {
		cfg.TrimSilence = *trimSilence
	}
	if pflag.CommandLine.Changed("conceal-drops") {
		cfg.ConcealDrops = *concealDrops
	}
	if pflag.CommandLine.Changed("transcribe") {
		cfg.Transcription.Enabled = *transcribe
	}
	if *language != "" {
		cfg.Transcription.Language = *language
	}
	assertNoError(cfg.Validate())

	openSession, err := audio.DeviceSessionOpenerByName(cfg.Backend)
	assertNoError(err)
	controller := recording.New(openSession, recording.OptionsFromConfig(cfg))

	signalCtx, cancelFn := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancelFn()

	assertNoError(controller.Start(ctx))
	fmt.Fprintln(os.Stderr, "recording, press Enter to stop...")

	observability.Go(ctx, func() {
		_, err := bufio.NewReader(os.Stdin).ReadString('\n')
		logger.Debugf(ctx, "stdin: %v", err)
		cancelFn()
	})
	<-signalCtx.Done()

	path, err := controller.Stop(ctx)
	assertNoError(err)

	if !cfg.Transcription.Enabled {
		fmt.Println(path)
		return
	}

	transcriber := openai.New(openai.Config{
		BaseURL: cfg.Transcription.BaseURL,
		APIKey:  cfg.Transcription.APIKey,
		Model:   cfg.Transcription.Model,
	})
	text, err := transcription.TranscribeAndDelete(ctx, transcriber, path, cfg.Transcription.Language)
	assertNoError(err)
	fmt.Println(text)
}

func assertNoError(err error) {
	if err != nil {
		panic(err)
	}
}
