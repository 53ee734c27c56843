// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// framefeed fabricates a byte stream from its config, feeds it through a
// frame parser, and logs every decoded frame together with the
// allocation-hook activity backing the suspended executions.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"code.hybscloud.com/coframe"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "framefeed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()

	trace := &coframe.TraceAllocator{
		OnAlloc: func(size int) { logger.Info("alloc", zap.Int("size", size)) },
		OnFree:  func(size int) { logger.Info("dealloc", zap.Int("size", size)) },
	}

	var s coframe.ByteStream
	diag := coframe.NewDiagnostics(64)
	s.Observe(diag)

	parser := coframe.NewFrameParserWith(&s, cfg.proto, trace)
	if !parser.Valid() {
		return fmt.Errorf("parser construction: allocation failure")
	}
	defer parser.Close()

	input := make([]byte, 0, 64)
	for _, frame := range cfg.frames {
		input = append(input, cfg.proto.Encode(frame)...)
	}
	for _, chunk := range cfg.raw {
		input = append(input, chunk...)
	}
	if len(input) == 0 {
		// Same exercise as the stock example: one frame whose content
		// contains the escape byte, framed by escape+marker pairs.
		input = append(input, 0x70)
		input = append(input, cfg.proto.Encode("Hello")...)
		input = append(input, 0x07)
		input = append(input, cfg.proto.Encode("World")...)
		input = append(input, 0x99)
	}

	src := coframe.New[byte](coframe.Emit(input), coframe.Lazy)
	defer src.Close()

	coframe.Drive(src, &s, parser, func(frame string) {
		logger.Info("frame", zap.String("content", frame), zap.Int("size", len(frame)))
	})

	for ev, ok := diag.Poll(); ok; ev, ok = diag.Poll() {
		switch ev.Kind {
		case coframe.EventOverwrite:
			logger.Warn("byte overwritten before consumption")
		case coframe.EventDesync:
			logger.Warn("frame discarded out of sync", zap.Int("discarded", ev.Size))
		}
	}
	logger.Info("done",
		zap.Uint32("frames", diag.Frames()),
		zap.Uint32("desyncs", diag.Desyncs()),
		zap.Uint32("overwrites", diag.Overwrites()),
		zap.Uint32("allocs", trace.Allocs()),
		zap.Uint32("frees", trace.Frees()),
	)
	return nil
}
