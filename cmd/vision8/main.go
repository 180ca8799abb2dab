/*
 * Copyright 2026 Joshua Jones <joshua.jones.software@gmail.com>
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      www.apache.org
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"vision8"
	"vision8/chip8"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts, err := parseFlags(os.Args[1:], vision8.LoadConfig())
	if err != nil {
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			_, _ = fmt.Fprintln(os.Stderr, usageErr.Error())
			usageErr.ShowUsage(os.Stderr)
			os.Exit(2)
		}
		log.Fatal(err)
	}

	logger, err := vision8.NewLogger(opts.cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	zap.ReplaceGlobals(logger)
	undo := zap.RedirectStdLog(logger)

	err = run(ctx, logger, opts, os.Stdout)
	_ = logger.Sync()
	undo()

	if err != nil {
		cancel()
		log.Fatal(err)
	}
}

func run(ctx context.Context, logger *zap.Logger, opts options, stdout io.Writer) error {
	program, err := os.ReadFile(opts.input)
	if err != nil {
		return err
	}
	if len(program) == 0 {
		return fmt.Errorf("%s: empty program", opts.input)
	}

	if opts.disasm {
		for _, line := range chip8.Disassemble(program, chip8.ProgramStartAddress) {
			if _, err := fmt.Fprintln(stdout, line); err != nil {
				return err
			}
		}
		return nil
	}

	e := vision8.NewEmulator(opts.cfg, logger)
	if err := e.Load(program); err != nil {
		if !errors.Is(err, chip8.ErrProgramTruncated) {
			return err
		}
		logger.Warn("program does not fit in memory", zap.Error(err))
	}

	if opts.headless > 0 {
		return e.Headless(ctx, opts.headless)
	}

	err = e.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted")
		return nil
	}
	return err
}
