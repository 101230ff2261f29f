// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log is the leveled logging facade used throughout the
// module: a minimal Logger interface, a Helper with per-level
// convenience methods, and a level Filter, all backed by
// github.com/op/go-logging.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/op/go-logging"
)

// Level is a log severity, ordered least to most severe.
type Level int

// Defined levels, mirroring go-logging's.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelNotice
	LevelWarn
	LevelError
	LevelCritical
)

func (l Level) goLevel() logging.Level {
	switch l {
	case LevelDebug:
		return logging.DEBUG
	case LevelInfo:
		return logging.INFO
	case LevelNotice:
		return logging.NOTICE
	case LevelWarn:
		return logging.WARNING
	case LevelError:
		return logging.ERROR
	default:
		return logging.CRITICAL
	}
}

// Logger is the narrow sink every component logs through.
type Logger interface {
	Log(level Level, msg string)
}

// NewStdLogger returns a Logger that writes to w through a go-logging
// backend set on its own Logger instance.
func NewStdLogger(w io.Writer) Logger {
	backend := logging.NewLogBackend(w, "", 0)
	formatter := logging.MustStringFormatter(
		`%{time:2006-01-02T15:04:05.000Z07:00} %{level:.4s} %{message}`,
	)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.DEBUG, "")
	logger := logging.MustGetLogger("nrbf")
	logger.SetBackend(leveled)
	return &goLogger{logger: logger}
}

type goLogger struct {
	logger *logging.Logger
}

func (g *goLogger) Log(level Level, msg string) {
	switch level {
	case LevelDebug:
		g.logger.Debug(msg)
	case LevelInfo:
		g.logger.Info(msg)
	case LevelNotice:
		g.logger.Notice(msg)
	case LevelWarn:
		g.logger.Warning(msg)
	case LevelError:
		g.logger.Error(msg)
	default:
		g.logger.Critical(msg)
	}
}

// FilterLevel drops any Log call below level.
func FilterLevel(level Level) func(*filterLogger) {
	return func(f *filterLogger) { f.min = level }
}

type filterLogger struct {
	next Logger
	min  Level
}

func (f *filterLogger) Log(level Level, msg string) {
	if level < f.min {
		return
	}
	f.next.Log(level, msg)
}

// NewFilter wraps next so that Log calls below the configured
// FilterLevel are dropped.
func NewFilter(next Logger, opts ...func(*filterLogger)) Logger {
	f := &filterLogger{next: next, min: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Helper adds printf-style, per-level convenience methods over a
// Logger. A nil *Helper is valid and every method on it is a no-op, so
// components can hold a *Helper unconditionally without a nil check.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger in a Helper.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, msg string) {
	if h == nil || h.logger == nil {
		return
	}
	h.logger.Log(level, msg)
}

func (h *Helper) Debug(args ...interface{})                 { h.log(LevelDebug, fmt.Sprint(args...)) }
func (h *Helper) Debugf(format string, args ...interface{}) { h.log(LevelDebug, fmt.Sprintf(format, args...)) }
func (h *Helper) Info(args ...interface{})                  { h.log(LevelInfo, fmt.Sprint(args...)) }
func (h *Helper) Infof(format string, args ...interface{})  { h.log(LevelInfo, fmt.Sprintf(format, args...)) }
func (h *Helper) Notice(args ...interface{})                { h.log(LevelNotice, fmt.Sprint(args...)) }
func (h *Helper) Noticef(format string, args ...interface{}) {
	h.log(LevelNotice, fmt.Sprintf(format, args...))
}
func (h *Helper) Warn(args ...interface{})                 { h.log(LevelWarn, fmt.Sprint(args...)) }
func (h *Helper) Warnf(format string, args ...interface{}) { h.log(LevelWarn, fmt.Sprintf(format, args...)) }
func (h *Helper) Error(args ...interface{})                { h.log(LevelError, fmt.Sprint(args...)) }
func (h *Helper) Errorf(format string, args ...interface{}) {
	h.log(LevelError, fmt.Sprintf(format, args...))
}
func (h *Helper) Critical(args ...interface{}) { h.log(LevelCritical, fmt.Sprint(args...)) }
func (h *Helper) Criticalf(format string, args ...interface{}) {
	h.log(LevelCritical, fmt.Sprintf(format, args...))
}

// Default returns a Helper writing to stderr at LevelError and above,
// suitable as a zero-config fallback for callers that pass no Logger.
func Default() *Helper {
	return NewHelper(NewFilter(NewStdLogger(os.Stderr), FilterLevel(LevelError)))
}
