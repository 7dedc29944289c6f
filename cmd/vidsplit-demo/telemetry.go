// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"

	"github.com/bombsimon/logrusr/v4"
	"github.com/fanout/vidsplit/internal/config"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/xerrors"
)

// newLogger builds the logger selected by c. The returned function flushes
// buffered entries.
func newLogger(c config.Log) (logr.Logger, func(), error) {
	switch c.Backend {
	case "zap":
		zc := zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.Level(-c.Verbosity))
		zl, err := zc.Build()
		if err != nil {
			return logr.Logger{}, nil, xerrors.Errorf("building zap logger: %w", err)
		}
		return zapr.NewLogger(zl), func() { _ = zl.Sync() }, nil
	case "zerolog":
		zerologr.SetMaxV(c.Verbosity)
		zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		return zerologr.New(&zl), func() {}, nil
	case "logrus":
		l := logrus.New()
		l.SetLevel(logrus.Level(min(int(logrus.InfoLevel)+c.Verbosity, int(logrus.TraceLevel))))
		return logrusr.New(l), func() {}, nil
	}
	return logr.Logger{}, nil, xerrors.Errorf("unknown logger %q", c.Backend)
}

// newMeterProvider returns the global provider unless metrics are enabled,
// in which case they are printed to stdout periodically.
func newMeterProvider(c config.Metrics) (metric.MeterProvider, func(context.Context) error, error) {
	if !c.Enabled {
		return otel.GetMeterProvider(), func(context.Context) error { return nil }, nil
	}
	exp, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint())
	if err != nil {
		return nil, nil, xerrors.Errorf("creating metric exporter: %w", err)
	}
	res, err := resource.Merge(resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", "vidsplit-demo")))
	if err != nil {
		return nil, nil, xerrors.Errorf("creating resource: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(c.Interval))),
	)
	return mp, mp.Shutdown, nil
}
