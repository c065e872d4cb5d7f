// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

import (
	"errors"
	"fmt"
)

var errInvalidMagic = errors.New("invalid ELF magic")

// stageError is an error wrapped with the name of the pipeline stage that
// produced it, adapted from depp-elf2dos's wrappedError/wrapError so the CLI
// can print "stage: cause" the way the reference tool prints its
// stage-prefixed diagnostics.
type stageError struct {
	stage string
	inner error
}

func (e *stageError) Error() string {
	return fmt.Sprintf("%s: %v", e.stage, e.inner)
}

func (e *stageError) Unwrap() error {
	return e.inner
}

// wrapStage returns err wrapped with stage, or nil if err is nil. If err is
// already a *stageError, stage is prepended rather than nested twice.
func wrapStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*stageError); ok {
		return &stageError{stage: stage + ": " + se.stage, inner: se.inner}
	}
	return &stageError{stage: stage, inner: err}
}

func wrapStagef(stage string, format string, a ...interface{}) error {
	return wrapStage(stage, fmt.Errorf(format, a...))
}
