// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateCallFlagsRejectsMultipleArgsModes(t *testing.T) {
	err := ValidateCallFlags(FlagNoArgs | FlagArgsInline)
	require.ErrorIs(t, err, ErrInvalidFlagCombination)
}

func TestValidateCallFlagsRejectsMultipleContextModes(t *testing.T) {
	err := ValidateCallFlags(FlagNoArgs | FlagNoContext | FlagContextInline)
	require.ErrorIs(t, err, ErrInvalidFlagCombination)
}

func TestValidateCallFlagsAcceptsArgsInArrayWithNoContext(t *testing.T) {
	// Scenario 5's flags: args routed through the call array, no context.
	err := ValidateCallFlags(FlagArgsInArray | FlagNoContext)
	require.NoError(t, err)
}

func TestValidateReturnFlagsRejectsMultipleReturnModes(t *testing.T) {
	err := ValidateReturnFlags(FlagReturnValueVoid | FlagReturnValueInline)
	require.ErrorIs(t, err, ErrInvalidFlagCombination)
}

func TestValidateReturnFlagsRejectsExceptionWithReturnValue(t *testing.T) {
	err := ValidateReturnFlags(FlagExceptionInArray | FlagReturnValueInline)
	require.ErrorIs(t, err, ErrInvalidFlagCombination)
}

func TestHasInArrayFlag(t *testing.T) {
	require.True(t, FlagArgsInArray.HasInArrayFlag())
	require.True(t, FlagContextInArray.HasInArrayFlag())
	require.True(t, FlagReturnValueInArray.HasInArrayFlag())
	require.True(t, FlagExceptionInArray.HasInArrayFlag())
	require.False(t, (FlagNoArgs | FlagNoContext).HasInArrayFlag())
}
