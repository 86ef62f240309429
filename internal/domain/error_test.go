package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := E(CodeRemote, "ragapi.Stats", "backend returned 500", nil)
	require.Equal(t, "ragapi.Stats: REMOTE: backend returned 500", err.Error())

	bare := E(CodeNetwork, "", "", errors.New("connection refused"))
	require.Equal(t, "NETWORK: connection refused", bare.Error())
}

func TestWrapPreservesExistingCode(t *testing.T) {
	inner := E(CodeNotFound, "", "no such document", nil)
	wrapped := Wrap(CodeRemote, "ragapi.DeleteKnowledge", inner)

	require.Equal(t, CodeNotFound, wrapped.Code)
	require.Equal(t, "ragapi.DeleteKnowledge", wrapped.Op)
	require.Equal(t, "no such document", wrapped.Message)
}

func TestWrapNil(t *testing.T) {
	require.Nil(t, Wrap(CodeRemote, "op", nil))
}

func TestCodeFrom(t *testing.T) {
	require.Equal(t, CodeDeadlineExceeded, CodeFrom(E(CodeDeadlineExceeded, "", "slow", nil)))
	require.Equal(t, CodeInternal, CodeFrom(errors.New("plain")))
	require.Equal(t, ErrorCode(""), CodeFrom(nil))
}

func TestMetaFrom(t *testing.T) {
	err := &Error{Code: CodeRemote, Meta: map[string]string{"status": "502"}}
	require.Equal(t, "502", MetaFrom(err)["status"])
	require.Nil(t, MetaFrom(errors.New("plain")))
}
