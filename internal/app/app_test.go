package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fengshao1227/woerk-rag-sub001/internal/domain"
)

func TestNewWiresAdapter(t *testing.T) {
	adapter, err := New(domain.Config{
		APIBase: "https://rag.test/v1",
		APIKey:  "sk-test",
	}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, adapter)
	require.NotNil(t, adapter.gateway)
	require.NotNil(t, adapter.registry)
}

func TestNewAcceptsNilLogger(t *testing.T) {
	adapter, err := New(domain.Config{
		APIBase: "https://rag.test/v1",
		APIKey:  "sk-test",
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, adapter)
}
