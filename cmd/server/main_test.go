package main

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/campuscharge/powerbank/backend-go/internal/config"
	"github.com/campuscharge/powerbank/backend-go/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := os.Setenv("ENV", "test"); err != nil {
		return
	}
	if err := os.Setenv("HTTP_ADDR", "127.0.0.1:0"); err != nil {
		return
	}
	os.Exit(m.Run())
}

func TestDefaultInitServer(t *testing.T) {
	srv, err := defaultInitServer(context.Background(), config.New())
	require.NoError(t, err)
	assert.NotNil(t, srv.Handler())
}

func TestDefaultInitServerRejectsUnknownSource(t *testing.T) {
	cfg := config.New(config.WithDirectorySource("ftp", "somewhere"))
	_, err := defaultInitServer(context.Background(), cfg)
	assert.Error(t, err)
}

func TestRunStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, run(ctx))
}

func TestRunReportsInitFailure(t *testing.T) {
	original := initServer
	defer func() { initServer = original }()

	initServer = func(context.Context, *config.Config) (*web.Server, error) {
		return nil, errors.New("no directory")
	}
	assert.EqualError(t, run(context.Background()), "no directory")
}
