//go:build integration

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"carga-platform/internal/store"
	"carga-platform/internal/store/storetest"
	mongoclient "carga-platform/pkg/mongo"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:6")
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	storetest.Run(t, func(t *testing.T) store.Store {
		client, err := mongoclient.NewClient(ctx, mongoclient.Config{
			URI:            uri,
			Database:       storetest.UniqueName("carga_test"),
			ConnectTimeout: 10 * time.Second,
		})
		require.NoError(t, err)

		s, err := New(ctx, client)
		require.NoError(t, err)
		t.Cleanup(func() {
			client.Database().Drop(context.Background())
			s.Close(context.Background())
		})
		return s
	})
}
