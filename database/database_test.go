package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates a unique index on the email field", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		c := NewCollections(mt.Client, "devlink")
		require.NoError(mt, EnsureIndexes(context.Background(), c))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "createIndexes", evt.CommandName)

		unique, err := evt.Command.LookupErr("indexes", "0", "unique")
		require.NoError(mt, err)
		assert.True(mt, unique.Boolean())

		key, err := evt.Command.LookupErr("indexes", "0", "key", "email")
		require.NoError(mt, err)
		assert.EqualValues(mt, 1, key.Int32())
	})
}
