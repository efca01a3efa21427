package handlers

import (
	"testing"
	"time"

	"devlink/auth"
	"devlink/config"
	"devlink/database"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// newMockHandler builds a Handler over mtest's mocked deployment, so tests
// can script the storage responses for full request/response runs.
func newMockHandler(mt *mtest.T) *Handler {
	cfg := &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}
	return New(cfg, auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL), database.NewCollections(mt.Client, "devlink"))
}

// toBSOND round-trips a model through bson so it can be queued as a mock
// response document.
func toBSOND(t *testing.T, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}
