package firestore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-progress/internal/adapters/storage/firestore"
)

func TestNewStoreRequiresProject(t *testing.T) {
	_, err := firestore.NewStore(context.Background(), "", "")
	require.Error(t, err)
}
