package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"creatorstack/internal/rbac/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupMongo connects to the replica set named by CREATORSTACK_TEST_MONGO_URI
// (transactions need one) and returns a repository on a throwaway database.
func setupMongo(t *testing.T) *MongoRepository {
	t.Helper()
	uri := os.Getenv("CREATORSTACK_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("CREATORSTACK_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("creatorstack_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	repo := NewMongoRepository(db, CollectionNames{
		Roles:         "roles",
		Users:         "users",
		Submissions:   "submissions",
		AuditLogs:     "audit_logs",
		Categories:    "categories",
		Notifications: "notifications",
	})
	require.NoError(t, repo.EnsureIndexes(ctx))
	return repo
}

func auditEntry(action model.AuditAction, entityID string) *model.AuditLogEntry {
	return &model.AuditLogEntry{
		ID:         uuid.NewString(),
		AdminID:    "admin_1",
		Action:     action,
		EntityType: model.EntityOther,
		EntityID:   entityID,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestMongoRoleDeleteRacesAssignment(t *testing.T) {
	repo := setupMongo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateRole(ctx, &model.Role{ID: "role_base", Name: "Base", NameKey: "base"}, nil))
	require.NoError(t, repo.CreateUser(ctx, &model.User{ID: "u1", Name: "Uma", RoleID: "role_base", Status: model.StatusActive}))

	for i := 0; i < 10; i++ {
		roleID := fmt.Sprintf("role_tmp_%d", i)
		require.NoError(t, repo.CreateRole(ctx, &model.Role{
			ID: roleID, Name: model.RoleName(roleID), NameKey: roleID,
		}, nil))

		var wg sync.WaitGroup
		var deleteErr, assignErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			deleteErr = repo.DeleteRole(ctx, roleID, "", auditEntry(model.ActionDelete, roleID))
		}()
		go func() {
			defer wg.Done()
			assignErr = repo.UpdateUserRole(ctx, "u1", roleID, auditEntry(model.ActionUpdate, "u1"))
		}()
		wg.Wait()

		user, err := repo.GetUser(ctx, "u1")
		require.NoError(t, err)
		_, roleErr := repo.GetRole(ctx, roleID)

		if deleteErr == nil {
			assert.ErrorIs(t, roleErr, ErrNotFound)
			assert.ErrorIs(t, assignErr, ErrInvalidReference)
			assert.NotEqual(t, roleID, user.RoleID, "user left pointing at a deleted role")
		} else {
			assert.ErrorIs(t, deleteErr, ErrInUse)
			require.NoError(t, assignErr)
			assert.Equal(t, roleID, user.RoleID)
		}

		// move the user back so the next role starts without holders
		require.NoError(t, repo.UpdateUserRole(ctx, "u1", "role_base", nil))
	}
}

func TestMongoRoleDocumentHidesLockCounter(t *testing.T) {
	repo := setupMongo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateRole(ctx, &model.Role{ID: "role_a", Name: "Alpha", NameKey: "alpha"}, nil))
	require.NoError(t, repo.CreateUser(ctx, &model.User{ID: "u1", RoleID: "role_a", Status: model.StatusActive}))
	require.NoError(t, repo.UpdateUserRole(ctx, "u1", "role_a", nil))

	role, err := repo.GetRole(ctx, "role_a")
	require.NoError(t, err)
	assert.Equal(t, model.RoleName("Alpha"), role.Name)

	err = repo.UpdateUserRole(ctx, "u1", "role_missing", nil)
	assert.ErrorIs(t, err, ErrInvalidReference)
}
