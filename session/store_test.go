package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gastromanager/dashboard/models"
	"github.com/gastromanager/dashboard/utils"
)

type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	val, ok := f.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func uintPtr(v uint) *uint { return &v }

func TestSaveAndRestore(t *testing.T) {
	utils.InitLogger()
	kv := newFakeKV()
	store := NewStore(kv)
	ctx := context.Background()

	identity := models.Identity{ID: 7, Username: "anna", Role: models.RoleManager, RestaurantID: uintPtr(3)}
	restaurant := &models.Restaurant{ID: 3, Name: "Trattoria"}

	assert.NoError(t, store.SaveLogin(ctx, identity, restaurant))

	gotIdentity, gotRestaurant, err := store.Restore(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, identity, *gotIdentity)
	assert.Equal(t, restaurant.Name, gotRestaurant.Name)
}

func TestRestoreUnknownUser(t *testing.T) {
	utils.InitLogger()
	store := NewStore(newFakeKV())

	identity, restaurant, err := store.Restore(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, identity)
	assert.Nil(t, restaurant)
}

func TestRestoreCorruptIdentityKeepsRestaurant(t *testing.T) {
	utils.InitLogger()
	kv := newFakeKV()
	store := NewStore(kv)
	ctx := context.Background()

	kv.data[identityKey(7)] = "{not json"
	kv.data[restaurantKey(7)] = `{"id":3,"name":"Trattoria"}`

	identity, restaurant, err := store.Restore(ctx, 7)
	assert.NoError(t, err)
	assert.Nil(t, identity)
	assert.NotNil(t, restaurant)
	assert.Equal(t, "Trattoria", restaurant.Name)

	// The corrupt key is gone, the good one stays.
	_, hasIdentity := kv.data[identityKey(7)]
	assert.False(t, hasIdentity)
	_, hasRestaurant := kv.data[restaurantKey(7)]
	assert.True(t, hasRestaurant)
}

func TestRestoreCorruptRestaurantKeepsIdentity(t *testing.T) {
	utils.InitLogger()
	kv := newFakeKV()
	store := NewStore(kv)
	ctx := context.Background()

	kv.data[identityKey(7)] = `{"id":7,"username":"anna","role":"manager"}`
	kv.data[restaurantKey(7)] = "][garbage"

	identity, restaurant, err := store.Restore(ctx, 7)
	assert.NoError(t, err)
	assert.NotNil(t, identity)
	assert.Equal(t, "anna", identity.Username)
	assert.Nil(t, restaurant)
}

func TestClearRemovesBothKeys(t *testing.T) {
	utils.InitLogger()
	kv := newFakeKV()
	store := NewStore(kv)
	ctx := context.Background()

	identity := models.Identity{ID: 7, Username: "anna", Role: models.RoleOwner, RestaurantID: uintPtr(3)}
	assert.NoError(t, store.SaveLogin(ctx, identity, &models.Restaurant{ID: 3}))
	assert.NoError(t, store.Clear(ctx, 7))
	assert.Empty(t, kv.data)
}
