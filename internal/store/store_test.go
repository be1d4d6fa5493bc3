package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type memorySnapshots struct {
	data     Data
	version  uint64
	saved    int
	failSave bool
}

func (m *memorySnapshots) Load(ctx context.Context) (Data, uint64, error) {
	if m.version == 0 {
		return Data{}, 0, ErrNoSnapshot
	}
	return m.data, m.version, nil
}

func (m *memorySnapshots) Save(ctx context.Context, data Data, version uint64) error {
	if m.failSave {
		return errors.New("disk full")
	}
	m.data = data
	m.version = version
	m.saved++
	return nil
}

func TestUpdateSwapsWholesale(t *testing.T) {
	repo := &memorySnapshots{}
	s := New(Data{}, 0, repo)
	ctx := context.Background()

	err := s.Update(ctx, func(d Data) (Data, error) {
		next := d
		next.Categories = append([]Category{}, Category{ID: "c1", Name: "Electrical"})
		return next, nil
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1), s.Version())
	require.Len(t, s.Snapshot().Categories, 1)
	require.Equal(t, 1, repo.saved)
}

func TestUpdateFailedSaveLeavesStoreUnchanged(t *testing.T) {
	repo := &memorySnapshots{failSave: true}
	s := New(Data{Categories: []Category{{ID: "c1", Name: "Electrical"}}}, 3, repo)

	err := s.Update(context.Background(), func(d Data) (Data, error) {
		next := d
		next.Categories = nil
		return next, nil
	})
	require.Error(t, err)
	require.Equal(t, uint64(3), s.Version())
	require.Len(t, s.Snapshot().Categories, 1)
}

func TestUpdateCallbackErrorAborts(t *testing.T) {
	s := New(Data{}, 0, nil)
	wantErr := errors.New("rejected")

	err := s.Update(context.Background(), func(d Data) (Data, error) {
		return Data{}, wantErr
	})
	require.ErrorIs(t, err, wantErr)
	require.Equal(t, uint64(0), s.Version())
}

func TestOpenEmptyBackingStore(t *testing.T) {
	s, err := Open(context.Background(), &memorySnapshots{})
	require.NoError(t, err)
	require.Equal(t, uint64(0), s.Version())
	require.Empty(t, s.Snapshot().Products)
}
