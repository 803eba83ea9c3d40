package result

import (
	"bytes"
	"context"
	"testing"

	"github.com/hupe1980/zonescan/blobstore"
	"github.com/hupe1980/zonescan/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []model.Extremum{
	{Date: "2003-01-01 01:00", Station: "Changi", Category: model.MaxTemperature, Value: "15"},
	{Date: "2003-01-01 00:00", Station: "Changi", Category: model.MinHumidity, Value: "80"},
}

func TestAppend_SingleHeader(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	name := "results/ScanResult.csv"

	require.NoError(t, Append(ctx, store, name, sample[:1]))
	require.NoError(t, Append(ctx, store, name, sample[1:]))
	require.NoError(t, Append(ctx, store, name, nil))

	data, err := blobstore.ReadAll(ctx, store, name)
	require.NoError(t, err)
	assert.Equal(t, "Date,Station,Category,Value\n"+
		"2003-01-01 01:00,Changi,Max Temperature,15\n"+
		"2003-01-01 00:00,Changi,Min Humidity,80\n", string(data))

	got, err := Read(ctx, store, name)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
}

func TestAppend_EmptyCreatesHeader(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	require.NoError(t, Append(ctx, store, "r.csv", nil))
	got, err := Read(ctx, store, "r.csv")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRead_Malformed(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	require.NoError(t, store.Put(ctx, "bad.csv", []byte("Date,Station,Category,Value\nx,y,Warmest,1\n")))
	_, err := Read(ctx, store, "bad.csv")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Read(ctx, store, "missing.csv")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, sample)
	out := buf.String()
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "Max Temperature")
	assert.Contains(t, out, "2003-01-01 00:00")
}
