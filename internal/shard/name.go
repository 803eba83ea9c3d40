package shard

import (
	"fmt"
	"path"

	"github.com/hupe1980/zonescan/model"
)

// Name returns the blob name of column's shard for zone.
func Name(prefix, column string, zone model.ZoneID, c Compression) string {
	return path.Join(prefix, fmt.Sprintf("%s_%d.txt%s", column, zone, c.Ext()))
}
